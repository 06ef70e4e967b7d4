package email_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"docrecon/internal/email"
	"docrecon/internal/port"
)

func TestFinalizedMessage(t *testing.T) {
	id := uuid.MustParse("7b7c64e4-0d5b-4f7e-9d53-6bd0f8d0b0a1")
	msg := email.FinalizedMessage(port.FinalizedNotice{
		DocumentID:   id,
		DocumentName: "Lease <draft>",
		PageCount:    4,
		Corrected:    3,
		FinalizedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}, "https://app.example.com")

	assert.Equal(t, "Corrections finalized: Lease <draft>", msg.Subject)
	assert.Equal(t, "https://app.example.com/documents/"+id.String(), msg.Link)
	assert.Contains(t, msg.Text, "Corrected pages: 3")
	assert.Contains(t, msg.HTML, "Lease &lt;draft&gt;")
	assert.NotContains(t, msg.HTML, "<draft>")
}

func TestFinalizedMessage_EscapesLinkInHTML(t *testing.T) {
	id := uuid.New()
	msg := email.FinalizedMessage(port.FinalizedNotice{
		DocumentID:   id,
		DocumentName: "Lease",
		FinalizedAt:  time.Now(),
	}, `https://app.example.com/?a=1&b="x"><script>`)

	escaped := `https://app.example.com/?a=1&amp;b=&#34;x&#34;&gt;&lt;script&gt;/documents/` + id.String()
	assert.Contains(t, msg.HTML, `href="`+escaped+`"`)
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.Text, `https://app.example.com/?a=1&b="x"><script>/documents/`+id.String())
	assert.Equal(t, `https://app.example.com/?a=1&b="x"><script>/documents/`+id.String(), msg.Link)
}
