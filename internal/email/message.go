// Package email renders notification messages shared by the sender backends.
package email

import (
	"fmt"
	"html"
	"time"

	"docrecon/internal/port"
)

// Message is a rendered notification.
type Message struct {
	Subject string
	HTML    string
	Text    string
	Link    string
}

// FinalizedMessage renders the notice sent when a document's corrections
// are finalized.
func FinalizedMessage(n port.FinalizedNotice, frontendURL string) Message {
	link := fmt.Sprintf("%s/documents/%s", frontendURL, n.DocumentID)
	when := n.FinalizedAt.UTC().Format(time.RFC1123)

	subject := fmt.Sprintf("Corrections finalized: %s", n.DocumentName)
	text := fmt.Sprintf("The corrections for %q are finalized.\n\nPages: %d\nCorrected pages: %d\nFinalized at: %s\n\nOpen the document:\n%s\n\nDocRecon",
		n.DocumentName, n.PageCount, n.Corrected, when, link)

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Corrections finalized</h2>
  <p>The corrections for <strong>%s</strong> are finalized.</p>
  <table style="margin: 20px 0; color: #333;">
    <tr><td style="padding-right: 16px;">Pages</td><td>%d</td></tr>
    <tr><td style="padding-right: 16px;">Corrected pages</td><td>%d</td></tr>
    <tr><td style="padding-right: 16px;">Finalized at</td><td>%s</td></tr>
  </table>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Open Document</a>
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">DocRecon - Document Reconciliation</p>
</body>
</html>`, html.EscapeString(n.DocumentName), n.PageCount, n.Corrected, when, html.EscapeString(link))

	return Message{Subject: subject, HTML: body, Text: text, Link: link}
}
