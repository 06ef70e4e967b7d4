package vision

import (
	"encoding/json"
	"fmt"
	"strings"

	"docrecon/internal/domain"
	"docrecon/internal/port"
)

// ParseTranscript turns the text an LLM returned for ExtractionPrompt into an
// ExtractOutput. Code fences are tolerated. When the body holds only blocks,
// the page text is rebuilt from them.
func ParseTranscript(raw, model string) (*port.ExtractOutput, error) {
	body := stripFences(raw)

	var parsed struct {
		Text   string               `json:"text"`
		Blocks []domain.LayoutBlock `json:"blocks"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return nil, fmt.Errorf("parsing LLM JSON output: %w (raw: %s)", err, truncate(raw, 500))
	}

	text := parsed.Text
	if strings.TrimSpace(text) == "" && len(parsed.Blocks) > 0 {
		parts := make([]string, 0, len(parsed.Blocks))
		for _, b := range parsed.Blocks {
			parts = append(parts, b.Text)
		}
		text = strings.Join(parts, "\n\n")
	}

	out := &port.ExtractOutput{Text: text, ModelUsed: model}
	if len(parsed.Blocks) > 0 {
		layout, err := json.Marshal(domain.Layout{Blocks: parsed.Blocks})
		if err != nil {
			return nil, fmt.Errorf("marshaling layout: %w", err)
		}
		out.Layout = layout
	}
	return out, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// CheckImageType checks the content type of a page image. Only JPEG and PNG
// are accepted by the providers.
func CheckImageType(contentType string) error {
	switch contentType {
	case "image/jpeg", "image/png":
		return nil
	default:
		return fmt.Errorf("unsupported content type for extraction: %s: %w", contentType, domain.ErrUnsupportedFileType)
	}
}
