package port

import (
	"context"
	"encoding/json"
)

// ExtractInput carries a page image for Text A extraction.
type ExtractInput struct {
	Image       []byte
	ContentType string
	PageNumber  int
}

// ExtractOutput is the Text A produced for a page.
type ExtractOutput struct {
	Text      string
	Layout    json.RawMessage
	ModelUsed string
}

// VisionExtractor produces Text A from a page image.
type VisionExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}

// TextLayerExtractor reads the embedded text layer of a PDF (Text B).
type TextLayerExtractor interface {
	PageCount(data []byte) (int, error)
	ExtractPages(ctx context.Context, data []byte) ([]string, error)
}
