//go:build !ocr

package tesseract

import (
	"context"
	"errors"

	"docrecon/internal/config"
	"docrecon/internal/port"
)

// ErrUnavailable is returned when the binary was built without the ocr tag.
var ErrUnavailable = errors.New("tesseract support not compiled in (build with -tags ocr)")

// Available reports whether this binary was built with Tesseract support.
const Available = false

// Extractor is a placeholder that always fails.
type Extractor struct{}

// NewExtractor fails without the ocr build tag.
func NewExtractor(_ *config.VisionProviderConfig) (*Extractor, error) {
	return nil, ErrUnavailable
}

func (e *Extractor) Extract(_ context.Context, _ port.ExtractInput) (*port.ExtractOutput, error) {
	return nil, ErrUnavailable
}
