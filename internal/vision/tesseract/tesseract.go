//go:build ocr

// Package tesseract transcribes page images locally with Tesseract. It needs
// libtesseract at build time and is compiled only with the ocr build tag.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"docrecon/internal/config"
	"docrecon/internal/port"
	"docrecon/internal/vision"
)

const modelName = "tesseract"

// Available reports whether this binary was built with Tesseract support.
const Available = true

// Extractor implements port.VisionExtractor with gosseract.
type Extractor struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// NewExtractor creates a Tesseract extractor. Language is a "+"-separated
// list of traineddata names such as "eng+deu".
func NewExtractor(cfg *config.VisionProviderConfig) (*Extractor, error) {
	langs := strings.Split(cfg.Language, "+")
	if cfg.Language == "" {
		langs = []string{"eng"}
	}
	return &Extractor{languages: langs, clientFactory: gosseract.NewClient}, nil
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	if err := vision.CheckImageType(input.ContentType); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := e.clientFactory()
	defer func() { _ = c.Close() }()

	if err := c.SetLanguage(e.languages...); err != nil {
		return nil, fmt.Errorf("set languages: %w", err)
	}
	if err := c.SetImageFromBytes(input.Image); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}
	return &port.ExtractOutput{
		Text:      strings.TrimSpace(text),
		ModelUsed: modelName,
	}, nil
}
