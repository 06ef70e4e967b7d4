// Package pdftext reads the embedded text layer of editable PDFs.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"

	"docrecon/internal/domain"
	"docrecon/internal/port"
)

type extractor struct{}

// NewExtractor returns a TextLayerExtractor backed by ledongthuc/pdf.
func NewExtractor() port.TextLayerExtractor {
	return &extractor{}
}

// PageCount returns the number of pages in the PDF.
func (e *extractor) PageCount(data []byte) (n int, err error) {
	r, err := open(data)
	if err != nil {
		return 0, err
	}
	defer recoverInvalid(&err)
	return r.NumPage(), nil
}

// ExtractPages returns the plain text of every page, in page order. Pages with
// no text layer yield an empty string so indexes stay aligned with page numbers.
func (e *extractor) ExtractPages(ctx context.Context, data []byte) (pages []string, err error) {
	r, err := open(data)
	if err != nil {
		return nil, err
	}
	defer recoverInvalid(&err)

	total := r.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			log.Printf("WARNING: pdftext.ExtractPages: page %d: %v", i, err)
			pages = append(pages, "")
			continue
		}
		pages = append(pages, normalize(text))
	}
	return pages, nil
}

// IsPDF reports whether data starts with the PDF magic bytes.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

func open(data []byte) (r *pdf.Reader, err error) {
	if !IsPDF(data) {
		return nil, fmt.Errorf("pdftext.open: %w", domain.ErrInvalidPDF)
	}
	defer recoverInvalid(&err)
	r, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("pdftext.open: %v: %w", err, domain.ErrInvalidPDF)
	}
	return r, nil
}

// The reader panics on some malformed cross-reference tables.
func recoverInvalid(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("pdftext: %v: %w", r, domain.ErrInvalidPDF)
	}
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimRight(s, " \n\t")
}
