package csvexport

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"docrecon/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Document Name",
	"Page",
	"Source",
	"Words",
	"Characters",
	"Text",
}

// Writer wraps csv.Writer for exporting a document's final page texts.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WritePages writes one row per page.
func (w *Writer) WritePages(documentName string, pages []domain.PageText) error {
	for i := range pages {
		if err := w.csv.Write(pageToRow(documentName, &pages[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func pageToRow(documentName string, p *domain.PageText) []string {
	return []string{
		documentName,
		strconv.Itoa(p.PageNumber),
		string(p.Source),
		strconv.Itoa(len(strings.Fields(p.Text))),
		strconv.Itoa(utf8.RuneCountInString(p.Text)),
		p.Text,
	}
}
