package pdftext_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docrecon/internal/domain"
	"docrecon/internal/pdftext"
)

func TestIsPDF(t *testing.T) {
	assert.True(t, pdftext.IsPDF([]byte("%PDF-1.7\n...")))
	assert.False(t, pdftext.IsPDF([]byte("PK\x03\x04")))
	assert.False(t, pdftext.IsPDF(nil))
}

func TestPageCount_NotPDF(t *testing.T) {
	_, err := pdftext.NewExtractor().PageCount([]byte("hello world"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidPDF)
}

func TestExtractPages_Truncated(t *testing.T) {
	_, err := pdftext.NewExtractor().ExtractPages(context.Background(), []byte("%PDF-1.4\n%garbage"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidPDF)
}
