package port

import (
	"context"

	"github.com/google/uuid"

	"docrecon/internal/domain"
)

// PageTextRepository stores both renditions of each page: Text A from OCR and
// Text B from the editable PDF.
type PageTextRepository interface {
	UpsertOCRText(ctx context.Context, text *domain.OCRText) error
	GetOCRText(ctx context.Context, docID uuid.UUID, pageNumber int) (*domain.OCRText, error)
	ListOCRTexts(ctx context.Context, docID uuid.UUID) ([]domain.OCRText, error)
	ReplaceEditableTexts(ctx context.Context, docID uuid.UUID, texts []domain.EditableText) error
	GetEditableText(ctx context.Context, docID uuid.UUID, pageNumber int) (*domain.EditableText, error)
}

// CorrectionRepository persists the user's final text per page. Writes for a
// page replace any earlier record for that page and leave other pages alone.
type CorrectionRepository interface {
	Upsert(ctx context.Context, correction *domain.PageCorrection) error
	Get(ctx context.Context, docID uuid.UUID, pageNumber int) (*domain.PageCorrection, error)
	ListByDocument(ctx context.Context, docID uuid.UUID) ([]domain.PageCorrection, error)
}
