package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docrecon/internal/domain"
	"docrecon/internal/port"
)

const ocrTextColumns = `document_id, page_number, raw_text,
	COALESCE(layout::text, '') AS layout, source, created_at, updated_at`

type pageTextRepo struct {
	db *sqlx.DB
}

// NewPageTextRepo creates a new PostgreSQL-backed PageTextRepository.
func NewPageTextRepo(db *sqlx.DB) port.PageTextRepository {
	return &pageTextRepo{db: db}
}

func (r *pageTextRepo) UpsertOCRText(ctx context.Context, text *domain.OCRText) error {
	now := time.Now().UTC()
	text.CreatedAt = now
	text.UpdatedAt = now

	var layout interface{}
	if len(text.Layout) > 0 {
		layout = string(text.Layout)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ocr_texts (document_id, page_number, raw_text, layout, source, created_at, updated_at)
		 VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7)
		 ON CONFLICT (document_id, page_number) DO UPDATE SET
			raw_text = EXCLUDED.raw_text,
			layout = EXCLUDED.layout,
			source = EXCLUDED.source,
			updated_at = EXCLUDED.updated_at`,
		text.DocumentID, text.PageNumber, text.RawText, layout, text.Source, text.CreatedAt, text.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pageTextRepo.UpsertOCRText: %w", err)
	}
	return nil
}

func (r *pageTextRepo) GetOCRText(ctx context.Context, docID uuid.UUID, pageNumber int) (*domain.OCRText, error) {
	var text domain.OCRText
	err := r.db.GetContext(ctx, &text,
		"SELECT "+ocrTextColumns+" FROM ocr_texts WHERE document_id = $1 AND page_number = $2",
		docID, pageNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOCRTextNotFound
		}
		return nil, fmt.Errorf("pageTextRepo.GetOCRText: %w", err)
	}
	return &text, nil
}

func (r *pageTextRepo) ListOCRTexts(ctx context.Context, docID uuid.UUID) ([]domain.OCRText, error) {
	var texts []domain.OCRText
	err := r.db.SelectContext(ctx, &texts,
		"SELECT "+ocrTextColumns+" FROM ocr_texts WHERE document_id = $1 ORDER BY page_number",
		docID)
	if err != nil {
		return nil, fmt.Errorf("pageTextRepo.ListOCRTexts: %w", err)
	}
	return texts, nil
}

// ReplaceEditableTexts swaps the stored Text B of a document for texts in a
// single transaction.
func (r *pageTextRepo) ReplaceEditableTexts(ctx context.Context, docID uuid.UUID, texts []domain.EditableText) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pageTextRepo.ReplaceEditableTexts begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM editable_texts WHERE document_id = $1", docID); err != nil {
		return fmt.Errorf("pageTextRepo.ReplaceEditableTexts delete: %w", err)
	}

	now := time.Now().UTC()
	for i := range texts {
		texts[i].DocumentID = docID
		texts[i].CreatedAt = now
		_, err := tx.ExecContext(ctx,
			"INSERT INTO editable_texts (document_id, page_number, text, created_at) VALUES ($1, $2, $3, $4)",
			docID, texts[i].PageNumber, texts[i].Text, now)
		if err != nil {
			return fmt.Errorf("pageTextRepo.ReplaceEditableTexts insert page %d: %w", texts[i].PageNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pageTextRepo.ReplaceEditableTexts commit: %w", err)
	}
	return nil
}

func (r *pageTextRepo) GetEditableText(ctx context.Context, docID uuid.UUID, pageNumber int) (*domain.EditableText, error) {
	var text domain.EditableText
	err := r.db.GetContext(ctx, &text,
		"SELECT * FROM editable_texts WHERE document_id = $1 AND page_number = $2", docID, pageNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEditableNotFound
		}
		return nil, fmt.Errorf("pageTextRepo.GetEditableText: %w", err)
	}
	return &text, nil
}
