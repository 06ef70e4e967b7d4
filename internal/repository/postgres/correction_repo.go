package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docrecon/internal/domain"
	"docrecon/internal/port"
)

type correctionRepo struct {
	db *sqlx.DB
}

// NewCorrectionRepo creates a new PostgreSQL-backed CorrectionRepository.
// Each page is one row keyed by (document_id, page_number).
func NewCorrectionRepo(db *sqlx.DB) port.CorrectionRepository {
	return &correctionRepo{db: db}
}

func (r *correctionRepo) Upsert(ctx context.Context, c *domain.PageCorrection) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO page_corrections (document_id, page_number, corrected_text, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (document_id, page_number) DO UPDATE SET
			corrected_text = EXCLUDED.corrected_text,
			updated_at = EXCLUDED.updated_at`,
		c.DocumentID, c.PageNumber, c.CorrectedText, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("correctionRepo.Upsert: %w", err)
	}
	return nil
}

func (r *correctionRepo) Get(ctx context.Context, docID uuid.UUID, pageNumber int) (*domain.PageCorrection, error) {
	var c domain.PageCorrection
	err := r.db.GetContext(ctx, &c,
		"SELECT * FROM page_corrections WHERE document_id = $1 AND page_number = $2", docID, pageNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCorrectionNotFound
		}
		return nil, fmt.Errorf("correctionRepo.Get: %w", err)
	}
	return &c, nil
}

// ListByDocument returns ErrCorrectionNotFound when the document has no
// corrections at all.
func (r *correctionRepo) ListByDocument(ctx context.Context, docID uuid.UUID) ([]domain.PageCorrection, error) {
	var cs []domain.PageCorrection
	err := r.db.SelectContext(ctx, &cs,
		"SELECT * FROM page_corrections WHERE document_id = $1 ORDER BY page_number", docID)
	if err != nil {
		return nil, fmt.Errorf("correctionRepo.ListByDocument: %w", err)
	}
	if len(cs) == 0 {
		return nil, domain.ErrCorrectionNotFound
	}
	return cs, nil
}
