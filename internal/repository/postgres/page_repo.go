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

type pageRepo struct {
	db *sqlx.DB
}

// NewPageRepo creates a new PostgreSQL-backed PageRepository.
func NewPageRepo(db *sqlx.DB) port.PageRepository {
	return &pageRepo{db: db}
}

func (r *pageRepo) CreateBatch(ctx context.Context, pages []domain.Page) error {
	if len(pages) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range pages {
		pages[i].CreatedAt = now
		pages[i].UpdatedAt = now
	}

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO pages (id, document_id, page_number, status, attempts, created_at, updated_at)
		 VALUES (:id, :document_id, :page_number, :status, :attempts, :created_at, :updated_at)`,
		pages)
	if err != nil {
		return fmt.Errorf("pageRepo.CreateBatch: %w", err)
	}
	return nil
}

func (r *pageRepo) GetByNumber(ctx context.Context, docID uuid.UUID, pageNumber int) (*domain.Page, error) {
	var page domain.Page
	err := r.db.GetContext(ctx, &page,
		"SELECT * FROM pages WHERE document_id = $1 AND page_number = $2", docID, pageNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPageNotFound
		}
		return nil, fmt.Errorf("pageRepo.GetByNumber: %w", err)
	}
	page.HasImage = page.ImageS3Key != nil
	return &page, nil
}

func (r *pageRepo) ListByDocument(ctx context.Context, docID uuid.UUID) ([]domain.Page, error) {
	var pages []domain.Page
	err := r.db.SelectContext(ctx, &pages,
		"SELECT * FROM pages WHERE document_id = $1 ORDER BY page_number", docID)
	if err != nil {
		return nil, fmt.Errorf("pageRepo.ListByDocument: %w", err)
	}
	for i := range pages {
		pages[i].HasImage = pages[i].ImageS3Key != nil
	}
	return pages, nil
}

func (r *pageRepo) SetImage(ctx context.Context, docID uuid.UUID, pageNumber int, key, contentType string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE pages SET image_s3_key = $1, image_content_type = $2, status = $3,
			extraction_error = NULL, attempts = 0, updated_at = $4
		 WHERE document_id = $5 AND page_number = $6`,
		key, contentType, domain.PageStatusPending, time.Now().UTC(), docID, pageNumber)
	if err != nil {
		return fmt.Errorf("pageRepo.SetImage: %w", err)
	}
	return requireRow(result, domain.ErrPageNotFound)
}

func (r *pageRepo) QueueForExtraction(ctx context.Context, docID uuid.UUID) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE pages SET status = $1, extraction_error = NULL, attempts = 0, updated_at = $2
		 WHERE document_id = $3 AND image_s3_key IS NOT NULL AND status <> $4`,
		domain.PageStatusQueued, time.Now().UTC(), docID, domain.PageStatusProcessing)
	if err != nil {
		return 0, fmt.Errorf("pageRepo.QueueForExtraction: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pageRepo.QueueForExtraction rows: %w", err)
	}
	return int(n), nil
}

// ClaimQueued atomically moves up to limit queued pages to processing and
// returns them. Concurrent callers never receive the same page.
func (r *pageRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.Page, error) {
	var pages []domain.Page
	err := r.db.SelectContext(ctx, &pages,
		`UPDATE pages SET status = $1, attempts = attempts + 1, updated_at = $2
		 WHERE id IN (
			SELECT id FROM pages WHERE status = $3
			ORDER BY updated_at
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING *`,
		domain.PageStatusProcessing, time.Now().UTC(), domain.PageStatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("pageRepo.ClaimQueued: %w", err)
	}
	for i := range pages {
		pages[i].HasImage = pages[i].ImageS3Key != nil
	}
	return pages, nil
}

func (r *pageRepo) UpdateExtraction(ctx context.Context, page *domain.Page) error {
	page.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE pages SET status = $1, extraction_error = $2, attempts = $3, updated_at = $4
		 WHERE id = $5`,
		page.Status, page.ExtractionError, page.Attempts, page.UpdatedAt, page.ID)
	if err != nil {
		return fmt.Errorf("pageRepo.UpdateExtraction: %w", err)
	}
	return requireRow(result, domain.ErrPageNotFound)
}

func (r *pageRepo) CountByStatus(ctx context.Context, docID uuid.UUID) (map[domain.PageStatus]int, error) {
	var rows []struct {
		Status domain.PageStatus `db:"status"`
		Count  int               `db:"count"`
	}
	err := r.db.SelectContext(ctx, &rows,
		"SELECT status, COUNT(*) AS count FROM pages WHERE document_id = $1 GROUP BY status", docID)
	if err != nil {
		return nil, fmt.Errorf("pageRepo.CountByStatus: %w", err)
	}
	counts := make(map[domain.PageStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
