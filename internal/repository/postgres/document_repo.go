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

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	query := `INSERT INTO documents (
		id, name, original_filename, s3_bucket, s3_key, file_size,
		page_count, editable_s3_key, status, error_message, created_by,
		created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10, $11,
		$12, $13
	)`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.Name, doc.OriginalFilename, doc.S3Bucket, doc.S3Key, doc.FileSize,
		doc.PageCount, doc.EditableS3Key, doc.Status, doc.ErrorMessage, doc.CreatedBy,
		doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc, "SELECT * FROM documents WHERE id = $1", docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	doc.HasEditable = doc.EditableS3Key != nil
	return &doc, nil
}

func (r *documentRepo) List(ctx context.Context, offset, limit int) ([]domain.Document, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM documents"); err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List count: %w", err)
	}

	var docs []domain.Document
	err := r.db.SelectContext(ctx, &docs,
		"SELECT * FROM documents ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List: %w", err)
	}
	for i := range docs {
		docs[i].HasEditable = docs[i].EditableS3Key != nil
	}
	return docs, total, nil
}

func (r *documentRepo) UpdateStatus(ctx context.Context, docID uuid.UUID, status domain.DocumentStatus, errMsg string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE documents SET status = $1, error_message = $2, updated_at = $3 WHERE id = $4",
		status, errMsg, time.Now().UTC(), docID)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateStatus: %w", err)
	}
	return requireRow(result, domain.ErrDocumentNotFound)
}

func (r *documentRepo) SetEditableKey(ctx context.Context, docID uuid.UUID, key string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE documents SET editable_s3_key = $1, updated_at = $2 WHERE id = $3",
		key, time.Now().UTC(), docID)
	if err != nil {
		return fmt.Errorf("documentRepo.SetEditableKey: %w", err)
	}
	return requireRow(result, domain.ErrDocumentNotFound)
}

func (r *documentRepo) MarkFinalized(ctx context.Context, docID uuid.UUID) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		"UPDATE documents SET status = $1, finalized_at = $2, updated_at = $2 WHERE id = $3",
		domain.DocumentStatusCorrectionFinalized, now, docID)
	if err != nil {
		return fmt.Errorf("documentRepo.MarkFinalized: %w", err)
	}
	return requireRow(result, domain.ErrDocumentNotFound)
}

func (r *documentRepo) Delete(ctx context.Context, docID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", docID)
	if err != nil {
		return fmt.Errorf("documentRepo.Delete: %w", err)
	}
	return requireRow(result, domain.ErrDocumentNotFound)
}

func requireRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
