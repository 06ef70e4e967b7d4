package port

import (
	"context"

	"github.com/google/uuid"

	"docrecon/internal/domain"
)

// DocumentRepository defines the contract for document persistence.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, offset, limit int) ([]domain.Document, int, error)
	UpdateStatus(ctx context.Context, docID uuid.UUID, status domain.DocumentStatus, errMsg string) error
	SetEditableKey(ctx context.Context, docID uuid.UUID, key string) error
	MarkFinalized(ctx context.Context, docID uuid.UUID) error
	Delete(ctx context.Context, docID uuid.UUID) error
}

// PageRepository defines the contract for page persistence and the Text A
// extraction queue.
type PageRepository interface {
	CreateBatch(ctx context.Context, pages []domain.Page) error
	GetByNumber(ctx context.Context, docID uuid.UUID, pageNumber int) (*domain.Page, error)
	ListByDocument(ctx context.Context, docID uuid.UUID) ([]domain.Page, error)
	SetImage(ctx context.Context, docID uuid.UUID, pageNumber int, key, contentType string) error
	QueueForExtraction(ctx context.Context, docID uuid.UUID) (int, error)
	ClaimQueued(ctx context.Context, limit int) ([]domain.Page, error)
	UpdateExtraction(ctx context.Context, page *domain.Page) error
	CountByStatus(ctx context.Context, docID uuid.UUID) (map[domain.PageStatus]int, error)
}
