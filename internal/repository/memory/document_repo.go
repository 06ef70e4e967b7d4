package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"docrecon/internal/domain"
	"docrecon/internal/port"
)

type documentRepo struct {
	s *Store
}

// NewDocumentRepo creates an in-memory DocumentRepository.
func NewDocumentRepo(s *Store) port.DocumentRepository {
	return &documentRepo{s: s}
}

func (r *documentRepo) Create(_ context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.docs[doc.ID] = *doc
	return nil
}

func (r *documentRepo) GetByID(_ context.Context, docID uuid.UUID) (*domain.Document, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	doc, ok := r.s.docs[docID]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	doc.HasEditable = doc.EditableS3Key != nil
	return &doc, nil
}

func (r *documentRepo) List(_ context.Context, offset, limit int) ([]domain.Document, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]domain.Document, 0, len(r.s.docs))
	for _, doc := range r.s.docs {
		doc.HasEditable = doc.EditableS3Key != nil
		all = append(all, doc)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	if offset >= total {
		return []domain.Document{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *documentRepo) update(docID uuid.UUID, fn func(doc *domain.Document)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doc, ok := r.s.docs[docID]
	if !ok {
		return domain.ErrDocumentNotFound
	}
	fn(&doc)
	doc.UpdatedAt = time.Now().UTC()
	r.s.docs[docID] = doc
	return nil
}

func (r *documentRepo) UpdateStatus(_ context.Context, docID uuid.UUID, status domain.DocumentStatus, errMsg string) error {
	return r.update(docID, func(doc *domain.Document) {
		doc.Status = status
		doc.ErrorMessage = errMsg
	})
}

func (r *documentRepo) SetEditableKey(_ context.Context, docID uuid.UUID, key string) error {
	return r.update(docID, func(doc *domain.Document) {
		doc.EditableS3Key = &key
	})
}

func (r *documentRepo) MarkFinalized(_ context.Context, docID uuid.UUID) error {
	return r.update(docID, func(doc *domain.Document) {
		now := time.Now().UTC()
		doc.Status = domain.DocumentStatusCorrectionFinalized
		doc.FinalizedAt = &now
	})
}

func (r *documentRepo) Delete(_ context.Context, docID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.docs[docID]; !ok {
		return domain.ErrDocumentNotFound
	}
	r.s.deleteDocumentLocked(docID)
	return nil
}
