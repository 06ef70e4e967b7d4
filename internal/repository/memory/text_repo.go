package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"docrecon/internal/domain"
	"docrecon/internal/port"
)

type pageTextRepo struct {
	s *Store
}

// NewPageTextRepo creates an in-memory PageTextRepository.
func NewPageTextRepo(s *Store) port.PageTextRepository {
	return &pageTextRepo{s: s}
}

func (r *pageTextRepo) UpsertOCRText(_ context.Context, text *domain.OCRText) error {
	now := time.Now().UTC()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := pageKey{text.DocumentID, text.PageNumber}
	if prev, ok := r.s.ocr[k]; ok {
		text.CreatedAt = prev.CreatedAt
	} else {
		text.CreatedAt = now
	}
	text.UpdatedAt = now
	r.s.ocr[k] = *text
	return nil
}

func (r *pageTextRepo) GetOCRText(_ context.Context, docID uuid.UUID, pageNumber int) (*domain.OCRText, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.ocr[pageKey{docID, pageNumber}]
	if !ok {
		return nil, domain.ErrOCRTextNotFound
	}
	return &t, nil
}

func (r *pageTextRepo) ListOCRTexts(_ context.Context, docID uuid.UUID) ([]domain.OCRText, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.OCRText
	for k, t := range r.s.ocr {
		if k.docID == docID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PageNumber < out[j].PageNumber })
	return out, nil
}

func (r *pageTextRepo) ReplaceEditableTexts(_ context.Context, docID uuid.UUID, texts []domain.EditableText) error {
	now := time.Now().UTC()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for k := range r.s.editable {
		if k.docID == docID {
			delete(r.s.editable, k)
		}
	}
	for i := range texts {
		texts[i].DocumentID = docID
		texts[i].CreatedAt = now
		r.s.editable[pageKey{docID, texts[i].PageNumber}] = texts[i]
	}
	return nil
}

func (r *pageTextRepo) GetEditableText(_ context.Context, docID uuid.UUID, pageNumber int) (*domain.EditableText, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.editable[pageKey{docID, pageNumber}]
	if !ok {
		return nil, domain.ErrEditableNotFound
	}
	return &t, nil
}
