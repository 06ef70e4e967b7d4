package memory

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"docrecon/internal/domain"
	"docrecon/internal/pagemap"
	"docrecon/internal/port"
)

type correctionRepo struct {
	s *Store
}

// NewCorrectionRepo creates an in-memory CorrectionRepository. Corrections
// for a document are held as one pagemap blob, the same shape older
// deployments persisted.
func NewCorrectionRepo(s *Store) port.CorrectionRepository {
	return &correctionRepo{s: s}
}

// decodeLocked returns the decoded pages of an entry. A blob that fails to
// decode is logged and treated as empty; the next write replaces it.
func decodeLocked(docID uuid.UUID, e *correctionEntry) map[int]string {
	pages, err := pagemap.Decode(e.blob)
	if err != nil {
		log.Printf("memory.correctionRepo: resetting corrupt corrections for document %s: %v", docID, err)
		return map[int]string{}
	}
	return pages
}

func (r *correctionRepo) Upsert(_ context.Context, c *domain.PageCorrection) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.corrections[c.DocumentID]
	if !ok {
		e = &correctionEntry{updated: map[int]time.Time{}}
		r.s.corrections[c.DocumentID] = e
	}
	pages := decodeLocked(c.DocumentID, e)
	pages[c.PageNumber] = c.CorrectedText

	blob, err := pagemap.Encode(pages)
	if err != nil {
		return fmt.Errorf("memory.correctionRepo.Upsert: %w", err)
	}
	e.blob = blob
	e.updated[c.PageNumber] = c.UpdatedAt
	return nil
}

func (r *correctionRepo) Get(_ context.Context, docID uuid.UUID, pageNumber int) (*domain.PageCorrection, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.corrections[docID]
	if !ok {
		return nil, domain.ErrCorrectionNotFound
	}
	text, ok := decodeLocked(docID, e)[pageNumber]
	if !ok {
		return nil, domain.ErrCorrectionNotFound
	}
	return &domain.PageCorrection{
		DocumentID:    docID,
		PageNumber:    pageNumber,
		CorrectedText: text,
		UpdatedAt:     e.updated[pageNumber],
	}, nil
}

// ListByDocument returns ErrCorrectionNotFound when no record exists for the
// document, and an empty slice when the record exists but holds no pages.
func (r *correctionRepo) ListByDocument(_ context.Context, docID uuid.UUID) ([]domain.PageCorrection, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.corrections[docID]
	if !ok {
		return nil, domain.ErrCorrectionNotFound
	}
	pages := decodeLocked(docID, e)
	out := make([]domain.PageCorrection, 0, len(pages))
	for _, n := range pagemap.PageNumbers(pages) {
		out = append(out, domain.PageCorrection{
			DocumentID:    docID,
			PageNumber:    n,
			CorrectedText: pages[n],
			UpdatedAt:     e.updated[n],
		})
	}
	return out, nil
}
