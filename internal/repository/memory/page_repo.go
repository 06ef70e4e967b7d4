package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"docrecon/internal/domain"
	"docrecon/internal/port"
)

type pageRepo struct {
	s *Store
}

// NewPageRepo creates an in-memory PageRepository.
func NewPageRepo(s *Store) port.PageRepository {
	return &pageRepo{s: s}
}

func (r *pageRepo) CreateBatch(_ context.Context, pages []domain.Page) error {
	now := time.Now().UTC()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range pages {
		pages[i].CreatedAt = now
		pages[i].UpdatedAt = now
		r.s.pages[pageKey{pages[i].DocumentID, pages[i].PageNumber}] = pages[i]
	}
	return nil
}

func (r *pageRepo) GetByNumber(_ context.Context, docID uuid.UUID, pageNumber int) (*domain.Page, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.pages[pageKey{docID, pageNumber}]
	if !ok {
		return nil, domain.ErrPageNotFound
	}
	p.HasImage = p.ImageS3Key != nil
	return &p, nil
}

func (r *pageRepo) ListByDocument(_ context.Context, docID uuid.UUID) ([]domain.Page, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Page
	for k, p := range r.s.pages {
		if k.docID == docID {
			p.HasImage = p.ImageS3Key != nil
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PageNumber < out[j].PageNumber })
	return out, nil
}

func (r *pageRepo) SetImage(_ context.Context, docID uuid.UUID, pageNumber int, key, contentType string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := pageKey{docID, pageNumber}
	p, ok := r.s.pages[k]
	if !ok {
		return domain.ErrPageNotFound
	}
	p.ImageS3Key = &key
	p.ImageContentType = &contentType
	p.Status = domain.PageStatusPending
	p.ExtractionError = nil
	p.Attempts = 0
	p.UpdatedAt = time.Now().UTC()
	r.s.pages[k] = p
	return nil
}

func (r *pageRepo) QueueForExtraction(_ context.Context, docID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	now := time.Now().UTC()
	for k, p := range r.s.pages {
		if k.docID != docID || p.ImageS3Key == nil || p.Status == domain.PageStatusProcessing {
			continue
		}
		p.Status = domain.PageStatusQueued
		p.ExtractionError = nil
		p.Attempts = 0
		p.UpdatedAt = now
		r.s.pages[k] = p
		n++
	}
	return n, nil
}

func (r *pageRepo) ClaimQueued(_ context.Context, limit int) ([]domain.Page, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var queued []pageKey
	for k, p := range r.s.pages {
		if p.Status == domain.PageStatusQueued {
			queued = append(queued, k)
		}
	}
	sort.Slice(queued, func(i, j int) bool {
		return r.s.pages[queued[i]].UpdatedAt.Before(r.s.pages[queued[j]].UpdatedAt)
	})
	if len(queued) > limit {
		queued = queued[:limit]
	}

	now := time.Now().UTC()
	out := make([]domain.Page, 0, len(queued))
	for _, k := range queued {
		p := r.s.pages[k]
		p.Status = domain.PageStatusProcessing
		p.Attempts++
		p.UpdatedAt = now
		r.s.pages[k] = p
		p.HasImage = p.ImageS3Key != nil
		out = append(out, p)
	}
	return out, nil
}

func (r *pageRepo) UpdateExtraction(_ context.Context, page *domain.Page) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := pageKey{page.DocumentID, page.PageNumber}
	p, ok := r.s.pages[k]
	if !ok {
		return domain.ErrPageNotFound
	}
	page.UpdatedAt = time.Now().UTC()
	p.Status = page.Status
	p.ExtractionError = page.ExtractionError
	p.Attempts = page.Attempts
	p.UpdatedAt = page.UpdatedAt
	r.s.pages[k] = p
	return nil
}

func (r *pageRepo) CountByStatus(_ context.Context, docID uuid.UUID) (map[domain.PageStatus]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := map[domain.PageStatus]int{}
	for k, p := range r.s.pages {
		if k.docID == docID {
			counts[p.Status]++
		}
	}
	return counts, nil
}
