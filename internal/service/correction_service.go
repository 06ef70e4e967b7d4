package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"docrecon/internal/domain"
	"docrecon/internal/observe"
	"docrecon/internal/port"
)

const previewLength = 100

// SaveCorrectionResult echoes an accepted correction.
type SaveCorrectionResult struct {
	DocumentID uuid.UUID `json:"document_id"`
	PageNumber int       `json:"page_number"`
	Preview    string    `json:"corrected_text_preview"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DocumentCorrections is the full set of saved page texts for a document.
type DocumentCorrections struct {
	DocumentID uuid.UUID      `json:"document_id"`
	Pages      map[int]string `json:"pages"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// FinalizeInput is the DTO for finalizing a document's corrections.
type FinalizeInput struct {
	DocumentID  uuid.UUID
	NotifyEmail string
}

// CorrectionService stores the user's final text per page.
type CorrectionService interface {
	GetPageText(ctx context.Context, docID uuid.UUID, pageNumber int) (string, error)
	SetPageText(ctx context.Context, docID uuid.UUID, pageNumber int, text string) (*domain.PageCorrection, error)
	GetAllPages(ctx context.Context, docID uuid.UUID) (map[int]string, time.Time, error)
	SaveCorrection(ctx context.Context, docID uuid.UUID, pageNumber int, text string) (*SaveCorrectionResult, error)
	ListCorrections(ctx context.Context, docID uuid.UUID) (*DocumentCorrections, error)
	Finalize(ctx context.Context, input *FinalizeInput) (*domain.Document, error)
}

type correctionService struct {
	docRepo        port.DocumentRepository
	correctionRepo port.CorrectionRepository
	emailSender    port.EmailSender
	metrics        *observe.Metrics
	notifyAddress  string
	locks          *documentLocks
}

// NewCorrectionService creates a new CorrectionService implementation.
// notifyAddress receives finalize notices when the caller supplies none.
func NewCorrectionService(
	docRepo port.DocumentRepository,
	correctionRepo port.CorrectionRepository,
	emailSender port.EmailSender,
	metrics *observe.Metrics,
	notifyAddress string,
) CorrectionService {
	return &correctionService{
		docRepo:        docRepo,
		correctionRepo: correctionRepo,
		emailSender:    emailSender,
		metrics:        metrics,
		notifyAddress:  notifyAddress,
		locks:          newDocumentLocks(),
	}
}

func (s *correctionService) GetPageText(ctx context.Context, docID uuid.UUID, pageNumber int) (string, error) {
	c, err := s.correctionRepo.Get(ctx, docID, pageNumber)
	if err != nil {
		return "", err
	}
	return c.CorrectedText, nil
}

// SetPageText creates or replaces the record for one page. Other pages of the
// document are left untouched.
func (s *correctionService) SetPageText(ctx context.Context, docID uuid.UUID, pageNumber int, text string) (*domain.PageCorrection, error) {
	// Held across the status check so a concurrent Finalize cannot slip in
	// between the check and the write.
	unlock := s.locks.lock(docID)
	defer unlock()

	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc.Status == domain.DocumentStatusCorrectionFinalized {
		return nil, domain.ErrDocumentFinalized
	}
	if pageNumber < 1 || pageNumber > doc.PageCount {
		return nil, domain.ErrInvalidPageNumber
	}

	c := &domain.PageCorrection{
		DocumentID:    docID,
		PageNumber:    pageNumber,
		CorrectedText: text,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := s.correctionRepo.Upsert(ctx, c); err != nil {
		return nil, fmt.Errorf("correction.SetPageText: %w", err)
	}

	if doc.Status != domain.DocumentStatusCorrectionInProgress {
		if err := s.docRepo.UpdateStatus(ctx, docID, domain.DocumentStatusCorrectionInProgress, ""); err != nil {
			log.Printf("correction.SetPageText: failed to update status of %s: %v", docID, err)
		}
	}
	s.metrics.CorrectionSaves.Add(ctx, 1)
	return c, nil
}

// GetAllPages returns every saved page and the latest update time.
// domain.ErrCorrectionNotFound means the document has no record at all; a
// record holding no pages yields an empty map.
func (s *correctionService) GetAllPages(ctx context.Context, docID uuid.UUID) (map[int]string, time.Time, error) {
	records, err := s.correctionRepo.ListByDocument(ctx, docID)
	if err != nil {
		return nil, time.Time{}, err
	}
	pages := make(map[int]string, len(records))
	var latest time.Time
	for i := range records {
		pages[records[i].PageNumber] = records[i].CorrectedText
		if records[i].UpdatedAt.After(latest) {
			latest = records[i].UpdatedAt
		}
	}
	return pages, latest, nil
}

func (s *correctionService) SaveCorrection(ctx context.Context, docID uuid.UUID, pageNumber int, text string) (*SaveCorrectionResult, error) {
	c, err := s.SetPageText(ctx, docID, pageNumber, text)
	if err != nil {
		return nil, err
	}
	log.Printf("correction.SaveCorrection: saved page %d of document %s (%d chars)", pageNumber, docID, len(text))
	return &SaveCorrectionResult{
		DocumentID: docID,
		PageNumber: pageNumber,
		Preview:    Preview(text),
		UpdatedAt:  c.UpdatedAt,
	}, nil
}

func (s *correctionService) ListCorrections(ctx context.Context, docID uuid.UUID) (*DocumentCorrections, error) {
	if _, err := s.docRepo.GetByID(ctx, docID); err != nil {
		return nil, err
	}
	pages, updated, err := s.GetAllPages(ctx, docID)
	if err != nil {
		return nil, err
	}
	return &DocumentCorrections{DocumentID: docID, Pages: pages, UpdatedAt: updated}, nil
}

// Finalize marks the document's corrections final and sends a notice.
// Finalizing twice is a no-op.
func (s *correctionService) Finalize(ctx context.Context, input *FinalizeInput) (*domain.Document, error) {
	unlock := s.locks.lock(input.DocumentID)
	defer unlock()

	doc, err := s.docRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc.Status == domain.DocumentStatusCorrectionFinalized {
		return doc, nil
	}

	if err := s.docRepo.MarkFinalized(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("correction.Finalize: %w", err)
	}
	doc, err = s.docRepo.GetByID(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	records, err := s.correctionRepo.ListByDocument(ctx, doc.ID)
	if err != nil && !errors.Is(err, domain.ErrCorrectionNotFound) {
		log.Printf("correction.Finalize: listing corrections for %s: %v", doc.ID, err)
	}
	corrected := len(records)

	s.notify(ctx, doc, corrected, input.NotifyEmail)
	log.Printf("correction.Finalize: document %s finalized with %d corrected pages", doc.ID, corrected)
	return doc, nil
}

func (s *correctionService) notify(ctx context.Context, doc *domain.Document, corrected int, to string) {
	to = strings.TrimSpace(to)
	if to == "" {
		to = s.notifyAddress
	}
	if to == "" || s.emailSender == nil {
		return
	}
	finalizedAt := time.Now().UTC()
	if doc.FinalizedAt != nil {
		finalizedAt = *doc.FinalizedAt
	}
	notice := port.FinalizedNotice{
		DocumentID:   doc.ID,
		DocumentName: doc.Name,
		PageCount:    doc.PageCount,
		Corrected:    corrected,
		FinalizedAt:  finalizedAt,
	}
	if err := s.emailSender.SendFinalizedEmail(ctx, to, notice); err != nil {
		log.Printf("WARNING: correction.Finalize: failed to send notice for %s to %s: %v", doc.ID, to, err)
	}
}

// Preview truncates text to its first 100 characters, marking the cut with "...".
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}
