package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"docrecon/internal/config"
	"docrecon/internal/domain"
	"docrecon/internal/observe"
	"docrecon/internal/port"
	"docrecon/internal/vision"
)

// ExtractionService produces Text A for pages that have an uploaded image.
type ExtractionService interface {
	QueueDocument(ctx context.Context, docID uuid.UUID) (int, error)
	ExtractPage(ctx context.Context, page *domain.Page, maxRetries int)
}

type extractionService struct {
	docRepo   port.DocumentRepository
	pageRepo  port.PageRepository
	textRepo  port.PageTextRepository
	storage   port.ObjectStorage
	extractor port.VisionExtractor
	metrics   *observe.Metrics
	s3Cfg     *config.S3Config
}

// NewExtractionService creates a new ExtractionService implementation.
func NewExtractionService(
	docRepo port.DocumentRepository,
	pageRepo port.PageRepository,
	textRepo port.PageTextRepository,
	storage port.ObjectStorage,
	extractor port.VisionExtractor,
	metrics *observe.Metrics,
	s3Cfg *config.S3Config,
) ExtractionService {
	return &extractionService{
		docRepo:   docRepo,
		pageRepo:  pageRepo,
		textRepo:  textRepo,
		storage:   storage,
		extractor: extractor,
		metrics:   metrics,
		s3Cfg:     s3Cfg,
	}
}

// QueueDocument queues every page with an image that is not already being
// extracted and marks the document as processing.
func (s *extractionService) QueueDocument(ctx context.Context, docID uuid.UUID) (int, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return 0, err
	}
	if doc.Status == domain.DocumentStatusCorrectionFinalized {
		return 0, domain.ErrDocumentFinalized
	}
	if s.extractor == nil {
		return 0, fmt.Errorf("extraction.QueueDocument: no vision extractor configured")
	}

	queued, err := s.pageRepo.QueueForExtraction(ctx, docID)
	if err != nil {
		return 0, fmt.Errorf("extraction.QueueDocument: %w", err)
	}
	if queued == 0 {
		return 0, domain.ErrNoPageImages
	}
	if err := s.docRepo.UpdateStatus(ctx, docID, domain.DocumentStatusProcessing, ""); err != nil {
		return 0, fmt.Errorf("extraction.QueueDocument status: %w", err)
	}
	log.Printf("extraction.QueueDocument: queued %d pages for document %s", queued, docID)
	return queued, nil
}

// ExtractPage runs the vision extractor for a claimed page and records the
// outcome. Rate limited pages are re-queued until maxRetries is reached.
func (s *extractionService) ExtractPage(ctx context.Context, page *domain.Page, maxRetries int) {
	s.metrics.ActiveExtractions.Add(ctx, 1)
	defer s.metrics.ActiveExtractions.Add(ctx, -1)

	start := time.Now()
	out, err := s.extract(ctx, page)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		s.handleExtractError(ctx, page, err, maxRetries, elapsed)
		return
	}

	text := &domain.OCRText{
		DocumentID: page.DocumentID,
		PageNumber: page.PageNumber,
		RawText:    out.Text,
		Layout:     out.Layout,
		Source:     out.ModelUsed,
	}
	if err := s.textRepo.UpsertOCRText(ctx, text); err != nil {
		s.failPage(ctx, page, fmt.Sprintf("storing text: %v", err), elapsed)
		return
	}

	page.Status = domain.PageStatusProcessed
	page.ExtractionError = nil
	if err := s.pageRepo.UpdateExtraction(ctx, page); err != nil {
		log.Printf("extraction.ExtractPage: failed to update page %s/%d: %v", page.DocumentID, page.PageNumber, err)
	}
	s.metrics.RecordExtraction(ctx, elapsed, string(domain.PageStatusProcessed))
	log.Printf("extraction.ExtractPage: page %d of document %s extracted by %s (%d chars)",
		page.PageNumber, page.DocumentID, out.ModelUsed, len(out.Text))

	s.settleDocument(ctx, page.DocumentID)
}

func (s *extractionService) extract(ctx context.Context, page *domain.Page) (*port.ExtractOutput, error) {
	if page.ImageS3Key == nil {
		return nil, domain.ErrNoPageImages
	}
	image, err := s.storage.Download(ctx, s.s3Cfg.Bucket, *page.ImageS3Key)
	if err != nil {
		return nil, fmt.Errorf("downloading page image: %w", err)
	}
	contentType := domain.AllowedFileTypes[domain.FileTypePNG]
	if page.ImageContentType != nil {
		contentType = *page.ImageContentType
	}
	return s.extractor.Extract(ctx, port.ExtractInput{
		Image:       image,
		ContentType: contentType,
		PageNumber:  page.PageNumber,
	})
}

func (s *extractionService) handleExtractError(ctx context.Context, page *domain.Page, err error, maxRetries int, elapsed float64) {
	var rlErr *vision.RateLimitError
	if errors.As(err, &rlErr) && page.Attempts < maxRetries {
		msg := err.Error()
		page.Status = domain.PageStatusQueued
		page.ExtractionError = &msg
		if updateErr := s.pageRepo.UpdateExtraction(ctx, page); updateErr != nil {
			log.Printf("extraction.handleExtractError: failed to re-queue page %s/%d: %v",
				page.DocumentID, page.PageNumber, updateErr)
			return
		}
		s.metrics.RecordExtraction(ctx, elapsed, "requeued")
		log.Printf("extraction.handleExtractError: page %d of document %s rate limited, re-queued (attempt %d/%d, retry after %s)",
			page.PageNumber, page.DocumentID, page.Attempts, maxRetries, rlErr.RetryAfter)
		return
	}
	s.failPage(ctx, page, err.Error(), elapsed)
}

func (s *extractionService) failPage(ctx context.Context, page *domain.Page, msg string, elapsed float64) {
	log.Printf("extraction.failPage: page %d of document %s failed: %s", page.PageNumber, page.DocumentID, msg)
	page.Status = domain.PageStatusError
	page.ExtractionError = &msg
	if err := s.pageRepo.UpdateExtraction(ctx, page); err != nil {
		log.Printf("extraction.failPage: failed to update page %s/%d: %v", page.DocumentID, page.PageNumber, err)
	}
	s.metrics.RecordExtraction(ctx, elapsed, string(domain.PageStatusError))
	s.settleDocument(ctx, page.DocumentID)
}

// settleDocument moves a processing document to completed, partial or error
// once none of its pages are queued or in flight.
func (s *extractionService) settleDocument(ctx context.Context, docID uuid.UUID) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		log.Printf("extraction.settleDocument: %v", err)
		return
	}
	if doc.Status != domain.DocumentStatusProcessing {
		return
	}
	counts, err := s.pageRepo.CountByStatus(ctx, docID)
	if err != nil {
		log.Printf("extraction.settleDocument: %v", err)
		return
	}
	if counts[domain.PageStatusQueued]+counts[domain.PageStatusProcessing] > 0 {
		return
	}

	status, errMsg := settledStatus(counts, doc.PageCount)
	if err := s.docRepo.UpdateStatus(ctx, docID, status, errMsg); err != nil {
		log.Printf("extraction.settleDocument: failed to update document %s: %v", docID, err)
		return
	}
	log.Printf("extraction.settleDocument: document %s is %s", docID, status)
}

func settledStatus(counts map[domain.PageStatus]int, pageCount int) (domain.DocumentStatus, string) {
	processed := counts[domain.PageStatusProcessed]
	failed := counts[domain.PageStatusError]
	switch {
	case processed == pageCount:
		return domain.DocumentStatusCompleted, ""
	case processed > 0:
		if failed > 0 {
			return domain.DocumentStatusPartial, fmt.Sprintf("%d of %d pages failed extraction", failed, pageCount)
		}
		return domain.DocumentStatusPartial, ""
	default:
		return domain.DocumentStatusError, "no page could be extracted"
	}
}
