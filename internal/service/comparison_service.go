package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docrecon/internal/config"
	"docrecon/internal/diff"
	"docrecon/internal/domain"
	"docrecon/internal/observe"
	"docrecon/internal/port"
)

// PageComparison is the alignment of one stored page's Text A and Text B.
type PageComparison struct {
	DocumentID uuid.UUID       `json:"document_id"`
	PageNumber int             `json:"page_number"`
	HasTextA   bool            `json:"has_text_a"`
	HasTextB   bool            `json:"has_text_b"`
	TextA      string          `json:"text_a"`
	TextB      string          `json:"text_b"`
	Layout     json.RawMessage `json:"layout,omitempty"`
	Corrected  bool            `json:"corrected"`
	*diff.Result
}

// ComparisonService aligns Text A against Text B.
type ComparisonService interface {
	CompareTexts(ctx context.Context, textA, textB string) (*diff.Result, error)
	ComparePage(ctx context.Context, docID uuid.UUID, pageNumber int) (*PageComparison, error)
}

type comparisonService struct {
	docRepo        port.DocumentRepository
	textRepo       port.PageTextRepository
	correctionRepo port.CorrectionRepository
	comparer       *diff.Comparer
	metrics        *observe.Metrics
	timeout        time.Duration
}

// NewComparisonService creates a new ComparisonService implementation.
func NewComparisonService(
	docRepo port.DocumentRepository,
	textRepo port.PageTextRepository,
	correctionRepo port.CorrectionRepository,
	metrics *observe.Metrics,
	cfg *config.CompareConfig,
) ComparisonService {
	return &comparisonService{
		docRepo:        docRepo,
		textRepo:       textRepo,
		correctionRepo: correctionRepo,
		comparer:       diff.NewComparer(diff.Options{Classify: cfg.Classify}),
		metrics:        metrics,
		timeout:        cfg.Timeout,
	}
}

// CompareTexts runs the comparison under the configured time budget.
func (s *comparisonService) CompareTexts(ctx context.Context, textA, textB string) (*diff.Result, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	done := make(chan *diff.Result, 1)
	go func() {
		done <- s.comparer.Compare(textA, textB)
	}()

	select {
	case res := <-done:
		s.metrics.RecordComparison(ctx, time.Since(start).Seconds(), res)
		return res, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			s.metrics.CompareTimeouts.Add(context.Background(), 1)
			return nil, domain.ErrComparisonTimeout
		}
		return nil, fmt.Errorf("comparison.CompareTexts: %w", ctx.Err())
	}
}

// ComparePage compares the stored OCR text of a page against its editable
// text. A missing side compares as empty; both missing is an error.
func (s *comparisonService) ComparePage(ctx context.Context, docID uuid.UUID, pageNumber int) (*PageComparison, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if pageNumber < 1 || pageNumber > doc.PageCount {
		return nil, domain.ErrInvalidPageNumber
	}

	pc := &PageComparison{DocumentID: docID, PageNumber: pageNumber}

	ocr, err := s.textRepo.GetOCRText(ctx, docID, pageNumber)
	switch {
	case err == nil:
		pc.HasTextA = true
		pc.TextA = ocr.RawText
		pc.Layout = ocr.Layout
	case !errors.Is(err, domain.ErrOCRTextNotFound):
		return nil, fmt.Errorf("comparison.ComparePage ocr: %w", err)
	}

	editable, err := s.textRepo.GetEditableText(ctx, docID, pageNumber)
	switch {
	case err == nil:
		pc.HasTextB = true
		pc.TextB = editable.Text
	case !errors.Is(err, domain.ErrEditableNotFound):
		return nil, fmt.Errorf("comparison.ComparePage editable: %w", err)
	}

	if !pc.HasTextA && !pc.HasTextB {
		return nil, domain.ErrPageTextNotFound
	}

	if _, err := s.correctionRepo.Get(ctx, docID, pageNumber); err == nil {
		pc.Corrected = true
	} else if !errors.Is(err, domain.ErrCorrectionNotFound) {
		return nil, fmt.Errorf("comparison.ComparePage correction: %w", err)
	}

	res, err := s.CompareTexts(ctx, pc.TextA, pc.TextB)
	if err != nil {
		return nil, err
	}
	pc.Result = res
	return pc, nil
}
