package service

import (
	"context"
	"log"
	"sync"
	"time"

	"docrecon/internal/port"
)

// ExtractionWorkerConfig holds settings for the extraction worker.
type ExtractionWorkerConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
	PageTimeout  time.Duration
}

// ExtractionWorker polls for queued pages and dispatches them for Text A
// extraction.
type ExtractionWorker struct {
	pageRepo   port.PageRepository
	extraction ExtractionService
	cfg        ExtractionWorkerConfig
	wg         sync.WaitGroup
}

// NewExtractionWorker creates a new ExtractionWorker.
func NewExtractionWorker(pageRepo port.PageRepository, extraction ExtractionService, cfg ExtractionWorkerConfig) *ExtractionWorker {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.PageTimeout <= 0 {
		cfg.PageTimeout = 5 * time.Minute
	}
	return &ExtractionWorker{
		pageRepo:   pageRepo,
		extraction: extraction,
		cfg:        cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight extractions have finished.
func (w *ExtractionWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("extractionWorker: started (poll=%s, concurrency=%d, maxRetries=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.MaxRetries)

	for {
		select {
		case <-ctx.Done():
			log.Printf("extractionWorker: shutting down, waiting for in-flight extractions...")
			w.wg.Wait()
			log.Printf("extractionWorker: shutdown complete")
			return
		case <-ticker.C:
			w.poll(ctx, sem)
		}
	}
}

func (w *ExtractionWorker) poll(ctx context.Context, sem chan struct{}) {
	available := w.cfg.Concurrency - len(sem)
	if available <= 0 {
		return
	}

	pages, err := w.pageRepo.ClaimQueued(ctx, available)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Printf("extractionWorker: ClaimQueued error: %v", err)
		return
	}

	for i := range pages {
		page := pages[i]

		sem <- struct{}{}
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			defer func() { <-sem }()

			// Fresh context so in-flight pages finish during shutdown.
			pageCtx, cancel := context.WithTimeout(context.Background(), w.cfg.PageTimeout)
			defer cancel()

			log.Printf("extractionWorker: dispatching page %d of document %s (attempt %d)",
				page.PageNumber, page.DocumentID, page.Attempts)
			w.extraction.ExtractPage(pageCtx, &page, w.cfg.MaxRetries)
		}()
	}
}

// Wait blocks until all dispatched extractions have returned.
func (w *ExtractionWorker) Wait() {
	w.wg.Wait()
}
