// @title DocRecon API
// @version 1.0
// @description Reconciles OCR text of scanned pages against the text layer of an editable PDF.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	_ "docrecon/docs"
	"docrecon/internal/config"
	"docrecon/internal/email/noop"
	"docrecon/internal/email/ses"
	"docrecon/internal/handler"
	"docrecon/internal/observe"
	"docrecon/internal/pdftext"
	"docrecon/internal/port"
	"docrecon/internal/repository/memory"
	"docrecon/internal/repository/postgres"
	"docrecon/internal/router"
	"docrecon/internal/service"
	memstorage "docrecon/internal/storage/memory"
	s3storage "docrecon/internal/storage/s3"
	"docrecon/internal/vision"
	"docrecon/internal/vision/claude"
	"docrecon/internal/vision/gemini"
	"docrecon/internal/vision/openai"
	"docrecon/internal/vision/tesseract"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

type repositories struct {
	documents   port.DocumentRepository
	pages       port.PageRepository
	texts       port.PageTextRepository
	corrections port.CorrectionRepository
	health      handler.Pinger
	close       func() error
}

// configureLogging adjusts the standard logger. "debug" adds source
// locations; the "plain" format drops timestamps for platforms that stamp
// log lines themselves.
func configureLogging(cfg config.LogConfig) {
	flags := log.LstdFlags | log.LUTC
	if cfg.Format == "plain" {
		flags = 0
	}
	if cfg.Level == "debug" {
		flags |= log.Lshortfile
	}
	log.SetFlags(flags)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	configureLogging(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Metrics
	if cfg.Metrics.Enabled {
		shutdownMetrics, err := observe.InitProvider(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize metrics: %w", err)
		}
		defer func() { _ = shutdownMetrics(context.Background()) }()
	}
	metrics := observe.DefaultMetrics()

	// Initialize repositories
	repos, err := openRepositories(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = repos.close() }()

	// Initialize storage
	var storage port.ObjectStorage
	if cfg.Store.Driver == "memory" {
		storage = memstorage.NewStorage()
		log.Printf("Using in-memory object storage")
	} else {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	// Text A extraction providers
	extractor := newVisionChain(cfg)
	pdf := pdftext.NewExtractor()
	emailSender, err := newEmailSender(&cfg.Email)
	if err != nil {
		return err
	}

	// Initialize services
	authSvc := service.NewAuthService(cfg.Auth)
	documentSvc := service.NewDocumentService(repos.documents, repos.pages, repos.texts, repos.corrections, storage, pdf, &cfg.S3)
	extractionSvc := service.NewExtractionService(repos.documents, repos.pages, repos.texts, storage, extractor, metrics, &cfg.S3)
	editableSvc := service.NewEditableService(repos.documents, repos.texts, storage, pdf, &cfg.S3)
	comparisonSvc := service.NewComparisonService(repos.documents, repos.texts, repos.corrections, metrics, &cfg.Compare)
	correctionSvc := service.NewCorrectionService(repos.documents, repos.corrections, emailSender, metrics, cfg.Email.NotifyAddress)
	exportSvc := service.NewExportService(documentSvc, comparisonSvc, storage, &cfg.Export, &cfg.S3)

	// Initialize handlers
	docH := handler.NewDocumentHandler(documentSvc, extractionSvc, editableSvc)
	compareH := handler.NewComparisonHandler(comparisonSvc)
	correctionH := handler.NewCorrectionHandler(correctionSvc)
	exportH := handler.NewExportHandler(exportSvc)
	healthH := handler.NewHealthHandler(repos.health)

	// Setup router
	r := router.Setup(cfg, authSvc, metrics, docH, compareH, correctionH, exportH, healthH)

	// Extraction worker
	workerDone := make(chan struct{})
	if extractor != nil {
		worker := service.NewExtractionWorker(repos.pages, extractionSvc, service.ExtractionWorkerConfig{
			PollInterval: time.Duration(cfg.Extraction.PollIntervalSecs) * time.Second,
			MaxRetries:   cfg.Extraction.MaxRetries,
			Concurrency:  cfg.Extraction.Concurrency,
			PageTimeout:  time.Duration(cfg.Extraction.TimeoutSecs) * time.Second,
		})
		go func() {
			defer close(workerDone)
			worker.Start(ctx)
		}()
	} else {
		close(workerDone)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (store=%s, auth=%v)", cfg.Server.Port, cfg.Store.Driver, cfg.Auth.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARNING: server shutdown: %v", err)
	}
	stop()
	<-workerDone
	log.Printf("Shutdown complete")

	return nil
}

func openRepositories(cfg *config.Config) (*repositories, error) {
	if cfg.Store.Driver == "memory" {
		store := memory.NewStore()
		log.Printf("Using in-memory store; data is lost on restart")
		return &repositories{
			documents:   memory.NewDocumentRepo(store),
			pages:       memory.NewPageRepo(store),
			texts:       memory.NewPageTextRepo(store),
			corrections: memory.NewCorrectionRepo(store),
			health:      nil,
			close:       func() error { return nil },
		}, nil
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &repositories{
		documents:   postgres.NewDocumentRepo(db),
		pages:       postgres.NewPageRepo(db),
		texts:       postgres.NewPageTextRepo(db),
		corrections: postgres.NewCorrectionRepo(db),
		health:      db,
		close:       db.Close,
	}, nil
}

// newVisionChain registers the built-in providers and builds the configured
// chain. It returns nil when no provider can be built, in which case page
// extraction is disabled but Text A can still be submitted directly.
func newVisionChain(cfg *config.Config) port.VisionExtractor {
	vision.RegisterProvider("claude", func(c *config.VisionProviderConfig) (port.VisionExtractor, error) {
		return claude.NewExtractor(c), nil
	})
	vision.RegisterProvider("gemini", func(c *config.VisionProviderConfig) (port.VisionExtractor, error) {
		return gemini.NewExtractor(c), nil
	})
	vision.RegisterProvider("openai", func(c *config.VisionProviderConfig) (port.VisionExtractor, error) {
		return openai.NewExtractor(c), nil
	})
	if tesseract.Available {
		vision.RegisterProvider("tesseract", func(c *config.VisionProviderConfig) (port.VisionExtractor, error) {
			return tesseract.NewExtractor(c)
		})
	}

	if cfg.Vision.Primary.Provider == "" {
		log.Printf("WARNING: no vision provider configured; extraction disabled")
		return nil
	}
	chain, err := vision.NewChain(&cfg.Vision)
	if err != nil {
		log.Printf("WARNING: vision provider unavailable, extraction disabled: %v", err)
		return nil
	}
	log.Printf("Vision extraction enabled (primary=%s, secondary=%s)", cfg.Vision.Primary.Provider, cfg.Vision.Secondary.Provider)
	return chain
}

func newEmailSender(cfg *config.EmailConfig) (port.EmailSender, error) {
	if cfg.Provider == "ses" {
		sender, err := ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName, cfg.FrontendURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SES sender: %w", err)
		}
		return sender, nil
	}
	return noop.NewNoopSender(cfg.FrontendURL), nil
}
