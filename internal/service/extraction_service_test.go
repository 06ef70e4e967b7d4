package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"docrecon/internal/config"
	"docrecon/internal/domain"
	"docrecon/internal/observe"
	"docrecon/internal/port"
	"docrecon/internal/service"
	"docrecon/internal/vision"
	"docrecon/mocks"
)

func testMetrics(t *testing.T) *observe.Metrics {
	t.Helper()
	m, err := observe.NewMetrics(noop.NewMeterProvider())
	require.NoError(t, err)
	return m
}

type extractionDeps struct {
	docRepo   *mocks.MockDocumentRepo
	pageRepo  *mocks.MockPageRepo
	textRepo  *mocks.MockPageTextRepo
	storage   *mocks.MockObjectStorage
	extractor *mocks.MockVisionExtractor
}

func setupExtractionService(t *testing.T) (service.ExtractionService, *extractionDeps) {
	d := &extractionDeps{
		docRepo:   new(mocks.MockDocumentRepo),
		pageRepo:  new(mocks.MockPageRepo),
		textRepo:  new(mocks.MockPageTextRepo),
		storage:   new(mocks.MockObjectStorage),
		extractor: new(mocks.MockVisionExtractor),
	}
	svc := service.NewExtractionService(d.docRepo, d.pageRepo, d.textRepo, d.storage, d.extractor,
		testMetrics(t), &config.S3Config{Bucket: "test-bucket"})
	return svc, d
}

func claimedPage(docID uuid.UUID, attempts int) *domain.Page {
	key := "documents/x/pages/0001.png"
	ct := "image/png"
	return &domain.Page{
		ID:               uuid.New(),
		DocumentID:       docID,
		PageNumber:       1,
		ImageS3Key:       &key,
		ImageContentType: &ct,
		Status:           domain.PageStatusProcessing,
		Attempts:         attempts,
	}
}

// --- QueueDocument ---

func TestExtractionService_QueueDocument_Success(t *testing.T) {
	svc, d := setupExtractionService(t)
	docID := uuid.New()

	d.docRepo.On("GetByID", mock.Anything, docID).Return(&domain.Document{ID: docID, Status: domain.DocumentStatusUploaded}, nil)
	d.pageRepo.On("QueueForExtraction", mock.Anything, docID).Return(2, nil)
	d.docRepo.On("UpdateStatus", mock.Anything, docID, domain.DocumentStatusProcessing, "").Return(nil)

	n, err := svc.QueueDocument(context.Background(), docID)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	d.docRepo.AssertExpectations(t)
}

func TestExtractionService_QueueDocument_NoImages(t *testing.T) {
	svc, d := setupExtractionService(t)
	docID := uuid.New()

	d.docRepo.On("GetByID", mock.Anything, docID).Return(&domain.Document{ID: docID, Status: domain.DocumentStatusUploaded}, nil)
	d.pageRepo.On("QueueForExtraction", mock.Anything, docID).Return(0, nil)

	_, err := svc.QueueDocument(context.Background(), docID)

	assert.ErrorIs(t, err, domain.ErrNoPageImages)
	d.docRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExtractionService_QueueDocument_Finalized(t *testing.T) {
	svc, d := setupExtractionService(t)
	docID := uuid.New()

	d.docRepo.On("GetByID", mock.Anything, docID).
		Return(&domain.Document{ID: docID, Status: domain.DocumentStatusCorrectionFinalized}, nil)

	_, err := svc.QueueDocument(context.Background(), docID)

	assert.ErrorIs(t, err, domain.ErrDocumentFinalized)
}

// --- ExtractPage ---

func TestExtractionService_ExtractPage_Success(t *testing.T) {
	svc, d := setupExtractionService(t)
	docID := uuid.New()
	page := claimedPage(docID, 1)

	d.storage.On("Download", mock.Anything, "test-bucket", *page.ImageS3Key).Return([]byte("png"), nil)
	d.extractor.On("Extract", mock.Anything, port.ExtractInput{
		Image:       []byte("png"),
		ContentType: "image/png",
		PageNumber:  1,
	}).Return(&port.ExtractOutput{Text: "page text", ModelUsed: "claude-test"}, nil)
	d.textRepo.On("UpsertOCRText", mock.Anything, mock.MatchedBy(func(text *domain.OCRText) bool {
		return text.RawText == "page text" && text.Source == "claude-test" && text.PageNumber == 1
	})).Return(nil)
	d.pageRepo.On("UpdateExtraction", mock.Anything, mock.MatchedBy(func(p *domain.Page) bool {
		return p.Status == domain.PageStatusProcessed && p.ExtractionError == nil
	})).Return(nil)
	d.docRepo.On("GetByID", mock.Anything, docID).
		Return(&domain.Document{ID: docID, PageCount: 1, Status: domain.DocumentStatusProcessing}, nil)
	d.pageRepo.On("CountByStatus", mock.Anything, docID).
		Return(map[domain.PageStatus]int{domain.PageStatusProcessed: 1}, nil)
	d.docRepo.On("UpdateStatus", mock.Anything, docID, domain.DocumentStatusCompleted, "").Return(nil)

	svc.ExtractPage(context.Background(), page, 3)

	d.textRepo.AssertExpectations(t)
	d.pageRepo.AssertExpectations(t)
	d.docRepo.AssertExpectations(t)
}

func TestExtractionService_ExtractPage_RateLimitRequeues(t *testing.T) {
	svc, d := setupExtractionService(t)
	docID := uuid.New()
	page := claimedPage(docID, 1)

	d.storage.On("Download", mock.Anything, "test-bucket", *page.ImageS3Key).Return([]byte("png"), nil)
	d.extractor.On("Extract", mock.Anything, mock.Anything).
		Return(nil, vision.NewRateLimitError("claude", errors.New("429"), 30))
	d.pageRepo.On("UpdateExtraction", mock.Anything, mock.MatchedBy(func(p *domain.Page) bool {
		return p.Status == domain.PageStatusQueued && p.ExtractionError != nil
	})).Return(nil)

	svc.ExtractPage(context.Background(), page, 3)

	d.pageRepo.AssertExpectations(t)
	d.docRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	d.textRepo.AssertNotCalled(t, "UpsertOCRText", mock.Anything, mock.Anything)
}

func TestExtractionService_ExtractPage_RateLimitExhaustsRetries(t *testing.T) {
	svc, d := setupExtractionService(t)
	docID := uuid.New()
	page := claimedPage(docID, 3)

	d.storage.On("Download", mock.Anything, "test-bucket", *page.ImageS3Key).Return([]byte("png"), nil)
	d.extractor.On("Extract", mock.Anything, mock.Anything).
		Return(nil, vision.NewRateLimitError("claude", errors.New("429"), 30))
	d.pageRepo.On("UpdateExtraction", mock.Anything, mock.MatchedBy(func(p *domain.Page) bool {
		return p.Status == domain.PageStatusError
	})).Return(nil)
	d.docRepo.On("GetByID", mock.Anything, docID).
		Return(&domain.Document{ID: docID, PageCount: 1, Status: domain.DocumentStatusProcessing}, nil)
	d.pageRepo.On("CountByStatus", mock.Anything, docID).
		Return(map[domain.PageStatus]int{domain.PageStatusError: 1}, nil)
	d.docRepo.On("UpdateStatus", mock.Anything, docID, domain.DocumentStatusError, "no page could be extracted").Return(nil)

	svc.ExtractPage(context.Background(), page, 3)

	d.docRepo.AssertExpectations(t)
}

func TestExtractionService_ExtractPage_PartialDocument(t *testing.T) {
	svc, d := setupExtractionService(t)
	docID := uuid.New()
	page := claimedPage(docID, 1)

	d.storage.On("Download", mock.Anything, "test-bucket", *page.ImageS3Key).Return(nil, domain.ErrNotFound)
	d.pageRepo.On("UpdateExtraction", mock.Anything, mock.Anything).Return(nil)
	d.docRepo.On("GetByID", mock.Anything, docID).
		Return(&domain.Document{ID: docID, PageCount: 2, Status: domain.DocumentStatusProcessing}, nil)
	d.pageRepo.On("CountByStatus", mock.Anything, docID).Return(map[domain.PageStatus]int{
		domain.PageStatusProcessed: 1,
		domain.PageStatusError:     1,
	}, nil)
	d.docRepo.On("UpdateStatus", mock.Anything, docID, domain.DocumentStatusPartial, "1 of 2 pages failed extraction").Return(nil)

	svc.ExtractPage(context.Background(), page, 3)

	d.extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	d.docRepo.AssertExpectations(t)
}

func TestExtractionService_ExtractPage_WaitsForInFlightPages(t *testing.T) {
	svc, d := setupExtractionService(t)
	docID := uuid.New()
	page := claimedPage(docID, 1)

	d.storage.On("Download", mock.Anything, "test-bucket", *page.ImageS3Key).Return([]byte("png"), nil)
	d.extractor.On("Extract", mock.Anything, mock.Anything).
		Return(&port.ExtractOutput{Text: "t", ModelUsed: "m"}, nil)
	d.textRepo.On("UpsertOCRText", mock.Anything, mock.Anything).Return(nil)
	d.pageRepo.On("UpdateExtraction", mock.Anything, mock.Anything).Return(nil)
	d.docRepo.On("GetByID", mock.Anything, docID).
		Return(&domain.Document{ID: docID, PageCount: 2, Status: domain.DocumentStatusProcessing}, nil)
	d.pageRepo.On("CountByStatus", mock.Anything, docID).Return(map[domain.PageStatus]int{
		domain.PageStatusProcessed:  1,
		domain.PageStatusProcessing: 1,
	}, nil)

	svc.ExtractPage(context.Background(), page, 3)

	d.docRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
