package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docrecon/internal/config"
	"docrecon/internal/domain"
	"docrecon/internal/port"
	"docrecon/internal/service"
	"docrecon/mocks"
)

type documentServiceDeps struct {
	docRepo        *mocks.MockDocumentRepo
	pageRepo       *mocks.MockPageRepo
	textRepo       *mocks.MockPageTextRepo
	correctionRepo *mocks.MockCorrectionRepo
	storage        *mocks.MockObjectStorage
	pdf            *mocks.MockTextLayerExtractor
}

func setupDocumentService() (service.DocumentService, *documentServiceDeps) {
	d := &documentServiceDeps{
		docRepo:        new(mocks.MockDocumentRepo),
		pageRepo:       new(mocks.MockPageRepo),
		textRepo:       new(mocks.MockPageTextRepo),
		correctionRepo: new(mocks.MockCorrectionRepo),
		storage:        new(mocks.MockObjectStorage),
		pdf:            new(mocks.MockTextLayerExtractor),
	}
	cfg := &config.S3Config{Bucket: "test-bucket", MaxFileSizeMB: 1}
	svc := service.NewDocumentService(d.docRepo, d.pageRepo, d.textRepo, d.correctionRepo, d.storage, d.pdf, cfg)
	return svc, d
}

const fakePDF = "%PDF-1.4 test content"

// --- Upload ---

func TestDocumentService_Upload_Success(t *testing.T) {
	svc, d := setupDocumentService()

	d.pdf.On("PageCount", []byte(fakePDF)).Return(3, nil)
	d.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "test-bucket" &&
			strings.HasSuffix(in.Key, "/original.pdf") &&
			in.ContentType == "application/pdf"
	})).Return(&port.UploadOutput{Location: "loc"}, nil)
	d.docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)
	d.pageRepo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(pages []domain.Page) bool {
		if len(pages) != 3 {
			return false
		}
		for i, p := range pages {
			if p.PageNumber != i+1 || p.Status != domain.PageStatusPending {
				return false
			}
		}
		return true
	})).Return(nil)

	doc, err := svc.Upload(context.Background(), &service.UploadDocumentInput{
		Filename: "scan.PDF",
		Body:     strings.NewReader(fakePDF),
	})

	require.NoError(t, err)
	assert.Equal(t, "scan", doc.Name)
	assert.Equal(t, 3, doc.PageCount)
	assert.Equal(t, domain.DocumentStatusUploaded, doc.Status)
	assert.Equal(t, "documents/"+doc.ID.String()+"/original.pdf", doc.S3Key)
	d.pageRepo.AssertExpectations(t)
}

func TestDocumentService_Upload_RejectsNonPDFExtension(t *testing.T) {
	svc, d := setupDocumentService()

	_, err := svc.Upload(context.Background(), &service.UploadDocumentInput{
		Filename: "scan.txt",
		Body:     strings.NewReader(fakePDF),
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	d.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestDocumentService_Upload_RejectsWrongMagicBytes(t *testing.T) {
	svc, _ := setupDocumentService()

	_, err := svc.Upload(context.Background(), &service.UploadDocumentInput{
		Filename: "scan.pdf",
		Body:     strings.NewReader("not a pdf"),
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestDocumentService_Upload_DeclaredSizeTooLarge(t *testing.T) {
	svc, _ := setupDocumentService()

	_, err := svc.Upload(context.Background(), &service.UploadDocumentInput{
		Filename: "scan.pdf",
		Size:     2 * 1024 * 1024,
		Body:     strings.NewReader(fakePDF),
	})

	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestDocumentService_Upload_BodyTooLarge(t *testing.T) {
	svc, _ := setupDocumentService()

	body := append([]byte(fakePDF), bytes.Repeat([]byte("x"), 1024*1024)...)
	_, err := svc.Upload(context.Background(), &service.UploadDocumentInput{
		Filename: "scan.pdf",
		Body:     bytes.NewReader(body),
	})

	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestDocumentService_Upload_StorageFailure(t *testing.T) {
	svc, d := setupDocumentService()

	d.pdf.On("PageCount", mock.Anything).Return(1, nil)
	d.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("s3 down"))

	_, err := svc.Upload(context.Background(), &service.UploadDocumentInput{
		Filename: "scan.pdf",
		Body:     strings.NewReader(fakePDF),
	})

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	d.docRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDocumentService_Upload_UnreadablePDF(t *testing.T) {
	svc, d := setupDocumentService()
	d.pdf.On("PageCount", mock.Anything).Return(0, domain.ErrInvalidPDF)

	_, err := svc.Upload(context.Background(), &service.UploadDocumentInput{
		Filename: "scan.pdf",
		Body:     strings.NewReader(fakePDF),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidPDF)
}

// --- Delete ---

func TestDocumentService_Delete_RemovesStoredObjects(t *testing.T) {
	svc, d := setupDocumentService()

	docID := uuid.New()
	editable := "documents/x/editable.pdf"
	image := "documents/x/pages/0001.png"
	d.docRepo.On("GetByID", mock.Anything, docID).Return(&domain.Document{
		ID:            docID,
		S3Key:         "documents/x/original.pdf",
		EditableS3Key: &editable,
	}, nil)
	d.pageRepo.On("ListByDocument", mock.Anything, docID).Return([]domain.Page{
		{PageNumber: 1, ImageS3Key: &image},
		{PageNumber: 2},
	}, nil)
	d.docRepo.On("Delete", mock.Anything, docID).Return(nil)
	d.storage.On("Delete", mock.Anything, "test-bucket", "documents/x/original.pdf").Return(nil)
	d.storage.On("Delete", mock.Anything, "test-bucket", editable).Return(errors.New("gone"))
	d.storage.On("Delete", mock.Anything, "test-bucket", image).Return(nil)

	err := svc.Delete(context.Background(), docID)

	require.NoError(t, err)
	d.storage.AssertNumberOfCalls(t, "Delete", 3)
}

func TestDocumentService_Delete_NotFound(t *testing.T) {
	svc, d := setupDocumentService()

	docID := uuid.New()
	d.docRepo.On("GetByID", mock.Anything, docID).Return(nil, domain.ErrDocumentNotFound)

	err := svc.Delete(context.Background(), docID)

	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	d.storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

// --- GetPageText ---

func expectDocument(d *documentServiceDeps, docID uuid.UUID, pages int) {
	d.docRepo.On("GetByID", mock.Anything, docID).Return(&domain.Document{
		ID:        docID,
		Name:      "scan",
		PageCount: pages,
		Status:    domain.DocumentStatusCompleted,
	}, nil)
}

func TestDocumentService_GetPageText_PrefersCorrection(t *testing.T) {
	svc, d := setupDocumentService()
	docID := uuid.New()
	expectDocument(d, docID, 2)

	layout := json.RawMessage(`{"blocks":[]}`)
	d.correctionRepo.On("Get", mock.Anything, docID, 1).
		Return(&domain.PageCorrection{CorrectedText: "fixed"}, nil)
	d.textRepo.On("GetOCRText", mock.Anything, docID, 1).
		Return(&domain.OCRText{RawText: "fixd", Layout: layout}, nil)

	pt, err := svc.GetPageText(context.Background(), docID, 1)

	require.NoError(t, err)
	assert.Equal(t, "fixed", pt.Text)
	assert.Equal(t, domain.TextSourceCorrected, pt.Source)
	assert.JSONEq(t, string(layout), string(pt.Layout))
}

func TestDocumentService_GetPageText_FallsBackToOCR(t *testing.T) {
	svc, d := setupDocumentService()
	docID := uuid.New()
	expectDocument(d, docID, 2)

	d.correctionRepo.On("Get", mock.Anything, docID, 2).Return(nil, domain.ErrCorrectionNotFound)
	d.textRepo.On("GetOCRText", mock.Anything, docID, 2).Return(&domain.OCRText{RawText: "ocr text"}, nil)

	pt, err := svc.GetPageText(context.Background(), docID, 2)

	require.NoError(t, err)
	assert.Equal(t, "ocr text", pt.Text)
	assert.Equal(t, domain.TextSourceOCR, pt.Source)
}

func TestDocumentService_GetPageText_NotExtracted(t *testing.T) {
	svc, d := setupDocumentService()
	docID := uuid.New()
	expectDocument(d, docID, 1)

	d.correctionRepo.On("Get", mock.Anything, docID, 1).Return(nil, domain.ErrCorrectionNotFound)
	d.textRepo.On("GetOCRText", mock.Anything, docID, 1).Return(nil, domain.ErrOCRTextNotFound)

	pt, err := svc.GetPageText(context.Background(), docID, 1)

	require.NoError(t, err)
	assert.Empty(t, pt.Text)
	assert.Equal(t, domain.TextSourceNone, pt.Source)
}

func TestDocumentService_GetPageText_PageOutOfRange(t *testing.T) {
	svc, d := setupDocumentService()
	docID := uuid.New()
	expectDocument(d, docID, 1)

	_, err := svc.GetPageText(context.Background(), docID, 2)
	assert.ErrorIs(t, err, domain.ErrInvalidPageNumber)

	_, err = svc.GetPageText(context.Background(), docID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidPageNumber)
}

// --- Page images and direct Text A ---

func TestDocumentService_UploadPageImage_Success(t *testing.T) {
	svc, d := setupDocumentService()
	docID := uuid.New()
	expectDocument(d, docID, 3)

	key := "documents/" + docID.String() + "/pages/0002.jpg"
	d.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Key == key && in.ContentType == "image/jpeg"
	})).Return(&port.UploadOutput{}, nil)
	d.pageRepo.On("SetImage", mock.Anything, docID, 2, key, "image/jpeg").Return(nil)
	d.pageRepo.On("GetByNumber", mock.Anything, docID, 2).
		Return(&domain.Page{DocumentID: docID, PageNumber: 2, HasImage: true}, nil)

	page, err := svc.UploadPageImage(context.Background(), &service.UploadPageImageInput{
		DocumentID: docID,
		PageNumber: 2,
		Filename:   "page2.jpeg",
		Body:       strings.NewReader("jpeg bytes"),
	})

	require.NoError(t, err)
	assert.True(t, page.HasImage)
}

func TestDocumentService_UploadPageImage_RejectsUnknownType(t *testing.T) {
	svc, d := setupDocumentService()
	docID := uuid.New()
	expectDocument(d, docID, 1)

	_, err := svc.UploadPageImage(context.Background(), &service.UploadPageImageInput{
		DocumentID: docID,
		PageNumber: 1,
		Filename:   "page.gif",
		Body:       strings.NewReader("gif"),
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestDocumentService_SubmitOCRText_MarksPageProcessed(t *testing.T) {
	svc, d := setupDocumentService()
	docID := uuid.New()
	expectDocument(d, docID, 1)

	d.textRepo.On("UpsertOCRText", mock.Anything, mock.MatchedBy(func(text *domain.OCRText) bool {
		return text.RawText == "hello" && text.Source == "external"
	})).Return(nil)
	d.pageRepo.On("GetByNumber", mock.Anything, docID, 1).
		Return(&domain.Page{DocumentID: docID, PageNumber: 1, Status: domain.PageStatusPending}, nil)
	d.pageRepo.On("UpdateExtraction", mock.Anything, mock.MatchedBy(func(p *domain.Page) bool {
		return p.Status == domain.PageStatusProcessed
	})).Return(nil)

	text, err := svc.SubmitOCRText(context.Background(), &service.SubmitOCRTextInput{
		DocumentID: docID,
		PageNumber: 1,
		Text:       "hello",
	})

	require.NoError(t, err)
	assert.Equal(t, "hello", text.RawText)
	d.pageRepo.AssertExpectations(t)
}

func TestDocumentService_SubmitOCRText_InvalidLayout(t *testing.T) {
	svc, d := setupDocumentService()
	docID := uuid.New()
	expectDocument(d, docID, 1)

	_, err := svc.SubmitOCRText(context.Background(), &service.SubmitOCRTextInput{
		DocumentID: docID,
		PageNumber: 1,
		Text:       "hello",
		Layout:     json.RawMessage(`{"blocks":`),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidLayout)
}
