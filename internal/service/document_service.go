package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"docrecon/internal/config"
	"docrecon/internal/domain"
	"docrecon/internal/pdftext"
	"docrecon/internal/port"
)

// UploadDocumentInput is the DTO for uploading a scanned PDF.
type UploadDocumentInput struct {
	Name      string
	Filename  string
	Size      int64
	Body      io.Reader
	CreatedBy *string
}

// UploadPageImageInput is the DTO for attaching a page image used for Text A extraction.
type UploadPageImageInput struct {
	DocumentID uuid.UUID
	PageNumber int
	Filename   string
	Body       io.Reader
}

// SubmitOCRTextInput is the DTO for storing an externally produced Text A.
type SubmitOCRTextInput struct {
	DocumentID uuid.UUID
	PageNumber int
	Text       string
	Layout     json.RawMessage
	Source     string
}

// DocumentProgress summarises extraction state across a document's pages.
type DocumentProgress struct {
	Document *domain.Document          `json:"document"`
	Pages    map[domain.PageStatus]int `json:"pages"`
}

// DocumentService defines the document management contract.
type DocumentService interface {
	Upload(ctx context.Context, input *UploadDocumentInput) (*domain.Document, error)
	GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, offset, limit int) ([]domain.Document, int, error)
	Delete(ctx context.Context, docID uuid.UUID) error
	Progress(ctx context.Context, docID uuid.UUID) (*DocumentProgress, error)
	ListPages(ctx context.Context, docID uuid.UUID) ([]domain.Page, error)
	UploadPageImage(ctx context.Context, input *UploadPageImageInput) (*domain.Page, error)
	SubmitOCRText(ctx context.Context, input *SubmitOCRTextInput) (*domain.OCRText, error)
	GetPageText(ctx context.Context, docID uuid.UUID, pageNumber int) (*domain.PageText, error)
	ListPageTexts(ctx context.Context, docID uuid.UUID) ([]domain.PageText, error)
}

type documentService struct {
	docRepo        port.DocumentRepository
	pageRepo       port.PageRepository
	textRepo       port.PageTextRepository
	correctionRepo port.CorrectionRepository
	storage        port.ObjectStorage
	pdf            port.TextLayerExtractor
	s3Cfg          *config.S3Config
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(
	docRepo port.DocumentRepository,
	pageRepo port.PageRepository,
	textRepo port.PageTextRepository,
	correctionRepo port.CorrectionRepository,
	storage port.ObjectStorage,
	pdf port.TextLayerExtractor,
	s3Cfg *config.S3Config,
) DocumentService {
	return &documentService{
		docRepo:        docRepo,
		pageRepo:       pageRepo,
		textRepo:       textRepo,
		correctionRepo: correctionRepo,
		storage:        storage,
		pdf:            pdf,
		s3Cfg:          s3Cfg,
	}
}

func (s *documentService) maxBytes() int64 {
	return s.s3Cfg.MaxFileSizeMB * 1024 * 1024
}

func isPDFName(filename string) bool {
	return strings.EqualFold(strings.TrimPrefix(filepath.Ext(filename), "."), string(domain.FileTypePDF))
}

// readLimited reads body up to limit bytes.
func readLimited(body io.Reader, declared, limit int64) ([]byte, error) {
	if declared > limit {
		return nil, domain.ErrFileTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, domain.ErrFileTooLarge
	}
	return data, nil
}

func (s *documentService) Upload(ctx context.Context, input *UploadDocumentInput) (*domain.Document, error) {
	if !isPDFName(input.Filename) {
		return nil, domain.ErrUnsupportedFileType
	}
	data, err := readLimited(input.Body, input.Size, s.maxBytes())
	if err != nil {
		return nil, err
	}
	if !pdftext.IsPDF(data) {
		return nil, domain.ErrUnsupportedFileType
	}
	pageCount, err := s.pdf.PageCount(data)
	if err != nil {
		return nil, err
	}
	if pageCount < 1 {
		return nil, domain.ErrInvalidPDF
	}

	docID := uuid.New()
	key := originalKey(docID)
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: domain.AllowedFileTypes[domain.FileTypePDF],
		Size:        int64(len(data)),
	}); err != nil {
		log.Printf("documentService.Upload: storage upload failed for %s: %v", docID, err)
		return nil, domain.ErrUploadFailed
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = strings.TrimSuffix(input.Filename, filepath.Ext(input.Filename))
	}
	doc := &domain.Document{
		ID:               docID,
		Name:             name,
		OriginalFilename: input.Filename,
		S3Bucket:         s.s3Cfg.Bucket,
		S3Key:            key,
		FileSize:         int64(len(data)),
		PageCount:        pageCount,
		Status:           domain.DocumentStatusUploaded,
		CreatedBy:        input.CreatedBy,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		s.removeObject(ctx, key)
		return nil, fmt.Errorf("documentService.Upload: %w", err)
	}

	pages := make([]domain.Page, pageCount)
	for i := range pages {
		pages[i] = domain.Page{
			ID:         uuid.New(),
			DocumentID: docID,
			PageNumber: i + 1,
			Status:     domain.PageStatusPending,
		}
	}
	if err := s.pageRepo.CreateBatch(ctx, pages); err != nil {
		return nil, fmt.Errorf("documentService.Upload pages: %w", err)
	}

	log.Printf("documentService.Upload: document %s created with %d pages", docID, pageCount)
	return doc, nil
}

func (s *documentService) GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error) {
	return s.docRepo.GetByID(ctx, docID)
}

func (s *documentService) List(ctx context.Context, offset, limit int) ([]domain.Document, int, error) {
	return s.docRepo.List(ctx, offset, limit)
}

// Delete removes the document and its rows, then its stored objects. Storage
// failures are logged and do not fail the call.
func (s *documentService) Delete(ctx context.Context, docID uuid.UUID) error {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	pages, err := s.pageRepo.ListByDocument(ctx, docID)
	if err != nil {
		return fmt.Errorf("documentService.Delete pages: %w", err)
	}

	keys := []string{doc.S3Key}
	if doc.EditableS3Key != nil {
		keys = append(keys, *doc.EditableS3Key)
	}
	for i := range pages {
		if pages[i].ImageS3Key != nil {
			keys = append(keys, *pages[i].ImageS3Key)
		}
	}

	if err := s.docRepo.Delete(ctx, docID); err != nil {
		return err
	}
	for _, key := range keys {
		s.removeObject(ctx, key)
	}
	return nil
}

func (s *documentService) removeObject(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, s.s3Cfg.Bucket, key); err != nil {
		log.Printf("WARNING: documentService: failed to delete object %s: %v", key, err)
	}
}

func (s *documentService) Progress(ctx context.Context, docID uuid.UUID) (*DocumentProgress, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	counts, err := s.pageRepo.CountByStatus(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("documentService.Progress: %w", err)
	}
	return &DocumentProgress{Document: doc, Pages: counts}, nil
}

func (s *documentService) ListPages(ctx context.Context, docID uuid.UUID) ([]domain.Page, error) {
	if _, err := s.docRepo.GetByID(ctx, docID); err != nil {
		return nil, err
	}
	return s.pageRepo.ListByDocument(ctx, docID)
}

func (s *documentService) requirePage(ctx context.Context, docID uuid.UUID, pageNumber int) (*domain.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if pageNumber < 1 || pageNumber > doc.PageCount {
		return nil, domain.ErrInvalidPageNumber
	}
	return doc, nil
}

func (s *documentService) UploadPageImage(ctx context.Context, input *UploadPageImageInput) (*domain.Page, error) {
	if _, err := s.requirePage(ctx, input.DocumentID, input.PageNumber); err != nil {
		return nil, err
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Filename), "."))
	fileType, ok := domain.AllowedImageExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	data, err := readLimited(input.Body, 0, s.maxBytes())
	if err != nil {
		return nil, err
	}

	contentType := domain.AllowedFileTypes[fileType]
	key := pageImageKey(input.DocumentID, input.PageNumber, string(fileType))
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: contentType,
		Size:        int64(len(data)),
	}); err != nil {
		log.Printf("documentService.UploadPageImage: storage upload failed for %s/%d: %v", input.DocumentID, input.PageNumber, err)
		return nil, domain.ErrUploadFailed
	}
	if err := s.pageRepo.SetImage(ctx, input.DocumentID, input.PageNumber, key, contentType); err != nil {
		return nil, fmt.Errorf("documentService.UploadPageImage: %w", err)
	}
	return s.pageRepo.GetByNumber(ctx, input.DocumentID, input.PageNumber)
}

func (s *documentService) SubmitOCRText(ctx context.Context, input *SubmitOCRTextInput) (*domain.OCRText, error) {
	if _, err := s.requirePage(ctx, input.DocumentID, input.PageNumber); err != nil {
		return nil, err
	}
	if len(input.Layout) > 0 && !json.Valid(input.Layout) {
		return nil, fmt.Errorf("layout is not valid JSON: %w", domain.ErrInvalidLayout)
	}
	source := input.Source
	if source == "" {
		source = "external"
	}
	text := &domain.OCRText{
		DocumentID: input.DocumentID,
		PageNumber: input.PageNumber,
		RawText:    input.Text,
		Layout:     input.Layout,
		Source:     source,
	}
	if err := s.textRepo.UpsertOCRText(ctx, text); err != nil {
		return nil, fmt.Errorf("documentService.SubmitOCRText: %w", err)
	}

	page, err := s.pageRepo.GetByNumber(ctx, input.DocumentID, input.PageNumber)
	if err == nil && page.Status != domain.PageStatusProcessed {
		page.Status = domain.PageStatusProcessed
		page.ExtractionError = nil
		if err := s.pageRepo.UpdateExtraction(ctx, page); err != nil {
			log.Printf("documentService.SubmitOCRText: failed to mark page %d processed: %v", input.PageNumber, err)
		}
	}
	return text, nil
}

// GetPageText returns the corrected text if one exists, else the OCR text,
// else an empty text marked not_extracted.
func (s *documentService) GetPageText(ctx context.Context, docID uuid.UUID, pageNumber int) (*domain.PageText, error) {
	if _, err := s.requirePage(ctx, docID, pageNumber); err != nil {
		return nil, err
	}
	return s.pageText(ctx, docID, pageNumber)
}

func (s *documentService) pageText(ctx context.Context, docID uuid.UUID, pageNumber int) (*domain.PageText, error) {
	correction, err := s.correctionRepo.Get(ctx, docID, pageNumber)
	switch {
	case err == nil:
		pt := &domain.PageText{PageNumber: pageNumber, Text: correction.CorrectedText, Source: domain.TextSourceCorrected}
		if ocr, ocrErr := s.textRepo.GetOCRText(ctx, docID, pageNumber); ocrErr == nil {
			pt.Layout = ocr.Layout
		}
		return pt, nil
	case !errors.Is(err, domain.ErrCorrectionNotFound):
		return nil, fmt.Errorf("documentService.pageText correction: %w", err)
	}

	ocr, err := s.textRepo.GetOCRText(ctx, docID, pageNumber)
	switch {
	case err == nil:
		return &domain.PageText{PageNumber: pageNumber, Text: ocr.RawText, Source: domain.TextSourceOCR, Layout: ocr.Layout}, nil
	case errors.Is(err, domain.ErrOCRTextNotFound):
		return &domain.PageText{PageNumber: pageNumber, Source: domain.TextSourceNone}, nil
	default:
		return nil, fmt.Errorf("documentService.pageText ocr: %w", err)
	}
}

func (s *documentService) ListPageTexts(ctx context.Context, docID uuid.UUID) ([]domain.PageText, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PageText, 0, doc.PageCount)
	for n := 1; n <= doc.PageCount; n++ {
		pt, err := s.pageText(ctx, docID, n)
		if err != nil {
			return nil, err
		}
		out = append(out, *pt)
	}
	return out, nil
}
