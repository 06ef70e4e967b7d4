package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"docrecon/internal/config"
	"docrecon/internal/domain"
	"docrecon/internal/pdftext"
	"docrecon/internal/port"
)

// UploadEditableInput is the DTO for uploading the editable PDF that carries Text B.
type UploadEditableInput struct {
	DocumentID uuid.UUID
	Filename   string
	Size       int64
	Body       io.Reader
}

// EditableResult reports what was ingested from an editable PDF.
type EditableResult struct {
	DocumentID     uuid.UUID `json:"document_id"`
	Pages          int       `json:"pages"`
	PagesWithText  int       `json:"pages_with_text"`
	PageCountMatch bool      `json:"page_count_match"`
}

// EditableService ingests the text layer of an editable PDF.
type EditableService interface {
	Upload(ctx context.Context, input *UploadEditableInput) (*EditableResult, error)
	GetPageText(ctx context.Context, docID uuid.UUID, pageNumber int) (*domain.EditableText, error)
}

type editableService struct {
	docRepo  port.DocumentRepository
	textRepo port.PageTextRepository
	storage  port.ObjectStorage
	pdf      port.TextLayerExtractor
	s3Cfg    *config.S3Config
}

// NewEditableService creates a new EditableService implementation.
func NewEditableService(
	docRepo port.DocumentRepository,
	textRepo port.PageTextRepository,
	storage port.ObjectStorage,
	pdf port.TextLayerExtractor,
	s3Cfg *config.S3Config,
) EditableService {
	return &editableService{
		docRepo:  docRepo,
		textRepo: textRepo,
		storage:  storage,
		pdf:      pdf,
		s3Cfg:    s3Cfg,
	}
}

// Upload stores the editable PDF and replaces the document's Text B with its
// text layer, one row per page.
func (s *editableService) Upload(ctx context.Context, input *UploadEditableInput) (*EditableResult, error) {
	doc, err := s.docRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc.Status == domain.DocumentStatusCorrectionFinalized {
		return nil, domain.ErrDocumentFinalized
	}
	if !isPDFName(input.Filename) {
		return nil, domain.ErrUnsupportedFileType
	}
	data, err := readLimited(input.Body, input.Size, s.s3Cfg.MaxFileSizeMB*1024*1024)
	if err != nil {
		return nil, err
	}
	if !pdftext.IsPDF(data) {
		return nil, domain.ErrUnsupportedFileType
	}

	key := editableKey(doc.ID)
	var pages []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var extractErr error
		pages, extractErr = s.pdf.ExtractPages(gctx, data)
		return extractErr
	})
	g.Go(func() error {
		_, uploadErr := s.storage.Upload(gctx, port.UploadInput{
			Bucket:      s.s3Cfg.Bucket,
			Key:         key,
			Body:        bytes.NewReader(data),
			ContentType: domain.AllowedFileTypes[domain.FileTypePDF],
			Size:        int64(len(data)),
		})
		if uploadErr != nil {
			log.Printf("editableService.Upload: storage upload failed for %s: %v", doc.ID, uploadErr)
			return domain.ErrUploadFailed
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	texts := make([]domain.EditableText, 0, len(pages))
	withText := 0
	for i, text := range pages {
		if strings.TrimSpace(text) != "" {
			withText++
		}
		texts = append(texts, domain.EditableText{DocumentID: doc.ID, PageNumber: i + 1, Text: text})
	}
	if withText == 0 {
		if err := s.storage.Delete(ctx, s.s3Cfg.Bucket, key); err != nil {
			log.Printf("WARNING: editableService.Upload: failed to remove %s: %v", key, err)
		}
		return nil, domain.ErrEditableTextEmpty
	}

	if err := s.textRepo.ReplaceEditableTexts(ctx, doc.ID, texts); err != nil {
		return nil, fmt.Errorf("editableService.Upload: %w", err)
	}
	if err := s.docRepo.SetEditableKey(ctx, doc.ID, key); err != nil {
		return nil, fmt.Errorf("editableService.Upload key: %w", err)
	}

	if len(pages) != doc.PageCount {
		log.Printf("WARNING: editableService.Upload: document %s has %d pages but editable PDF has %d",
			doc.ID, doc.PageCount, len(pages))
	}
	log.Printf("editableService.Upload: stored text layer for %d pages of document %s", len(pages), doc.ID)
	return &EditableResult{
		DocumentID:     doc.ID,
		Pages:          len(pages),
		PagesWithText:  withText,
		PageCountMatch: len(pages) == doc.PageCount,
	}, nil
}

func (s *editableService) GetPageText(ctx context.Context, docID uuid.UUID, pageNumber int) (*domain.EditableText, error) {
	if _, err := s.docRepo.GetByID(ctx, docID); err != nil {
		return nil, err
	}
	return s.textRepo.GetEditableText(ctx, docID, pageNumber)
}
