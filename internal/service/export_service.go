package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"docrecon/internal/config"
	"docrecon/internal/csvexport"
	"docrecon/internal/docxexport"
	"docrecon/internal/domain"
	"docrecon/internal/port"
	"docrecon/internal/xlsxexport"
)

// ExportFile is a generated download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	StoredKey   string
}

// ExportService builds downloadable renditions of a document.
type ExportService interface {
	ExportWord(ctx context.Context, docID uuid.UUID) (*ExportFile, error)
	ExportComparison(ctx context.Context, docID uuid.UUID, pageNumber int, includeEqual bool) (*ExportFile, error)
	ExportPageTexts(ctx context.Context, docID uuid.UUID) (*ExportFile, error)
}

type exportService struct {
	documents   DocumentService
	comparisons ComparisonService
	storage     port.ObjectStorage
	exportCfg   *config.ExportConfig
	s3Cfg       *config.S3Config
}

// NewExportService creates a new ExportService implementation.
func NewExportService(
	documents DocumentService,
	comparisons ComparisonService,
	storage port.ObjectStorage,
	exportCfg *config.ExportConfig,
	s3Cfg *config.S3Config,
) ExportService {
	return &exportService{
		documents:   documents,
		comparisons: comparisons,
		storage:     storage,
		exportCfg:   exportCfg,
		s3Cfg:       s3Cfg,
	}
}

func (s *exportService) exportableDocument(ctx context.Context, docID uuid.UUID) (*domain.Document, error) {
	doc, err := s.documents.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if !domain.ExportableStatuses[doc.Status] {
		return nil, domain.ErrDocumentNotExportable
	}
	return doc, nil
}

// ExportWord renders every page that has text into a .docx. Corrected text
// wins over OCR text; HTML corrections keep their formatting and OCR pages
// use their layout blocks when present.
func (s *exportService) ExportWord(ctx context.Context, docID uuid.UUID) (*ExportFile, error) {
	doc, err := s.exportableDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	texts, err := s.documents.ListPageTexts(ctx, docID)
	if err != nil {
		return nil, err
	}

	pages := make([]docxexport.Page, 0, len(texts))
	for i := range texts {
		blocks := pageBlocks(&texts[i])
		if len(blocks) == 0 {
			continue
		}
		pages = append(pages, docxexport.Page{Number: texts[i].PageNumber, Blocks: blocks})
	}
	if len(pages) == 0 {
		return nil, domain.ErrNoExportableText
	}

	var buf bytes.Buffer
	if err := docxexport.Write(&buf, pages, docxexport.Options{
		Title:      doc.Name,
		FontFamily: s.exportCfg.FontFamily,
		FontSizePt: s.exportCfg.FontSizePt,
		PageBreaks: s.exportCfg.PageBreaks,
	}); err != nil {
		return nil, fmt.Errorf("export.ExportWord: %w", err)
	}

	file := &ExportFile{
		Filename:    exportFilename(doc.Name, "docx"),
		ContentType: docxexport.ContentType,
		Data:        buf.Bytes(),
	}
	s.store(ctx, doc.ID, file)
	log.Printf("export.ExportWord: document %s exported (%d pages, %d bytes)", doc.ID, len(pages), len(file.Data))
	return file, nil
}

func pageBlocks(pt *domain.PageText) []docxexport.Block {
	switch pt.Source {
	case domain.TextSourceCorrected:
		if docxexport.LooksLikeHTML(pt.Text) {
			blocks, err := docxexport.ParseHTML(pt.Text)
			if err == nil {
				return blocks
			}
			log.Printf("WARNING: export: page %d HTML could not be parsed, exporting as plain text: %v", pt.PageNumber, err)
		}
		return docxexport.FromPlainText(pt.Text)
	case domain.TextSourceOCR:
		if blocks := docxexport.FromLayout(pt.Layout); len(blocks) > 0 {
			return blocks
		}
		return docxexport.FromPlainText(pt.Text)
	default:
		return nil
	}
}

// ExportComparison writes the page's difference report as .xlsx.
func (s *exportService) ExportComparison(ctx context.Context, docID uuid.UUID, pageNumber int, includeEqual bool) (*ExportFile, error) {
	doc, err := s.documents.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	pc, err := s.comparisons.ComparePage(ctx, docID, pageNumber)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	info := xlsxexport.ReportInfo{DocumentName: doc.Name, PageNumber: pageNumber}
	if err := xlsxexport.WriteReport(&buf, info, pc.Result, includeEqual); err != nil {
		return nil, fmt.Errorf("export.ExportComparison: %w", err)
	}
	return &ExportFile{
		Filename:    exportFilename(fmt.Sprintf("%s-page-%d-differences", doc.Name, pageNumber), "xlsx"),
		ContentType: xlsxexport.ContentType,
		Data:        buf.Bytes(),
	}, nil
}

// ExportPageTexts writes the best available text of every page as CSV.
func (s *exportService) ExportPageTexts(ctx context.Context, docID uuid.UUID) (*ExportFile, error) {
	doc, err := s.documents.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	texts, err := s.documents.ListPageTexts(ctx, docID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csvexport.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, fmt.Errorf("export.ExportPageTexts: %w", err)
	}
	if err := w.WritePages(doc.Name, texts); err != nil {
		return nil, fmt.Errorf("export.ExportPageTexts: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export.ExportPageTexts: %w", err)
	}
	return &ExportFile{
		Filename:    exportFilename(doc.Name, "csv"),
		ContentType: "text/csv; charset=utf-8",
		Data:        buf.Bytes(),
	}, nil
}

// store keeps a copy of the export in object storage when configured.
// Failures are logged; the download still succeeds.
func (s *exportService) store(ctx context.Context, docID uuid.UUID, file *ExportFile) {
	if !s.exportCfg.StoreExports {
		return
	}
	key := exportKey(docID, file.Filename)
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(file.Data),
		ContentType: file.ContentType,
		Size:        int64(len(file.Data)),
		Filename:    file.Filename,
	})
	if err != nil {
		log.Printf("WARNING: export.store: failed to store %s: %v", key, err)
		return
	}
	file.StoredKey = key
}

func exportFilename(name, ext string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		name = "document"
	}
	return name + "." + ext
}
