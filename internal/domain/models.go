package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded scanned PDF under reconciliation.
type Document struct {
	ID               uuid.UUID      `db:"id" json:"id"`
	Name             string         `db:"name" json:"name"`
	OriginalFilename string         `db:"original_filename" json:"original_filename"`
	S3Bucket         string         `db:"s3_bucket" json:"-"`
	S3Key            string         `db:"s3_key" json:"-"`
	FileSize         int64          `db:"file_size" json:"file_size"`
	PageCount        int            `db:"page_count" json:"page_count"`
	EditableS3Key    *string        `db:"editable_s3_key" json:"-"`
	HasEditable      bool           `db:"-" json:"has_editable"`
	Status           DocumentStatus `db:"status" json:"status"`
	ErrorMessage     string         `db:"error_message" json:"error_message,omitempty"`
	CreatedBy        *string        `db:"created_by" json:"created_by,omitempty"`
	FinalizedAt      *time.Time     `db:"finalized_at" json:"finalized_at,omitempty"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// Page is a single page of a document and the state of its Text A extraction.
type Page struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	DocumentID       uuid.UUID  `db:"document_id" json:"document_id"`
	PageNumber       int        `db:"page_number" json:"page_number"`
	ImageS3Key       *string    `db:"image_s3_key" json:"-"`
	ImageContentType *string    `db:"image_content_type" json:"-"`
	HasImage         bool       `db:"-" json:"has_image"`
	Status           PageStatus `db:"status" json:"status"`
	ExtractionError  *string    `db:"extraction_error" json:"extraction_error,omitempty"`
	Attempts         int        `db:"attempts" json:"attempts"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// OCRText is the Text A rendition of a page, produced by a vision extractor or
// submitted directly.
type OCRText struct {
	DocumentID uuid.UUID       `db:"document_id" json:"document_id"`
	PageNumber int             `db:"page_number" json:"page_number"`
	RawText    string          `db:"raw_text" json:"raw_text"`
	Layout     json.RawMessage `db:"layout" json:"layout,omitempty"`
	Source     string          `db:"source" json:"source"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// EditableText is the Text B rendition of a page, taken from the text layer of
// the editable PDF.
type EditableText struct {
	DocumentID uuid.UUID `db:"document_id" json:"document_id"`
	PageNumber int       `db:"page_number" json:"page_number"`
	Text       string    `db:"text" json:"text"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// PageCorrection is the user's final text for one page. There is at most one
// per (document, page); later submissions replace earlier ones.
type PageCorrection struct {
	DocumentID    uuid.UUID `db:"document_id" json:"document_id"`
	PageNumber    int       `db:"page_number" json:"page_number"`
	CorrectedText string    `db:"corrected_text" json:"corrected_text"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// PageText is the best available text for a page.
type PageText struct {
	PageNumber int             `json:"page_number"`
	Text       string          `json:"text"`
	Source     TextSource      `json:"source"`
	Layout     json.RawMessage `json:"layout,omitempty"`
}

// LayoutBlock is one structured block of an OCR layout, as returned by vision
// extractors that report formatting.
type LayoutBlock struct {
	Type      string `json:"type"`
	Text      string `json:"text"`
	Alignment string `json:"alignment,omitempty"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Level     int    `json:"level,omitempty"`
}

// Layout is the structured form of OCRText.Layout.
type Layout struct {
	Blocks []LayoutBlock `json:"blocks"`
}
