package domain

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedImageExtensions maps page image extensions (without dot) to FileType.
var AllowedImageExtensions = map[string]FileType{
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// DocumentStatus tracks a document through extraction and reconciliation.
type DocumentStatus string

const (
	DocumentStatusUploaded             DocumentStatus = "uploaded"
	DocumentStatusProcessing           DocumentStatus = "processing"
	DocumentStatusCompleted            DocumentStatus = "completed"
	DocumentStatusPartial              DocumentStatus = "partial"
	DocumentStatusError                DocumentStatus = "error"
	DocumentStatusCorrectionInProgress DocumentStatus = "correction_in_progress"
	DocumentStatusCorrectionFinalized  DocumentStatus = "correction_finalized"
)

// ExportableStatuses lists the document statuses from which an export may be built.
var ExportableStatuses = map[DocumentStatus]bool{
	DocumentStatusCompleted:            true,
	DocumentStatusPartial:              true,
	DocumentStatusCorrectionInProgress: true,
	DocumentStatusCorrectionFinalized:  true,
}

// PageStatus tracks Text A extraction for a single page.
type PageStatus string

const (
	PageStatusPending    PageStatus = "pending"
	PageStatusQueued     PageStatus = "queued"
	PageStatusProcessing PageStatus = "processing"
	PageStatusProcessed  PageStatus = "processed"
	PageStatusError      PageStatus = "error"
)

// TextSource reports where a page's text came from.
type TextSource string

const (
	TextSourceCorrected TextSource = "corrected"
	TextSourceOCR       TextSource = "ocr"
	TextSourceNone      TextSource = "not_extracted"
)
