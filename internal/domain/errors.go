package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
)

// Document errors
var (
	ErrDocumentNotFound      = errors.New("document not found")
	ErrDocumentNotExportable = errors.New("document is not in an exportable state")
	ErrDocumentFinalized     = errors.New("document corrections are finalized")
	ErrInvalidPDF            = errors.New("file is not a readable PDF")
	ErrInvalidLayout         = errors.New("invalid layout")
)

// Page errors
var (
	ErrPageNotFound      = errors.New("page not found")
	ErrInvalidPageNumber = errors.New("page number out of range")
	ErrNoPageImages      = errors.New("no page images uploaded for extraction")
)

// Text and reconciliation errors
var (
	ErrPageTextNotFound   = errors.New("no text available for page")
	ErrOCRTextNotFound    = errors.New("ocr text not found")
	ErrEditableTextEmpty  = errors.New("no text layer found in editable pdf")
	ErrEditableNotFound   = errors.New("editable text not found")
	ErrCorrectionNotFound = errors.New("correction not found")
	ErrNoExportableText   = errors.New("no text available to export")
	ErrComparisonTimeout  = errors.New("comparison exceeded time budget")
)
