package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docrecon/internal/domain"
	"docrecon/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondAccepted sends a 202 success response.
func RespondAccepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; documents must be pdf, page images jpg or png"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound, "DOCUMENT_NOT_FOUND", "document not found"
	case errors.Is(err, domain.ErrDocumentNotExportable):
		return http.StatusBadRequest, "DOCUMENT_NOT_EXPORTABLE", "document is not in an exportable state"
	case errors.Is(err, domain.ErrDocumentFinalized):
		return http.StatusConflict, "DOCUMENT_FINALIZED", "document corrections are finalized"
	case errors.Is(err, domain.ErrInvalidPDF):
		return http.StatusBadRequest, "INVALID_PDF", "file is not a readable PDF"
	case errors.Is(err, domain.ErrInvalidLayout):
		return http.StatusBadRequest, "INVALID_LAYOUT", "layout must be valid JSON"
	case errors.Is(err, domain.ErrPageNotFound):
		return http.StatusNotFound, "PAGE_NOT_FOUND", "page not found"
	case errors.Is(err, domain.ErrInvalidPageNumber):
		return http.StatusBadRequest, "INVALID_PAGE_NUMBER", "page number out of range"
	case errors.Is(err, domain.ErrNoPageImages):
		return http.StatusBadRequest, "NO_PAGE_IMAGES", "upload page images before starting extraction"
	case errors.Is(err, domain.ErrPageTextNotFound):
		return http.StatusNotFound, "PAGE_TEXT_NOT_FOUND", "neither OCR nor editable text exists for this page"
	case errors.Is(err, domain.ErrOCRTextNotFound):
		return http.StatusNotFound, "OCR_TEXT_NOT_FOUND", "ocr text not found"
	case errors.Is(err, domain.ErrEditableTextEmpty):
		return http.StatusBadRequest, "EDITABLE_TEXT_EMPTY", "no text layer found in editable pdf"
	case errors.Is(err, domain.ErrEditableNotFound):
		return http.StatusNotFound, "EDITABLE_TEXT_NOT_FOUND", "editable text not found"
	case errors.Is(err, domain.ErrCorrectionNotFound):
		return http.StatusNotFound, "CORRECTIONS_NOT_FOUND", "no corrections saved for this document"
	case errors.Is(err, domain.ErrNoExportableText):
		return http.StatusBadRequest, "NO_EXPORTABLE_TEXT", "no page has text to export"
	case errors.Is(err, domain.ErrComparisonTimeout):
		return http.StatusServiceUnavailable, "COMPARISON_TIMEOUT", "comparison exceeded its time budget"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get(middleware.ContextKeyRequestID)
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}

// parseDocumentID reads the :id path parameter. Returns false if it is not a
// UUID (error response already written).
func parseDocumentID(c *gin.Context) (uuid.UUID, bool) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return uuid.Nil, false
	}
	return docID, true
}

// parsePageNumber reads the :page path parameter. Page numbers start at 1.
func parsePageNumber(c *gin.Context) (int, bool) {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil || page < 1 {
		RespondError(c, http.StatusBadRequest, "INVALID_PAGE_NUMBER", "page must be a positive integer")
		return 0, false
	}
	return page, true
}

// parsePagination reads offset and limit query params, clamping limit to 100.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}
