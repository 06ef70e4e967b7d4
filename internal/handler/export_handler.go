package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docrecon/internal/service"
)

// ExportHandler handles document export downloads.
type ExportHandler struct {
	exportService service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportWord handles GET /api/v1/documents/:id/export/word
// @Summary Export the document as Word
// @Description Build a .docx with one section per page, using corrected text where saved and the OCR layout otherwise
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Param id path string true "Document ID (UUID)"
// @Success 200 {file} file "Word document"
// @Failure 400 {object} ErrorResponseBody "Document not exportable or no text"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/export/word [get]
func (h *ExportHandler) ExportWord(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}

	file, err := h.exportService.ExportWord(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	sendFile(c, file)
}

// ExportComparison handles GET /api/v1/documents/:id/pages/:page/compare/export
// @Summary Export a page comparison as a spreadsheet
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Document ID (UUID)"
// @Param page path int true "Page number (1-based)"
// @Param include_equal query bool false "Include equal segments" default(false)
// @Success 200 {file} file "Difference report"
// @Failure 400 {object} ErrorResponseBody "Invalid page number"
// @Failure 404 {object} ErrorResponseBody "Document or page text not found"
// @Security BearerAuth
// @Router /documents/{id}/pages/{page}/compare/export [get]
func (h *ExportHandler) ExportComparison(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}
	page, ok := parsePageNumber(c)
	if !ok {
		return
	}
	includeEqual, _ := strconv.ParseBool(c.Query("include_equal"))

	file, err := h.exportService.ExportComparison(c.Request.Context(), docID, page, includeEqual)
	if err != nil {
		HandleError(c, err)
		return
	}

	sendFile(c, file)
}

// ExportCSV handles GET /api/v1/documents/:id/export/csv
// @Summary Export page texts as CSV
// @Tags export
// @Produce text/csv
// @Param id path string true "Document ID (UUID)"
// @Success 200 {file} file "Page texts"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}

	file, err := h.exportService.ExportPageTexts(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	sendFile(c, file)
}

func sendFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	if file.StoredKey != "" {
		c.Header("X-Export-Key", file.StoredKey)
	}
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
