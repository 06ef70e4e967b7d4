package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"docrecon/internal/middleware"
	"docrecon/internal/service"
)

// CorrectionHandler handles per-page correction and finalize endpoints.
type CorrectionHandler struct {
	correctionService service.CorrectionService
}

// NewCorrectionHandler creates a new CorrectionHandler.
func NewCorrectionHandler(correctionService service.CorrectionService) *CorrectionHandler {
	return &CorrectionHandler{correctionService: correctionService}
}

// SaveCorrection handles PUT /api/v1/documents/:id/pages/:page/correction
// @Summary Save the corrected text of a page
// @Description Replace the page's corrected text. Other pages are untouched. The response echoes a preview of the saved text.
// @Tags corrections
// @Accept json
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param page path int true "Page number (1-based)"
// @Param request body SaveCorrectionRequest true "Corrected text (may be empty)"
// @Success 200 {object} Response{data=service.SaveCorrectionResult} "Correction saved"
// @Failure 400 {object} ErrorResponseBody "Invalid request or page number"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 409 {object} ErrorResponseBody "Document finalized"
// @Security BearerAuth
// @Router /documents/{id}/pages/{page}/correction [put]
func (h *CorrectionHandler) SaveCorrection(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}
	page, ok := parsePageNumber(c)
	if !ok {
		return
	}

	var req SaveCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CorrectedText == nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "corrected_text is required")
		return
	}

	result, err := h.correctionService.SaveCorrection(c.Request.Context(), docID, page, *req.CorrectedText)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// ListCorrections handles GET /api/v1/documents/:id/corrections
// @Summary Get all corrected page texts
// @Description Returns the map of page number to corrected text. 404 when no correction has been saved for the document.
// @Tags corrections
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=service.DocumentCorrections} "Corrections"
// @Failure 404 {object} ErrorResponseBody "Document or corrections not found"
// @Security BearerAuth
// @Router /documents/{id}/corrections [get]
func (h *CorrectionHandler) ListCorrections(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}

	corrections, err := h.correctionService.ListCorrections(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, corrections)
}

// Finalize handles POST /api/v1/documents/:id/finalize
// @Summary Finalize corrections
// @Description Mark the document's corrections as final and send a notification email. Finalizing twice is a no-op.
// @Tags corrections
// @Accept json
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param request body FinalizeRequest false "Optional notification recipient"
// @Success 200 {object} Response{data=domain.Document} "Document finalized"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/finalize [post]
func (h *CorrectionHandler) Finalize(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}

	var req FinalizeRequest
	if c.Request.Body != nil {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
			return
		}
	}

	notify := req.NotifyEmail
	if notify == "" {
		notify = middleware.GetEmail(c)
	}

	doc, err := h.correctionService.Finalize(c.Request.Context(), &service.FinalizeInput{
		DocumentID:  docID,
		NotifyEmail: notify,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}
