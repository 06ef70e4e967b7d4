package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docrecon/internal/service"
)

// ComparisonHandler handles Text A / Text B comparison endpoints.
type ComparisonHandler struct {
	comparisonService service.ComparisonService
}

// NewComparisonHandler creates a new ComparisonHandler.
func NewComparisonHandler(comparisonService service.ComparisonService) *ComparisonHandler {
	return &ComparisonHandler{comparisonService: comparisonService}
}

// Compare handles POST /api/v1/compare
// @Summary Compare two raw texts
// @Description Align Text A against Text B and return both texts with the ordered segments and statistics. Both texts may be empty.
// @Tags compare
// @Accept json
// @Produce json
// @Param request body CompareRequest true "Texts to compare"
// @Success 200 {object} Response{data=CompareResponse} "Comparison result"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 503 {object} ErrorResponseBody "Comparison timed out"
// @Security BearerAuth
// @Router /compare [post]
func (h *ComparisonHandler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	result, err := h.comparisonService.CompareTexts(c.Request.Context(), req.TextA, req.TextB)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, CompareResponse{TextA: req.TextA, TextB: req.TextB, Result: result})
}

// ComparePage handles GET /api/v1/documents/:id/pages/:page/compare
// @Summary Compare the stored texts of a page
// @Description Compare the page's OCR text (Text A) with its editable-PDF text (Text B). A missing side compares as empty.
// @Tags compare
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param page path int true "Page number (1-based)"
// @Success 200 {object} Response{data=service.PageComparison} "Page comparison"
// @Failure 400 {object} ErrorResponseBody "Invalid page number"
// @Failure 404 {object} ErrorResponseBody "Document not found or neither text available"
// @Failure 503 {object} ErrorResponseBody "Comparison timed out"
// @Security BearerAuth
// @Router /documents/{id}/pages/{page}/compare [get]
func (h *ComparisonHandler) ComparePage(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}
	page, ok := parsePageNumber(c)
	if !ok {
		return
	}

	result, err := h.comparisonService.ComparePage(c.Request.Context(), docID, page)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}
