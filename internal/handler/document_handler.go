package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docrecon/internal/middleware"
	"docrecon/internal/service"
)

// DocumentHandler handles document, page and Text A/B ingestion endpoints.
type DocumentHandler struct {
	documentService   service.DocumentService
	extractionService service.ExtractionService
	editableService   service.EditableService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(
	documentService service.DocumentService,
	extractionService service.ExtractionService,
	editableService service.EditableService,
) *DocumentHandler {
	return &DocumentHandler{
		documentService:   documentService,
		extractionService: extractionService,
		editableService:   editableService,
	}
}

// Upload handles POST /api/v1/documents
// @Summary Upload a scanned PDF
// @Description Upload the scanned PDF under reconciliation. Pages are created from the PDF's page count.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Scanned PDF"
// @Param name formData string false "Display name (defaults to the file name)"
// @Success 201 {object} Response{data=domain.Document} "Document created"
// @Failure 400 {object} ErrorResponseBody "Missing file, not a PDF or unreadable PDF"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Security BearerAuth
// @Router /documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file is required")
		return
	}
	defer file.Close()

	var createdBy *string
	if sub := middleware.GetSubject(c); sub != "" {
		createdBy = &sub
	}

	doc, err := h.documentService.Upload(c.Request.Context(), &service.UploadDocumentInput{
		Name:      c.PostForm("name"),
		Filename:  header.Filename,
		Size:      header.Size,
		Body:      file,
		CreatedBy: createdBy,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, doc)
}

// List handles GET /api/v1/documents
// @Summary List documents
// @Tags documents
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Document,meta=PagMeta} "List of documents"
// @Security BearerAuth
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	docs, total, err := h.documentService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, docs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/documents/:id
// @Summary Get document by ID
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=domain.Document} "Document details"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// Delete handles DELETE /api/v1/documents/:id
// @Summary Delete a document
// @Description Delete a document with its pages, texts and corrections, and remove its stored files
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Document deleted"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), docID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, MessageResponse{Message: "document deleted"})
}

// Status handles GET /api/v1/documents/:id/status
// @Summary Get extraction progress
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=service.DocumentProgress} "Document and page counts by status"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/status [get]
func (h *DocumentHandler) Status(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}

	progress, err := h.documentService.Progress(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, progress)
}

// ListPages handles GET /api/v1/documents/:id/pages
// @Summary List pages of a document
// @Tags pages
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=[]domain.Page} "Pages"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/pages [get]
func (h *DocumentHandler) ListPages(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}

	pages, err := h.documentService.ListPages(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, pages)
}

// GetPageText handles GET /api/v1/documents/:id/pages/:page/text
// @Summary Get the best available text for a page
// @Description Returns the corrected text if saved, else the OCR text, else an empty text with source not_extracted
// @Tags pages
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param page path int true "Page number (1-based)"
// @Success 200 {object} Response{data=domain.PageText} "Page text"
// @Failure 400 {object} ErrorResponseBody "Invalid page number"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/pages/{page}/text [get]
func (h *DocumentHandler) GetPageText(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}
	page, ok := parsePageNumber(c)
	if !ok {
		return
	}

	text, err := h.documentService.GetPageText(c.Request.Context(), docID, page)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, text)
}

// UploadPageImage handles PUT /api/v1/documents/:id/pages/:page/image
// @Summary Upload a page image
// @Description Attach the rendered image of a page; it is the input for Text A extraction
// @Tags pages
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param page path int true "Page number (1-based)"
// @Param file formData file true "Page image (jpg or png)"
// @Success 200 {object} Response{data=domain.Page} "Page updated"
// @Failure 400 {object} ErrorResponseBody "Invalid page or unsupported image type"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/pages/{page}/image [put]
func (h *DocumentHandler) UploadPageImage(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}
	page, ok := parsePageNumber(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file is required")
		return
	}
	defer file.Close()

	p, err := h.documentService.UploadPageImage(c.Request.Context(), &service.UploadPageImageInput{
		DocumentID: docID,
		PageNumber: page,
		Filename:   header.Filename,
		Body:       file,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, p)
}

// SubmitOCRText handles PUT /api/v1/documents/:id/pages/:page/ocr
// @Summary Submit Text A for a page
// @Description Store an externally produced OCR text, with optional layout JSON, for a page
// @Tags pages
// @Accept json
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param page path int true "Page number (1-based)"
// @Param request body SubmitOCRTextRequest true "OCR text"
// @Success 200 {object} Response{data=domain.OCRText} "Text stored"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/pages/{page}/ocr [put]
func (h *DocumentHandler) SubmitOCRText(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}
	page, ok := parsePageNumber(c)
	if !ok {
		return
	}

	var req SubmitOCRTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "text is required")
		return
	}

	text, err := h.documentService.SubmitOCRText(c.Request.Context(), &service.SubmitOCRTextInput{
		DocumentID: docID,
		PageNumber: page,
		Text:       *req.Text,
		Layout:     req.Layout,
		Source:     req.Source,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, text)
}

// Extract handles POST /api/v1/documents/:id/extract
// @Summary Start Text A extraction
// @Description Queue every page with an uploaded image for vision extraction. Progress is reported by the status endpoint.
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 202 {object} Response{data=QueuedResponse} "Pages queued"
// @Failure 400 {object} ErrorResponseBody "No page images uploaded"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 409 {object} ErrorResponseBody "Document finalized"
// @Security BearerAuth
// @Router /documents/{id}/extract [post]
func (h *DocumentHandler) Extract(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}

	queued, err := h.extractionService.QueueDocument(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondAccepted(c, QueuedResponse{DocumentID: docID.String(), QueuedPages: queued})
}

// UploadEditable handles POST /api/v1/documents/:id/editable
// @Summary Upload the editable PDF
// @Description Upload the editable PDF for a document. Its text layer becomes Text B, one entry per page, replacing any earlier upload.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param file formData file true "Editable PDF"
// @Success 200 {object} Response{data=service.EditableResult} "Text layer stored"
// @Failure 400 {object} ErrorResponseBody "Not a PDF or no text layer"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/editable [post]
func (h *DocumentHandler) UploadEditable(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file is required")
		return
	}
	defer file.Close()

	res, err := h.editableService.Upload(c.Request.Context(), &service.UploadEditableInput{
		DocumentID: docID,
		Filename:   header.Filename,
		Size:       header.Size,
		Body:       file,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, res)
}

// GetEditableText handles GET /api/v1/documents/:id/pages/:page/editable
// @Summary Get Text B for a page
// @Tags pages
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param page path int true "Page number (1-based)"
// @Success 200 {object} Response{data=domain.EditableText} "Editable text"
// @Failure 404 {object} ErrorResponseBody "Document or editable text not found"
// @Security BearerAuth
// @Router /documents/{id}/pages/{page}/editable [get]
func (h *DocumentHandler) GetEditableText(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}
	page, ok := parsePageNumber(c)
	if !ok {
		return
	}

	text, err := h.editableService.GetPageText(c.Request.Context(), docID, page)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, text)
}
