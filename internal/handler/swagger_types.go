package handler

import (
	"encoding/json"

	"docrecon/internal/diff"
)

// Swagger type definitions for API documentation.
// Request types are also bound directly by the handlers.

// --- Request Types ---

// SubmitOCRTextRequest represents an externally produced Text A for a page.
type SubmitOCRTextRequest struct {
	Text   *string         `json:"text" binding:"required" example:"Chapter 1\nIt was a bright cold day in April."`
	Layout json.RawMessage `json:"layout" swaggertype:"object"`
	Source string          `json:"source" example:"external"`
}

// CompareRequest represents the raw text comparison request body.
type CompareRequest struct {
	TextA string `json:"text_a" example:"The quick brown fox"`
	TextB string `json:"text_b" example:"The quick brwn fox jumps"`
}

// CompareResponse is the comparison result with both submitted texts
// echoed back, so clients can resolve segment offsets against them.
type CompareResponse struct {
	TextA string `json:"text_a"`
	TextB string `json:"text_b"`
	*diff.Result
}

// SaveCorrectionRequest represents the correction submission body. An empty
// string is a valid correction.
type SaveCorrectionRequest struct {
	CorrectedText *string `json:"corrected_text" example:"<p>The quick brown fox</p>"`
}

// FinalizeRequest represents the optional finalize body.
type FinalizeRequest struct {
	NotifyEmail string `json:"notify_email" example:"editor@example.com"`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"document deleted"`
}

// QueuedResponse represents the extraction start response.
type QueuedResponse struct {
	DocumentID  string `json:"document_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	QueuedPages int    `json:"queued_pages" example:"12"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
