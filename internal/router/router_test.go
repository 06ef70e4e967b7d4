package router_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"docrecon/internal/config"
	"docrecon/internal/diff"
	"docrecon/internal/domain"
	"docrecon/internal/handler"
	"docrecon/internal/router"
	"docrecon/internal/service"
	"docrecon/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type routerMocks struct {
	auth        *mocks.MockAuthService
	documents   *mocks.MockDocumentService
	extraction  *mocks.MockExtractionService
	editable    *mocks.MockEditableService
	comparisons *mocks.MockComparisonService
	corrections *mocks.MockCorrectionService
	exports     *mocks.MockExportService
}

func setupRouter(authEnabled bool) (*gin.Engine, *routerMocks) {
	m := &routerMocks{
		auth:        new(mocks.MockAuthService),
		documents:   new(mocks.MockDocumentService),
		extraction:  new(mocks.MockExtractionService),
		editable:    new(mocks.MockEditableService),
		comparisons: new(mocks.MockComparisonService),
		corrections: new(mocks.MockCorrectionService),
		exports:     new(mocks.MockExportService),
	}
	cfg := &config.Config{
		Auth:    config.AuthConfig{Enabled: authEnabled},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"*"}},
		Metrics: config.MetricsConfig{Enabled: false, Path: "/metrics"},
	}
	r := router.Setup(cfg, m.auth, nil,
		handler.NewDocumentHandler(m.documents, m.extraction, m.editable),
		handler.NewComparisonHandler(m.comparisons),
		handler.NewCorrectionHandler(m.corrections),
		handler.NewExportHandler(m.exports),
		handler.NewHealthHandler(nil),
	)
	return r, m
}

func TestRouter_Health(t *testing.T) {
	r, _ := setupRouter(true)

	for _, path := range []string{"/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, http.NoBody)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouter_AuthRequiredWhenEnabled(t *testing.T) {
	r, m := setupRouter(true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/compare", bytes.NewBufferString(`{"text_a":"a","text_b":"a"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	m.comparisons.AssertNotCalled(t, "CompareTexts", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_CompareWithoutAuth(t *testing.T) {
	r, m := setupRouter(false)

	m.comparisons.On("CompareTexts", mock.Anything, "a", "a").Return(&diff.Result{
		Segments: []diff.Segment{{Type: diff.KindEqual, TextA: "a", TextB: "a", AEnd: 1, BEnd: 1}},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/compare", bytes.NewBufferString(`{"text_a":"a","text_b":"a"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	m.comparisons.AssertExpectations(t)
}

func TestRouter_PageRoutes(t *testing.T) {
	r, m := setupRouter(false)
	docID := uuid.New()

	m.comparisons.On("ComparePage", mock.Anything, docID, 2).Return(&service.PageComparison{
		DocumentID: docID, PageNumber: 2, Result: &diff.Result{},
	}, nil)
	m.corrections.On("SaveCorrection", mock.Anything, docID, 2, "fixed").Return(&service.SaveCorrectionResult{
		DocumentID: docID, PageNumber: 2, Preview: "fixed",
	}, nil)
	m.corrections.On("ListCorrections", mock.Anything, docID).Return(nil, domain.ErrCorrectionNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/documents/"+docID.String()+"/pages/2/compare", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPut, "/api/v1/documents/"+docID.String()+"/pages/2/correction",
		bytes.NewBufferString(`{"corrected_text":"fixed"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/v1/documents/"+docID.String()+"/corrections", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	m.comparisons.AssertExpectations(t)
	m.corrections.AssertExpectations(t)
}

func TestRouter_UnknownRoute(t *testing.T) {
	r, _ := setupRouter(false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/nope", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
