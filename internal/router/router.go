package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"docrecon/internal/config"
	"docrecon/internal/handler"
	"docrecon/internal/middleware"
	"docrecon/internal/observe"
	"docrecon/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	authSvc service.AuthService,
	metrics *observe.Metrics,
	docH *handler.DocumentHandler,
	compareH *handler.ComparisonHandler,
	correctionH *handler.CorrectionHandler,
	exportH *handler.ExportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger("/healthz", "/readyz", cfg.Metrics.Path))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	if metrics != nil {
		r.Use(observe.GinMiddleware(metrics))
	}

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(observe.Handler()))
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	if cfg.Auth.Enabled {
		v1.Use(middleware.AuthMiddleware(authSvc))
	}

	v1.POST("/compare", compareH.Compare)

	docs := v1.Group("/documents")
	docs.POST("", docH.Upload)
	docs.GET("", docH.List)
	docs.GET("/:id", docH.GetByID)
	docs.DELETE("/:id", docH.Delete)
	docs.GET("/:id/status", docH.Status)
	docs.POST("/:id/extract", docH.Extract)
	docs.POST("/:id/editable", docH.UploadEditable)
	docs.GET("/:id/corrections", correctionH.ListCorrections)
	docs.POST("/:id/finalize", correctionH.Finalize)
	docs.GET("/:id/export/word", exportH.ExportWord)
	docs.GET("/:id/export/csv", exportH.ExportCSV)

	// Per-page routes
	docs.GET("/:id/pages", docH.ListPages)
	docs.GET("/:id/pages/:page/text", docH.GetPageText)
	docs.PUT("/:id/pages/:page/image", docH.UploadPageImage)
	docs.PUT("/:id/pages/:page/ocr", docH.SubmitOCRText)
	docs.GET("/:id/pages/:page/editable", docH.GetEditableText)
	docs.GET("/:id/pages/:page/compare", compareH.ComparePage)
	docs.GET("/:id/pages/:page/compare/export", exportH.ExportComparison)
	docs.PUT("/:id/pages/:page/correction", correctionH.SaveCorrection)

	return r
}
