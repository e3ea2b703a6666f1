package api

import (
	"embed"
	"html/template"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/costofequity/internal/middleware"
)

//go:embed templates/*.html
var templatesFS embed.FS

// RouterConfig carries the HTTP concerns the router needs.
type RouterConfig struct {
	BasePath       string        // "" or e.g. "/cost-of-equity-app"
	RequestTimeout time.Duration // per-request deadline, upstream call included
	RateLimit      int           // requests per minute per client IP; 0 disables
}

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, RateLimiter, Timeout).
//   - Loads the embedded page template.
//   - Mounts the page, the JSON API (/api/v1) and Swagger docs under cfg.BasePath.
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.NewRateLimiter(cfg.RateLimit, time.Minute).Middleware(),
		middleware.Timeout(cfg.RequestTimeout),
	)

	// ─── Templates ────────────────────────────────
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	base := router.Group(cfg.BasePath)

	// ─── Page ─────────────────────────────────────
	base.GET("/", handler.Index)
	base.POST("/calculate", handler.Submit)

	// ─── Swagger ──────────────────────────────────
	base.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── API v1 ───────────────────────────────────
	v1 := base.Group("/api/v1")
	{
		v1.POST("/calculate", handler.Calculate)
		v1.GET("/tickers", handler.Tickers)
	}

	return router
}
