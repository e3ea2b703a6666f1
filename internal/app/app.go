package app

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/costofequity/config"
	"github.com/guttosm/costofequity/docs"
	"github.com/guttosm/costofequity/internal/analysis"
	"github.com/guttosm/costofequity/internal/api"
	"github.com/guttosm/costofequity/internal/form"
	"github.com/guttosm/costofequity/internal/logger"
	"github.com/guttosm/costofequity/internal/service"
	"github.com/guttosm/costofequity/internal/session"
)

// errShuttingDown is reported by /readyz once cleanup has started.
var errShuttingDown = errors.New("shutting down")

// newCalculator is an indirection used by InitializeApp; overridden in tests
// to avoid real upstream calls.
var newCalculator = func(cfg config.AnalysisConfig) analysis.Calculator {
	return analysis.NewClient(cfg.Endpoint, analysis.WithTimeout(cfg.Timeout))
}

// NewForm returns the state a fresh page session starts from.
func NewForm(cfg config.FormConfig) form.State {
	return form.New(form.Defaults{Ticker: cfg.DefaultTicker, StartDate: cfg.DefaultStartDate}, time.Now())
}

// swaggerBasePath is the prefix the API document advertises to "Try it out".
func swaggerBasePath(basePath string) string {
	if basePath == "" {
		return "/"
	}
	return basePath
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds the analysis client for the configured endpoint.
//   - Creates the in-memory session store and starts its sweeper.
//   - Creates the calculation service and the HTTP handler layer.
//   - Configures the Gin router with page, API and health routes.
//   - Provides a cleanup function that stops the sweeper.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig
	if len(cfg.Form.Tickers) == 0 {
		return nil, nil, errors.New("no tickers configured")
	}

	// A shared upstream call outlives any one request, so it needs its own
	// bound. Without ANALYSIS_TIMEOUT it gets the inbound request's.
	analysisCfg := cfg.Analysis
	if analysisCfg.Timeout == 0 {
		analysisCfg.Timeout = cfg.Server.RequestTimeout
	}
	calc := newCalculator(analysisCfg)

	docs.SwaggerInfo.BasePath = swaggerBasePath(cfg.Server.BasePath)

	formCfg := cfg.Form
	store := session.NewMemoryStore(cfg.Session.TTL, func() form.State { return NewForm(formCfg) })

	svc := service.NewCalculationService(calc, store, cfg.Form.Tickers, cfg.Form.DefaultTicker)
	handler := api.NewHandler(svc, cfg.Server.BasePath)
	router := api.NewRouter(handler, api.RouterConfig{
		BasePath:       cfg.Server.BasePath,
		RequestTimeout: cfg.Server.RequestTimeout,
		RateLimit:      cfg.Server.RateLimit,
	})

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	if cfg.Session.SweepInterval > 0 {
		g.Go(func() error { return store.Run(gctx, cfg.Session.SweepInterval) })
	}

	// Register health and readiness probes
	healthHandler := api.NewHealthHandler(func() error {
		if ctx.Err() != nil {
			return errShuttingDown
		}
		return nil
	})
	healthHandler.Register(router)

	logger.L().Info().
		Str("endpoint", cfg.Analysis.Endpoint).
		Str("base_path", cfg.Server.BasePath).
		Strs("tickers", cfg.Form.Tickers).
		Msg("app initialized")

	cleanup := func() {
		cancel()
		if err := g.Wait(); err != nil {
			logger.L().Error().Err(err).Msg("background task failed")
		}
	}

	return router, cleanup, nil
}
