package main

//
//  @title           Cost of Equity Explorer API
//  @version         1.0
//  @description     CAPM and Fama-French 3-factor calculations proxied to the analysis service.
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/costofequity
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        calculate
//  @tag.description Cost of equity calculations
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/costofequity/config"
	_ "github.com/guttosm/costofequity/docs" // swagger docs
	"github.com/guttosm/costofequity/internal/analysis"
	"github.com/guttosm/costofequity/internal/app"
	"github.com/guttosm/costofequity/internal/cli"
	"github.com/guttosm/costofequity/internal/form"
	"github.com/guttosm/costofequity/internal/logger"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//   - requestTimeout (time.Duration): Upper bound of a request; the write timeout leaves headroom above it.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string, requestTimeout time.Duration) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      requestTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): Parent context for the shutdown timeout.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (session sweeper).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Error().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// main is the entry point of the cost of equity explorer.
//
// Modes (selected via --mode flag):
//   - web:  Serves the calculation page and the JSON API.
//   - calc: Runs one calculation and prints it to the terminal.
//
// Flags:
//   - --mode:     Execution mode ("web" or "calc"). Default: "web".
//   - --port:     Port for web mode. Defaults to SERVER_PORT.
//   - --ticker:   Ticker for calc mode. Defaults to DEFAULT_TICKER.
//   - --start:    Start date (YYYY-MM-DD) for calc mode. Defaults to DEFAULT_START_DATE.
//   - --end:      End date (YYYY-MM-DD) for calc mode. Defaults to today.
//   - --no-color: Plain output in calc mode.
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	mode := flag.String("mode", "web", "Mode: web or calc")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for web mode")
	ticker := flag.String("ticker", "", "Ticker for calc mode")
	start := flag.String("start", "", "Start date YYYY-MM-DD for calc mode")
	end := flag.String("end", "", "End date YYYY-MM-DD for calc mode")
	noColor := flag.Bool("no-color", false, "Disable coloured output in calc mode")
	flag.Parse()

	switch *mode {
	case "web":
		logger.L().Info().Msg("starting web server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port, config.AppConfig.Server.RequestTimeout)
		gracefulShutdown(ctx, server, cleanup)

	case "calc":
		// keep stdout for the report
		logger.SetOutput(os.Stderr)

		cfg := config.AppConfig
		calc := analysis.NewClient(cfg.Analysis.Endpoint, analysis.WithTimeout(cfg.Analysis.Timeout))

		runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		err := cli.Run(runCtx, calc, cli.Options{
			Ticker:    *ticker,
			StartDate: *start,
			EndDate:   *end,
			Tickers:   cfg.Form.Tickers,
			Defaults:  form.Defaults{Ticker: cfg.Form.DefaultTicker, StartDate: cfg.Form.DefaultStartDate},
			Out:       os.Stdout,
			NoColor:   *noColor,
		})
		stop()
		if err != nil {
			os.Exit(1)
		}

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
