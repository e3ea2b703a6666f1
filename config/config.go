package config

import (
	"log"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// productionBasePath is the path prefix the explorer is published under when
// APP_ENV=production and BASE_PATH is not set explicitly.
const productionBasePath = "/cost-of-equity-app"

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as server settings, the remote analysis endpoint and the form defaults.
//
// Example ENV equivalent:
//
//	APP_ENV=production
//	SERVER_PORT=8080
//	ANALYSIS_ENDPOINT=https://cost-of-equity-app.onrender.com
//	ANALYSIS_TIMEOUT=0s
//	TICKERS=AAPL,MSFT,GOOGL,TSLA,AMZN
//	DEFAULT_START_DATE=2010-01-01
//	SESSION_TTL=30m
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Analysis AnalysisConfig // Remote calculation service
	Form     FormConfig     // Ticker set and form defaults
	Session  SessionConfig  // In-memory session store
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        // The TCP port the HTTP server will listen on (e.g., "8080")
	BasePath       string        // Path prefix all routes are mounted under ("" or "/cost-of-equity-app")
	RequestTimeout time.Duration // Upper bound for a single inbound request, upstream call included
	RateLimit      int           // Requests allowed per client IP per minute
}

// AnalysisConfig describes the external CAPM / Fama-French endpoint.
//
// Fields:
//   - Endpoint: absolute URL the calculation request is POSTed to.
//   - Timeout: client-side timeout for the call; zero means no timeout beyond
//     the request context.
type AnalysisConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// FormConfig holds the enumerated ticker set and initial field values.
type FormConfig struct {
	Tickers          []string
	DefaultTicker    string
	DefaultStartDate string
}

// SessionConfig controls eviction of idle page sessions.
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// The .env file is loaded into the process environment (godotenv never
// overrides variables that are already set), so values are visible to viper
// and to any package reading os.Getenv directly, such as the logger.
//
// Fatal exit:
//   - If required variables are missing or invalid, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	_ = godotenv.Load() // ignore error if no .env

	// Default values
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_REQUEST_TIMEOUT", "90s")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 60)

	viper.SetDefault("ANALYSIS_ENDPOINT", "https://cost-of-equity-app.onrender.com")
	viper.SetDefault("ANALYSIS_TIMEOUT", "0s")

	viper.SetDefault("TICKERS", "AAPL,MSFT,GOOGL,TSLA,AMZN")
	viper.SetDefault("DEFAULT_TICKER", "")
	viper.SetDefault("DEFAULT_START_DATE", "2010-01-01")

	viper.SetDefault("SESSION_TTL", "30m")
	viper.SetDefault("SESSION_SWEEP_INTERVAL", "1m")

	// Read environment variables automatically
	viper.AutomaticEnv()

	tickers := ParseTickers(viper.GetString("TICKERS"))
	defTicker := strings.ToUpper(strings.TrimSpace(viper.GetString("DEFAULT_TICKER")))
	if defTicker == "" && len(tickers) > 0 {
		defTicker = tickers[0]
	}

	// Populate global config instance
	AppConfig = Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			BasePath:       resolveBasePath(viper.GetString("APP_ENV"), viper.GetString("BASE_PATH"), viper.IsSet("BASE_PATH")),
			RequestTimeout: viper.GetDuration("SERVER_REQUEST_TIMEOUT"),
			RateLimit:      viper.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
		Analysis: AnalysisConfig{
			Endpoint: strings.TrimSpace(viper.GetString("ANALYSIS_ENDPOINT")),
			Timeout:  viper.GetDuration("ANALYSIS_TIMEOUT"),
		},
		Form: FormConfig{
			Tickers:          tickers,
			DefaultTicker:    defTicker,
			DefaultStartDate: viper.GetString("DEFAULT_START_DATE"),
		},
		Session: SessionConfig{
			TTL:           viper.GetDuration("SESSION_TTL"),
			SweepInterval: viper.GetDuration("SESSION_SWEEP_INTERVAL"),
		},
	}

	// Validate critical fields
	validateConfig()
}

// ParseTickers splits a comma separated ticker list, upper-casing entries and
// dropping blanks and duplicates while keeping the original order.
func ParseTickers(s string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(s, ",") {
		t := strings.ToUpper(strings.TrimSpace(part))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// resolveBasePath returns the route prefix. A non-empty BASE_PATH always wins;
// otherwise production deployments get productionBasePath.
func resolveBasePath(env, basePath string, explicit bool) string {
	if !explicit {
		if strings.EqualFold(env, "production") {
			return productionBasePath
		}
		return ""
	}
	p := strings.TrimRight(strings.TrimSpace(basePath), "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
func validateConfig() {
	if missing := missingFields(AppConfig); len(missing) > 0 {
		log.Fatalf("missing or invalid environment variables: %v\n", missing)
	}
}

// missingFields lists the variables whose values are absent or unusable.
func missingFields(cfg Config) []string {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if u, err := url.Parse(cfg.Analysis.Endpoint); cfg.Analysis.Endpoint == "" || err != nil || u.Scheme == "" || u.Host == "" {
		missing = append(missing, "ANALYSIS_ENDPOINT")
	}
	if cfg.Analysis.Timeout < 0 {
		missing = append(missing, "ANALYSIS_TIMEOUT")
	}
	if len(cfg.Form.Tickers) == 0 {
		missing = append(missing, "TICKERS")
	}
	if !slices.Contains(cfg.Form.Tickers, cfg.Form.DefaultTicker) {
		missing = append(missing, "DEFAULT_TICKER")
	}
	if _, err := time.Parse(time.DateOnly, cfg.Form.DefaultStartDate); err != nil {
		missing = append(missing, "DEFAULT_START_DATE")
	}
	if cfg.Session.TTL <= 0 {
		missing = append(missing, "SESSION_TTL")
	}

	return missing
}
