package config

import (
	"os"
	"os/exec"
	"reflect"
	"testing"
	"time"
)

// TestLoadConfig_Defaults verifies that defaults are loaded when no env vars are set.
func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "BASE_PATH", "SERVER_PORT", "ANALYSIS_ENDPOINT", "ANALYSIS_TIMEOUT", "TICKERS", "DEFAULT_TICKER", "DEFAULT_START_DATE", "SESSION_TTL"} {
		_ = os.Unsetenv(k)
	}

	LoadConfig()

	if AppConfig.Server.Port != "8080" {
		t.Fatalf("expected default SERVER_PORT=8080, got %q", AppConfig.Server.Port)
	}
	if AppConfig.Server.BasePath != "" {
		t.Fatalf("expected empty base path outside production, got %q", AppConfig.Server.BasePath)
	}
	if AppConfig.Analysis.Endpoint != "https://cost-of-equity-app.onrender.com" || AppConfig.Analysis.Timeout != 0 {
		t.Fatalf("unexpected analysis defaults: %+v", AppConfig.Analysis)
	}
	want := []string{"AAPL", "MSFT", "GOOGL", "TSLA", "AMZN"}
	if !reflect.DeepEqual(AppConfig.Form.Tickers, want) {
		t.Fatalf("tickers=%v want %v", AppConfig.Form.Tickers, want)
	}
	if AppConfig.Form.DefaultTicker != "AAPL" || AppConfig.Form.DefaultStartDate != "2010-01-01" {
		t.Fatalf("unexpected form defaults: %+v", AppConfig.Form)
	}
	if AppConfig.Session.TTL != 30*time.Minute {
		t.Fatalf("session ttl=%v", AppConfig.Session.TTL)
	}
}

func TestLoadConfig_ProductionBasePath(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	_ = os.Unsetenv("BASE_PATH")

	LoadConfig()

	if AppConfig.Server.BasePath != "/cost-of-equity-app" {
		t.Fatalf("base path=%q", AppConfig.Server.BasePath)
	}
}

func TestResolveBasePath(t *testing.T) {
	cases := []struct {
		name     string
		env      string
		base     string
		explicit bool
		want     string
	}{
		{name: "dev default", env: "development", want: ""},
		{name: "prod default", env: "production", want: "/cost-of-equity-app"},
		{name: "prod case-insensitive", env: "PRODUCTION", want: "/cost-of-equity-app"},
		{name: "explicit wins", env: "production", base: "/explorer/", explicit: true, want: "/explorer"},
		{name: "leading slash added", env: "development", base: "explorer", explicit: true, want: "/explorer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveBasePath(tc.env, tc.base, tc.explicit); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestParseTickers(t *testing.T) {
	got := ParseTickers(" msft, AAPL,,msft , tsla ")
	want := []string{"MSFT", "AAPL", "TSLA"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if out := ParseTickers(""); len(out) != 0 {
		t.Fatalf("expected empty, got %v", out)
	}
}

func TestMissingFields(t *testing.T) {
	good := Config{
		Server:   ServerConfig{Port: "8080"},
		Analysis: AnalysisConfig{Endpoint: "http://localhost:8000/calculate"},
		Form:     FormConfig{Tickers: []string{"AAPL"}, DefaultTicker: "AAPL", DefaultStartDate: "2010-01-01"},
		Session:  SessionConfig{TTL: time.Minute},
	}
	if m := missingFields(good); len(m) != 0 {
		t.Fatalf("unexpected missing: %v", m)
	}

	bad := good
	bad.Analysis.Endpoint = "/api/calculate"
	bad.Form.DefaultTicker = "IBM"
	bad.Form.DefaultStartDate = "01/01/2010"
	m := missingFields(bad)
	want := []string{"ANALYSIS_ENDPOINT", "DEFAULT_TICKER", "DEFAULT_START_DATE"}
	if !reflect.DeepEqual(m, want) {
		t.Fatalf("got %v want %v", m, want)
	}
}

// TestValidateConfig_Fatal uses a subprocess to assert that validateConfig triggers a fatal exit
// when required fields are missing.
func TestValidateConfig_Fatal(t *testing.T) {
	if os.Getenv("RUN_VALIDATE_FATAL") == "1" {
		AppConfig = Config{}
		validateConfig()
		t.Fatalf("validateConfig should have exited the process")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run", "TestValidateConfig_Fatal")
	cmd.Env = append(os.Environ(), "RUN_VALIDATE_FATAL=1")
	err := cmd.Run()
	if err == nil {
		t.Fatalf("expected process to exit with error, got nil")
	}
}
