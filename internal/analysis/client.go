package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/guttosm/costofequity/internal/domain/models"
	"github.com/guttosm/costofequity/internal/logger"
)

const (
	maxBodyBytes    = 1 << 20
	maxErrBodyBytes = 512
)

// Calculator runs one CAPM / Fama-French calculation.
type Calculator interface {
	Calculate(ctx context.Context, req models.Request) (models.Result, error)
}

// Client posts calculation requests to the remote analysis endpoint.
//
// Each call issues exactly one HTTP request: no retries. Concurrent calls with
// an identical Request share a single upstream round trip.
type Client struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
	flights  singleflight.Group
}

var _ Calculator = (*Client)(nil)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each upstream round trip. Zero leaves the round trip
// unbounded; callers still give up when their own context ends.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient builds a Client for endpoint (an absolute URL).
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Calculate sends req and decodes the result.
//
// Errors:
//   - ErrNetwork / ErrTimeout: the request could not complete.
//   - ErrCanceled: the caller's context was canceled before the answer came.
//   - *StatusError: the service answered with a non-2xx status.
//   - ErrMalformed: the body was not JSON or lacked a required field.
func (c *Client) Calculate(ctx context.Context, req models.Request) (models.Result, error) {
	key := req.Ticker + "|" + req.StartDate + "|" + req.EndDate

	ch := c.flights.DoChan(key, func() (any, error) {
		// The round trip is shared by every caller that joins it, so it runs
		// on the client's own bound and each caller waits on its own context.
		fctx := context.WithoutCancel(ctx)
		if c.timeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(fctx, c.timeout)
			defer cancel()
		}
		return c.do(fctx, req)
	})

	select {
	case <-ctx.Done():
		return models.Result{}, classifyTransport(ctx.Err())
	case res := <-ch:
		if res.Shared {
			logger.L().Debug().Str("ticker", req.Ticker).Msg("analysis call shared")
		}
		if res.Err != nil {
			return models.Result{}, res.Err
		}
		return res.Val.(models.Result), nil
	}
}

func (c *Client) do(ctx context.Context, req models.Request) (models.Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return models.Result{}, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return models.Result{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		logger.L().Warn().Err(err).Str("endpoint", c.endpoint).Dur("elapsed", time.Since(start)).Msg("analysis call failed")
		return models.Result{}, classifyTransport(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return models.Result{}, classifyTransport(err)
	}

	logger.L().Info().
		Str("ticker", req.Ticker).
		Str("start_date", req.StartDate).
		Str("end_date", req.EndDate).
		Int("status", resp.StatusCode).
		Int64("latency_ms", time.Since(start).Milliseconds()).
		Msg("analysis call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Result{}, &StatusError{Code: resp.StatusCode, Body: snippet(body)}
	}
	return decodeResult(body)
}

// classifyTransport wraps a transport-level failure with ErrTimeout,
// ErrCanceled or ErrNetwork.
func classifyTransport(err error) error {
	var ne net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	default:
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrBodyBytes {
		s = s[:maxErrBodyBytes]
	}
	return s
}
