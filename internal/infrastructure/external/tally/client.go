// Package tally talks to the ledger system's XML-over-HTTP export endpoint.
package tally

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/ledger"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxAttempts  = 2
	defaultRetryBackoff = 500 * time.Millisecond
	maxErrorBodyBytes   = 512
)

// HTTPClient interface for testability
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig configures the ledger endpoint client
type ClientConfig struct {
	Endpoint      string
	Timeout       time.Duration
	MaxAttempts   int
	RetryBackoff  time.Duration
	RatePerSecond float64
	Burst         int
}

// Client posts export requests to the ledger endpoint
type Client struct {
	endpoint     string
	httpClient   HTTPClient
	limiter      *rate.Limiter
	maxAttempts  int
	retryBackoff time.Duration
	logger       *zap.Logger
}

// NewClient creates a client. A zero RatePerSecond disables rate limiting.
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	return &Client{
		endpoint:     cfg.Endpoint,
		httpClient:   &http.Client{Timeout: timeout},
		limiter:      limiter,
		maxAttempts:  attempts,
		retryBackoff: backoff,
		logger:       logger,
	}
}

// SetHTTPClient replaces the underlying HTTP client
func (c *Client) SetHTTPClient(h HTTPClient) {
	c.httpClient = h
}

// Endpoint returns the URL requests are posted to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Post sends body as text/xml and returns the response body.
// Transport failures, 5xx and 429 responses are retried with exponential
// backoff; every failure is returned as *ledger.NetworkError.
func (c *Client) Post(ctx context.Context, body string) ([]byte, error) {
	var (
		lastErr    error
		lastStatus int
	)

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, c.networkError(0, attempt, err)
			}
		}

		data, status, err := c.do(ctx, body)
		if err == nil {
			return data, nil
		}
		lastErr, lastStatus = err, status

		if !isTransient(ctx, status, err) {
			c.logger.Info("Ledger request failed permanently",
				zap.Int("attempt", attempt),
				zap.Int("status", status),
				zap.Error(err))
			return nil, c.networkError(status, attempt, err)
		}

		if attempt < c.maxAttempts {
			backoff := c.retryBackoff * time.Duration(1<<uint(attempt-1))
			c.logger.Info("Retrying ledger request",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(err))

			select {
			case <-ctx.Done():
				return nil, c.networkError(lastStatus, attempt, ctx.Err())
			case <-time.After(backoff):
			}
		}
	}

	c.logger.Error("Ledger request failed after retries",
		zap.String("endpoint", c.endpoint),
		zap.Int("max_attempts", c.maxAttempts),
		zap.Error(lastErr))
	return nil, c.networkError(lastStatus, c.maxAttempts, lastErr)
}

func (c *Client) do(ctx context.Context, body string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("Accept", "text/xml, application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := bytes.TrimSpace(data)
		if len(snippet) > maxErrorBodyBytes {
			snippet = snippet[:maxErrorBodyBytes]
		}
		return nil, resp.StatusCode, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet)
	}

	return data, resp.StatusCode, nil
}

func (c *Client) networkError(status, attempts int, err error) *ledger.NetworkError {
	return &ledger.NetworkError{
		Endpoint:   c.endpoint,
		StatusCode: status,
		Attempts:   attempts,
		Err:        err,
	}
}

// isTransient reports whether a failed attempt may succeed when repeated
func isTransient(ctx context.Context, status int, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return false
	}
	switch {
	case status == 0:
		return true
	case status == http.StatusTooManyRequests:
		return true
	case status >= 500:
		return true
	}
	return false
}
