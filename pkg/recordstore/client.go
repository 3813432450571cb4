package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
)

// Config configures the record store client.
type Config struct {
	// BaseURL is the provider API root, e.g. "https://api.notion.com".
	BaseURL string

	// APIToken is the provider integration token, sent as a Bearer
	// credential on every request.
	APIToken string

	// Version is the provider API version header value.
	Version string

	// Timeout bounds a single HTTP round trip. Defaults to 30s.
	Timeout time.Duration

	// MaxAttempts is the total number of tries for conflict/rate-limited
	// requests, including the first. Defaults to 5.
	MaxAttempts int

	// RetryBaseDelay is the unit of the exponential backoff schedule.
	// Defaults to 250ms; tests shrink it.
	RetryBaseDelay time.Duration

	// RetryMaxDelay caps a single backoff interval. Defaults to 2s.
	RetryMaxDelay time.Duration
}

// Client is an HTTP client for the hosted record store. All outbound calls
// go through a bounded retry loop that only retries conflict (409) and
// rate-limit (429) responses.
type Client struct {
	cfg    Config
	http   *http.Client
	logger hclog.Logger
}

// APIError is a non-2xx response from the provider, preserved so callers can
// surface the upstream status and payload unmodified.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("record store error (status %d, %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("record store error (status %d): %s", e.StatusCode, e.Message)
}

// Retryable reports whether the error is a transient conflict or rate-limit
// response.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusConflict || e.StatusCode == http.StatusTooManyRequests
}

// NewClient creates a record store client. The logger may be nil.
func NewClient(cfg Config, logger hclog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("record store base URL is required")
	}
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("record store API token is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.RetryBaseDelay == 0 {
		cfg.RetryBaseDelay = 250 * time.Millisecond
	}
	if cfg.RetryMaxDelay == 0 {
		cfg.RetryMaxDelay = 2 * time.Second
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}, nil
}

// conflictBackOff implements the retry schedule for throttled requests:
// min(RetryMaxDelay, RetryBaseDelay × 2^n) for n starting at zero, plus up
// to 100ms of jitter, stopping after MaxAttempts total tries.
type conflictBackOff struct {
	base    time.Duration
	max     time.Duration
	tries   int
	attempt int
}

func (b *conflictBackOff) NextBackOff() time.Duration {
	if b.attempt >= b.tries-1 {
		return backoff.Stop
	}
	d := b.base * (1 << b.attempt)
	b.attempt++
	if d > b.max {
		d = b.max
	}
	return d + time.Duration(rand.Intn(100))*time.Millisecond
}

func (b *conflictBackOff) Reset() { b.attempt = 0 }

// do issues one API call with retry on 409/429, marshalling body in and
// result out. Non-retryable provider errors are returned as *APIError with
// the upstream status and payload.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	operation := func() error {
		var bodyReader io.Reader
		if bodyBytes != nil {
			bodyReader = bytes.NewReader(bodyBytes)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, bodyReader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
		req.Header.Set("Accept", "application/json")
		if c.cfg.Version != "" {
			req.Header.Set("Notion-Version", c.cfg.Version)
		}
		if bodyBytes != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			// Transport errors are not retried: the schedule exists for
			// provider throttling, not network faults.
			return backoff.Permanent(fmt.Errorf("request failed: %w", err))
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to read response: %w", err))
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			apiErr := &APIError{StatusCode: resp.StatusCode}
			if err := json.Unmarshal(respBody, apiErr); err != nil || apiErr.Message == "" {
				apiErr.Message = string(respBody)
			}
			if apiErr.Retryable() {
				c.logger.Debug("retryable record store response",
					"status", resp.StatusCode,
					"method", method,
					"path", path,
				)
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}

		if result != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
			}
		}
		return nil
	}

	policy := backoff.WithContext(&conflictBackOff{
		base:  c.cfg.RetryBaseDelay,
		max:   c.cfg.RetryMaxDelay,
		tries: c.cfg.MaxAttempts,
	}, ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return err
	}
	return nil
}
