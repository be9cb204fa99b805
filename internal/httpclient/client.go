// Package httpclient provides the outbound HTTP client used for library fetches and webhook delivery
package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/stacklok/media-readiness-server/internal/versions"
)

const (
	// DefaultTimeout is the default timeout for HTTP requests
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the number of attempts made for a GET before giving up
	DefaultMaxRetries = 3

	// DefaultRetryInterval is the initial wait between GET attempts
	DefaultRetryInterval = 500 * time.Millisecond

	// MaxResponseSize is the maximum allowed response size (100MB)
	MaxResponseSize = 100 * 1024 * 1024

	// maxErrorBodySize bounds how much of an error response ends up in HTTPError.Message
	maxErrorBodySize = 512
)

// Client is an interface for HTTP operations
type Client interface {
	// Get performs an HTTP GET request and returns the response body.
	// Transient failures (connection errors, 5xx, 429) are retried with exponential backoff.
	Get(ctx context.Context, url string, opts ...RequestOption) ([]byte, error)

	// PostJSON performs a single HTTP POST with a JSON body.
	// Any non-2xx response is returned as an *HTTPError.
	PostJSON(ctx context.Context, url string, body []byte, opts ...RequestOption) error
}

// Option configures a Client
type Option func(*defaultClient)

// WithTimeout sets the overall timeout of a single request. Zero keeps DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *defaultClient) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

// WithMaxRetries sets how many attempts a GET makes in total
func WithMaxRetries(n uint) Option {
	return func(c *defaultClient) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithRetryInterval sets the initial wait between GET attempts
func WithRetryInterval(d time.Duration) Option {
	return func(c *defaultClient) {
		c.retryInterval = d
	}
}

// WithHTTPClient replaces the underlying *http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *defaultClient) {
		c.client = hc
	}
}

// RequestOption customizes a single request
type RequestOption func(*http.Request)

// WithHeader sets a request header
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

type defaultClient struct {
	client        *http.Client
	maxRetries    uint
	retryInterval time.Duration
}

// NewClient creates a new HTTP client
func NewClient(opts ...Option) Client {
	c := &defaultClient{
		client:        &http.Client{Timeout: DefaultTimeout},
		maxRetries:    DefaultMaxRetries,
		retryInterval: DefaultRetryInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs an HTTP GET request, retrying transient failures
func (c *defaultClient) Get(ctx context.Context, url string, opts ...RequestOption) ([]byte, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval

	attempt := 0
	operation := func() ([]byte, error) {
		attempt++
		body, err := c.get(ctx, url, opts)
		if err == nil {
			return body, nil
		}
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return nil, err
		}
		if !IsRetryable(err) || ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		slog.Debug("Retrying GET after transient failure", "url", url, "attempt", attempt, "error", err)
		return nil, err
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(c.maxRetries),
	)
}

func (c *defaultClient) get(ctx context.Context, url string, opts []RequestOption) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", versions.UserAgent())
	req.Header.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, NewHTTPError(resp.StatusCode, url, resp.Status)
	}

	if resp.ContentLength > MaxResponseSize {
		return nil, backoff.Permanent(fmt.Errorf("response size %d bytes exceeds maximum allowed size of %d bytes",
			resp.ContentLength, MaxResponseSize))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, backoff.Permanent(fmt.Errorf("response size exceeds maximum allowed size of %d bytes", MaxResponseSize))
	}

	return body, nil
}

// PostJSON sends body as application/json and drains the response
func (c *defaultClient) PostJSON(ctx context.Context, url string, body []byte, opts ...RequestOption) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", versions.UserAgent())
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("request timed out: %w", err)
		}
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		msg := resp.Status
		if len(snippet) > 0 {
			msg = fmt.Sprintf("%s: %s", resp.Status, bytes.TrimSpace(snippet))
		}
		return NewHTTPError(resp.StatusCode, url, msg)
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseSize))
	return nil
}
