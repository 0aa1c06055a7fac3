package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lukemcguire/linksweep/result"
	"github.com/lukemcguire/linksweep/urlutil"
)

// DefaultUserAgent identifies linksweep to the servers it checks.
const DefaultUserAgent = "linksweep/1.0 (+https://github.com/lukemcguire/linksweep)"

// maxDrain bounds how much of a response body is read so the connection
// can be reused.
const maxDrain = 64 << 10

// Config holds checker configuration.
type Config struct {
	Concurrency    int           // Maximum requests in flight, retries included
	RequestTimeout time.Duration // Per-attempt timeout
	Retry          RetryPolicy   // Retries for transport failures
	RateLimitDelay time.Duration // Minimum spacing between dispatches, 0 disables
	UseHead        bool          // Send HEAD instead of GET, falling back to GET on 405
	UserAgent      string        // User-Agent header
	Proxy          string        // Proxy URL; empty uses the environment
	Insecure       bool          // Skip TLS certificate verification
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() Config {
	return Config{
		Concurrency:    10,
		RequestTimeout: 30 * time.Second,
		Retry:          DefaultRetryPolicy(),
		UserAgent:      DefaultUserAgent,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.Concurrency <= 0 {
		c.Concurrency = defaults.Concurrency
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaults.RequestTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = defaults.UserAgent
	}
	c.Retry.Attempts = max(c.Retry.Attempts, 0)
	c.RateLimitDelay = max(c.RateLimitDelay, 0)
	return c
}

// CheckURL makes a single attempt at loc.URL. A received response of any
// status yields a status result and a nil error. A transport failure yields
// a failure result and the underlying error so the caller can decide
// whether to retry.
func CheckURL(ctx context.Context, client *http.Client, loc result.URLLocation, cfg Config) (result.ValidationResult, error) {
	reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()

	method := http.MethodGet
	if cfg.UseHead {
		method = http.MethodHead
	}

	status, err := send(reqCtx, client, method, loc.URL, cfg.UserAgent)
	if err == nil && method == http.MethodHead && status == http.StatusMethodNotAllowed {
		status, err = send(reqCtx, client, http.MethodGet, loc.URL, cfg.UserAgent)
	}
	if err != nil {
		return result.NewFailureResult(loc, err), err
	}
	return result.NewStatusResult(loc, status), nil
}

// send performs one request and returns its status code. The body is
// drained and closed before returning.
func send(ctx context.Context, client *http.Client, method, rawURL, userAgent string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, &invalidRequestError{err: err}
	}
	if !urlutil.IsHTTPScheme(rawURL) {
		return 0, &invalidRequestError{err: fmt.Errorf("unsupported protocol scheme %q", req.URL.Scheme)}
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	// The status is already known; drain and close errors cannot change it.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

// invalidRequestError marks a URL that could not be turned into a request.
// Retrying it cannot help.
type invalidRequestError struct {
	err error
}

func (e *invalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %v", e.err)
}

func (e *invalidRequestError) Unwrap() error {
	return e.err
}
