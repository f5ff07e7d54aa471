// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/jeranaias/t2t-tui/internal/logging"
)

// Configuration constants for the T2T API.
const (
	// DefaultTimeout is the default timeout for API requests. Document and
	// research replies can take well over a minute.
	DefaultTimeout = 120 * time.Second

	// DefaultMaxRetries is the default number of attempts for idempotent
	// requests.
	DefaultMaxRetries = 3

	// DefaultRateLimit is the default request rate (requests per second).
	DefaultRateLimit = 5.0

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay is the maximum delay for exponential backoff.
	retryMaxDelay = 10 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	// DefaultCheckoutTier is the plan offered from the paywall.
	DefaultCheckoutTier = "tier1"
)

// Version is reported in the User-Agent header. Set by main.
var Version = "dev"

// CookieStore persists session cookies between runs.
type CookieStore interface {
	LoadCookies() ([]*http.Cookie, error)
	SaveCookies(cookies []*http.Cookie) error
	ClearCookies() error
}

// Client is a client for the T2T backend. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	jar        *cookiejar.Jar
	limiter    *rate.Limiter
	maxRetries int
	logger     logging.Logger

	storeMu sync.Mutex
	store   CookieStore
}

// NewClient creates a client for the server at baseURL. An unparseable or
// empty URL yields a client whose requests fail with ErrNotConfigured.
func NewClient(baseURL string) *Client {
	// cookiejar.New never returns a non-nil error.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Jar:     jar,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		jar:        jar,
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), int(DefaultRateLimit)),
		maxRetries: DefaultMaxRetries,
		logger:     logging.Nop(),
	}
	c.baseURL = parseBaseURL(baseURL)
	return c
}

func parseBaseURL(raw string) *url.URL {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "/")
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil
	}
	return u
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
	return c
}

// WithMaxRetries sets the maximum number of attempts for idempotent requests.
func (c *Client) WithMaxRetries(maxRetries int) *Client {
	if maxRetries < 1 {
		maxRetries = 1
	}
	c.maxRetries = maxRetries
	return c
}

// WithRateLimit sets the client-side request rate. Zero or negative disables
// throttling.
func (c *Client) WithRateLimit(perSecond float64) *Client {
	if perSecond <= 0 {
		c.limiter = rate.NewLimiter(rate.Inf, 0)
		return c
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	return c
}

// WithLogger sets the logger for request/response logging.
func (c *Client) WithLogger(l logging.Logger) *Client {
	if l != nil {
		c.logger = l
	}
	return c
}

// WithTransport replaces the HTTP transport, for tests and proxies.
func (c *Client) WithTransport(rt http.RoundTripper) *Client {
	c.httpClient.Transport = rt
	return c
}

// WithCookieStore restores saved cookies into the jar and persists the jar
// after every response.
func (c *Client) WithCookieStore(store CookieStore) *Client {
	c.storeMu.Lock()
	c.store = store
	c.storeMu.Unlock()

	if store == nil || c.baseURL == nil {
		return c
	}
	cookies, err := store.LoadCookies()
	if err != nil {
		c.logger.Warn("api", "failed to load saved session", map[string]interface{}{"error": err.Error()})
		return c
	}
	if len(cookies) > 0 {
		c.jar.SetCookies(c.baseURL, cookies)
	}
	return c
}

// BaseURL returns the configured server URL, or "" if unset.
func (c *Client) BaseURL() string {
	if c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// IsConfigured reports whether a server URL is set.
func (c *Client) IsConfigured() bool {
	return c.baseURL != nil
}

// HasSession reports whether the jar holds any cookie for the server.
func (c *Client) HasSession() bool {
	return c.baseURL != nil && len(c.jar.Cookies(c.baseURL)) > 0
}

// ClearSession drops every stored cookie for the server.
func (c *Client) ClearSession() {
	if c.baseURL == nil {
		return
	}
	expired := make([]*http.Cookie, 0)
	for _, ck := range c.jar.Cookies(c.baseURL) {
		expired = append(expired, &http.Cookie{Name: ck.Name, Value: "", Path: "/", MaxAge: -1})
	}
	if len(expired) > 0 {
		c.jar.SetCookies(c.baseURL, expired)
	}

	c.storeMu.Lock()
	defer c.storeMu.Unlock()
	if c.store != nil {
		if err := c.store.ClearCookies(); err != nil {
			c.logger.Warn("api", "failed to clear saved session", map[string]interface{}{"error": err.Error()})
		}
	}
}

// CheckoutURL returns the checkout hand-off URL for tier.
func (c *Client) CheckoutURL(tier string) string {
	if tier == "" {
		tier = DefaultCheckoutTier
	}
	if c.baseURL == nil {
		return ""
	}
	return c.endpoint("/api/checkout/" + url.PathEscape(tier))
}

func (c *Client) endpoint(path string) string {
	return strings.TrimSuffix(c.baseURL.String(), "/") + path
}

// =============================================================================
// REQUEST EXECUTION
// =============================================================================

// readResponse reads the response body with size limits to prevent memory
// exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrNetwork, err)
	}

	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("%w: response exceeded maximum size of %d bytes", ErrNetwork, MaxResponseSize)
	}

	return body, nil
}

// doRequest performs a single request. A non-nil in is JSON-encoded as the
// body; a non-nil out receives the decoded 2xx body.
func (c *Client) doRequest(ctx context.Context, method, path string, in, out interface{}) error {
	if c.baseURL == nil {
		return ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	var body io.Reader
	if in != nil {
		bodyBytes, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	requestID := c.setHeaders(req, in != nil)

	c.logger.Debug("api", "request", map[string]interface{}{
		"method":     method,
		"path":       path,
		"request_id": requestID,
	})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("api", "request failed", map[string]interface{}{
			"method":     method,
			"path":       path,
			"request_id": requestID,
			"error":      err.Error(),
		})
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api", "response", map[string]interface{}{
		"method":      method,
		"path":        path,
		"status":      resp.StatusCode,
		"request_id":  requestID,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	c.persistCookies()

	respBody, err := readResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return handleErrorResponse(resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: malformed response: %w", ErrNetwork, err)
	}
	return nil
}

// doWithRetry performs an idempotent request with exponential backoff on
// transport failures and 5xx responses.
func (c *Client) doWithRetry(ctx context.Context, method, path string, out interface{}) error {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := calculateBackoff(attempt)
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %w", ErrNetwork, ctx.Err())
			case <-time.After(delay):
			}
		}

		err := c.doRequest(ctx, method, path, nil, out)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// setHeaders sets the standard headers and returns the request id.
func (c *Client) setHeaders(req *http.Request, hasBody bool) string {
	requestID := uuid.NewString()
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "t2t/"+Version)
	req.Header.Set("X-Request-ID", requestID)
	return requestID
}

func (c *Client) persistCookies() {
	c.storeMu.Lock()
	defer c.storeMu.Unlock()
	if c.store == nil {
		return
	}
	if err := c.store.SaveCookies(c.jar.Cookies(c.baseURL)); err != nil {
		c.logger.Warn("api", "failed to save session", map[string]interface{}{"error": err.Error()})
	}
}

// calculateBackoff returns the delay to wait before the next retry.
func calculateBackoff(attempt int) time.Duration {
	// Exponential backoff: 500ms, 1000ms, 2000ms, etc.
	delay := retryBaseDelay * time.Duration(1<<uint(attempt-1))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
