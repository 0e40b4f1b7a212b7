package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/flext-sh/flexstore/pkg/tlsroots"
)

// Defaults applied by New when the corresponding option is absent.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 2
	DefaultRetryDelay = 200 * time.Millisecond
)

// ErrCircuitOpen is returned when the circuit breaker rejects a
// request without attempting it.
var ErrCircuitOpen = errors.New("httpclient: circuit breaker open")

// Client is an HTTP client with retry, circuit breaking, and plugin
// hooks. All requests are relative to the base URL given to New.
type Client struct {
	baseURL    string
	client     *http.Client
	logger     *slog.Logger
	plugins    []Plugin
	breaker    *Breaker
	maxRetries int
	retryDelay time.Duration
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithRetries sets how many times a failed request is retried and the
// base delay between attempts. The delay doubles per retry. Zero max
// disables retries.
func WithRetries(max int, delay time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = max
		c.retryDelay = delay
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPlugin appends a plugin. Plugins run in registration order.
func WithPlugin(p Plugin) Option {
	return func(c *Client) {
		c.plugins = append(c.plugins, p)
	}
}

// WithBreaker guards requests with a circuit breaker that opens after
// threshold consecutive failures and half-opens after cooldown.
func WithBreaker(threshold int, cooldown time.Duration) Option {
	return func(c *Client) {
		c.breaker = NewBreaker(threshold, cooldown)
	}
}

// WithTLSRoots verifies server certificates against the given pool
// instead of the system roots.
func WithTLSRoots(pool *tlsroots.Pool) Option {
	return func(c *Client) {
		c.tlsConfig().RootCAs = pool.Pool()
	}
}

// WithClientCertificate presents the watcher's certificate for mutual
// TLS. The watcher reloads the certificate when its files change, so
// rotated certificates take effect without rebuilding the client.
func WithClientCertificate(w *tlsroots.Watcher) Option {
	return func(c *Client) {
		c.tlsConfig().GetClientCertificate = w.GetClientCertificate
	}
}

// WithHTTPClient replaces the underlying *http.Client. Options that
// touch the transport or timeout should come after this one.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithUserAgent sets the User-Agent header for all requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a client for the given base URL. A URL without a scheme
// gets "http://" prepended.
func New(baseURL string, opts ...Option) *Client {
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		userAgent:  "flexstore/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the base URL of the client.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Breaker returns the circuit breaker, nil when none is configured.
func (c *Client) Breaker() *Breaker {
	return c.breaker
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}

// Do performs a request with the configured retry, breaker, and
// plugin behavior. A non-nil body is marshaled to JSON once and
// replayed on every attempt.
//
// Transport failures after all retries return an error. A completed
// HTTP exchange returns a *Response whatever the status code; 5xx
// responses are retried first.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	if c.breaker != nil && !c.breaker.Allow() {
		c.logger.Debug("request rejected by circuit breaker",
			"method", method,
			"path", path)
		return nil, ErrCircuitOpen
	}

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("httpclient: marshal body: %w", err)
		}
		payload = data
	}

	var (
		resp    *Response
		lastErr error
		delay   = c.retryDelay
	)

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying request",
				"method", method,
				"path", path,
				"attempt", attempt,
				"delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			delay *= 2
		}

		resp, lastErr = c.attempt(ctx, method, path, payload)
		if lastErr != nil {
			c.recordFailure()
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if resp.StatusCode >= 500 {
			c.recordFailure()
			continue
		}

		c.recordSuccess()
		return resp, nil
	}

	if lastErr != nil {
		c.logger.Warn("request failed after retries",
			"method", method,
			"path", path,
			"attempts", c.maxRetries+1,
			"error", lastErr)
		return nil, lastErr
	}

	// Retries exhausted on 5xx: hand the last response to the caller.
	return resp, nil
}

// attempt performs a single HTTP exchange including plugin hooks.
func (c *Client) attempt(ctx context.Context, method, path string, payload []byte) (*Response, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for _, p := range c.plugins {
		if err := p.BeforeRequest(ctx, req); err != nil {
			return nil, fmt.Errorf("httpclient: plugin %s: %w", p.Name(), err)
		}
	}

	httpResp, err := c.client.Do(req)
	if err != nil {
		for _, p := range c.plugins {
			p.OnError(ctx, err)
		}
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		for _, p := range c.plugins {
			p.OnError(ctx, err)
		}
		return nil, fmt.Errorf("httpclient: read response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       data,
	}

	for _, p := range c.plugins {
		if err := p.AfterResponse(ctx, resp); err != nil {
			return nil, fmt.Errorf("httpclient: plugin %s: %w", p.Name(), err)
		}
	}
	return resp, nil
}

// tlsConfig returns the transport's TLS config, installing a
// dedicated transport on first use so TLS options compose.
func (c *Client) tlsConfig() *tls.Config {
	if t, ok := c.client.Transport.(*http.Transport); ok && t.TLSClientConfig != nil {
		return t.TLSClientConfig
	}
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	c.client.Transport = &http.Transport{TLSClientConfig: cfg}
	return cfg
}

func (c *Client) recordFailure() {
	if c.breaker != nil {
		c.breaker.RecordFailure()
	}
}

func (c *Client) recordSuccess() {
	if c.breaker != nil {
		c.breaker.RecordSuccess()
	}
}

// Response is a completed HTTP exchange with the body fully read.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// IsError reports whether the status code is 400 or above.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// Decode parses the JSON body into target. Error statuses decode the
// standard {"code","message"} envelope when present and return it as
// an error; target is then left untouched. A nil target skips body
// decoding for success statuses.
func (r *Response) Decode(target any) error {
	if r.IsError() {
		var envelope struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(r.Body, &envelope); err == nil && envelope.Message != "" {
			return fmt.Errorf("[%s] %s", envelope.Code, envelope.Message)
		}
		return fmt.Errorf("request failed with status %d", r.StatusCode)
	}

	if target != nil {
		if err := json.Unmarshal(r.Body, target); err != nil {
			return fmt.Errorf("httpclient: parse response: %w", err)
		}
	}
	return nil
}
