package httpclient

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"
)

// Plugin observes and mutates the request lifecycle. BeforeRequest may
// rewrite headers or block (rate limiting); a returned error aborts
// the attempt. AfterResponse sees the fully read response. OnError
// fires on transport-level failures only; HTTP error statuses reach
// AfterResponse like any other response.
type Plugin interface {
	Name() string
	BeforeRequest(ctx context.Context, req *http.Request) error
	AfterResponse(ctx context.Context, resp *Response) error
	OnError(ctx context.Context, err error)
}

// ============================================================================
// Header plugin
// ============================================================================

// HeaderPlugin sets fixed headers on every request, for API keys and
// similar ambient credentials.
type HeaderPlugin struct {
	headers map[string]string
}

// NewHeaderPlugin creates a plugin setting the given headers.
func NewHeaderPlugin(headers map[string]string) *HeaderPlugin {
	h := make(map[string]string, len(headers))
	for k, v := range headers {
		h[k] = v
	}
	return &HeaderPlugin{headers: h}
}

func (p *HeaderPlugin) Name() string { return "headers" }

func (p *HeaderPlugin) BeforeRequest(_ context.Context, req *http.Request) error {
	for k, v := range p.headers {
		req.Header.Set(k, v)
	}
	return nil
}

func (p *HeaderPlugin) AfterResponse(context.Context, *Response) error { return nil }

func (p *HeaderPlugin) OnError(context.Context, error) {}

// ============================================================================
// Logging plugin
// ============================================================================

// LoggingPlugin logs requests, responses, and transport errors.
type LoggingPlugin struct {
	logger *slog.Logger
}

// NewLoggingPlugin creates a logging plugin. A nil logger uses
// slog.Default().
func NewLoggingPlugin(logger *slog.Logger) *LoggingPlugin {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingPlugin{logger: logger}
}

func (p *LoggingPlugin) Name() string { return "logging" }

func (p *LoggingPlugin) BeforeRequest(_ context.Context, req *http.Request) error {
	p.logger.Debug("http request",
		"method", req.Method,
		"url", req.URL.String())
	return nil
}

func (p *LoggingPlugin) AfterResponse(_ context.Context, resp *Response) error {
	p.logger.Debug("http response",
		"status", resp.StatusCode,
		"bytes", len(resp.Body))
	return nil
}

func (p *LoggingPlugin) OnError(_ context.Context, err error) {
	p.logger.Warn("http transport error", "error", err)
}

// ============================================================================
// Rate-limit plugin
// ============================================================================

// RateLimitPlugin throttles outgoing requests with a token bucket.
// BeforeRequest blocks until a token is available or the context is
// canceled.
type RateLimitPlugin struct {
	limiter *rate.Limiter
}

// NewRateLimitPlugin creates a plugin allowing rps requests per second
// with the given burst.
func NewRateLimitPlugin(rps float64, burst int) *RateLimitPlugin {
	return &RateLimitPlugin{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (p *RateLimitPlugin) Name() string { return "ratelimit" }

func (p *RateLimitPlugin) BeforeRequest(ctx context.Context, _ *http.Request) error {
	return p.limiter.Wait(ctx)
}

func (p *RateLimitPlugin) AfterResponse(context.Context, *Response) error { return nil }

func (p *RateLimitPlugin) OnError(context.Context, error) {}
