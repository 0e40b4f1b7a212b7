// Package httpclient provides a universal HTTP client for services
// embedding flexstore.
//
// The client wraps net/http with the request plumbing every flexstore
// consumer was rewriting by hand:
//
//   - client.go: base-URL-relative requests, JSON bodies, retry with backoff
//   - breaker.go: circuit breaker guarding a failing upstream
//   - plugin.go: request/response hooks and the built-in plugins
//
// Features:
//
//   - Automatic retry on transport errors and 5xx responses
//   - Exponential backoff between attempts, cancelable via context
//   - Circuit breaker with closed, open, and half-open states
//   - Plugin hooks before requests, after responses, and on errors
//   - Built-in rate-limit, header, and logging plugins
//   - Custom TLS roots for private certificate authorities
//
// HTTP status codes are data, not errors: a completed request returns
// a *Response whatever its status, and Response.Decode maps 4xx/5xx
// envelopes to errors when the caller wants that.
package httpclient
