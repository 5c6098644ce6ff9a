// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

// Package gateway terminates client HTTP traffic and runs each request
// through the admission pipeline: fixed-window limiter, token-bucket
// limiter, identity verification, response cache, and finally the reverse
// proxy to the routed backend. Every request emits one audit event after
// its response is written.
package gateway

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retr0h/gateway/internal/audit"
	"github.com/retr0h/gateway/internal/authtoken"
	"github.com/retr0h/gateway/internal/cache"
	"github.com/retr0h/gateway/internal/config"
	"github.com/retr0h/gateway/internal/ratelimit"
)

// Context key constants for values handed between pipeline stages.
const (
	// ContextKeySubject holds the verified caller identity.
	ContextKeySubject = "auth.subject"
	// ContextKeyCacheStatus holds HIT, MISS, or NONE for the audit event.
	ContextKeyCacheStatus = "cache.status"
	// ContextKeyRateLimited marks requests a limiter rejected.
	ContextKeyRateLimited = "rate.limited"
)

// identityHeader carries the verified subject to the backend. Any inbound
// value is stripped before proxying so clients cannot assert an identity.
const identityHeader = "x-user-id"

// TokenValidator parses and validates JWT tokens.
type TokenValidator interface {
	Validate(
		tokenString string,
		signingKey string,
	) (*authtoken.CustomClaims, error)
}

// RequestLimiter admits or rejects one request for a caller key.
type RequestLimiter interface {
	Allow(
		ctx context.Context,
		callerKey string,
	) (*ratelimit.Decision, error)
}

// Server is the gateway HTTP server.
type Server struct {
	Echo      *echo.Echo
	logger    *slog.Logger
	appConfig config.Config

	tokenManager  TokenValidator
	windowLimiter RequestLimiter
	bucketLimiter RequestLimiter
	cacheStore    cache.Store
	publisher     audit.Publisher
	recorder      audit.Recorder

	metricsHandler http.Handler
	metricsPath    string
}

// Option configures optional Server collaborators.
type Option func(*Server)

// WithLimiters installs the fixed-window and token-bucket limiters.
func WithLimiters(
	window RequestLimiter,
	bucket RequestLimiter,
) Option {
	return func(s *Server) {
		s.windowLimiter = window
		s.bucketLimiter = bucket
	}
}

// WithCacheStore installs the response cache store.
func WithCacheStore(
	store cache.Store,
) Option {
	return func(s *Server) {
		s.cacheStore = store
	}
}

// WithPublisher installs the audit event publisher.
func WithPublisher(
	publisher audit.Publisher,
) Option {
	return func(s *Server) {
		s.publisher = publisher
	}
}

// WithRecorder installs the audit record reader backing the admin surface.
func WithRecorder(
	recorder audit.Recorder,
) Option {
	return func(s *Server) {
		s.recorder = recorder
	}
}

// WithMetricsHandler installs the Prometheus scrape endpoint.
func WithMetricsHandler(
	handler http.Handler,
	path string,
) Option {
	return func(s *Server) {
		s.metricsHandler = handler
		s.metricsPath = path
	}
}

// WithTokenValidator overrides the default token validator.
func WithTokenValidator(
	tokenManager TokenValidator,
) Option {
	return func(s *Server) {
		s.tokenManager = tokenManager
	}
}
