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

package gateway_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/retr0h/gateway/internal/audit"
	"github.com/retr0h/gateway/internal/authtoken"
	"github.com/retr0h/gateway/internal/cache"
	"github.com/retr0h/gateway/internal/config"
	"github.com/retr0h/gateway/internal/gateway"
	"github.com/retr0h/gateway/internal/ratelimit"
)

const testSigningKey = "test-signing-key"

// capturePublisher collects published events for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []audit.Event
}

func (p *capturePublisher) Publish(event audit.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturePublisher) Close() {}

func (p *capturePublisher) all() []audit.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]audit.Event(nil), p.events...)
}

// failingLimitStore fails every admission check.
type failingLimitStore struct{}

func (failingLimitStore) TokenBucket(
	_ context.Context,
	_ string,
	_ float64,
	_ float64,
	_ time.Time,
) (*ratelimit.Decision, error) {
	return nil, fmt.Errorf("store unavailable")
}

func (failingLimitStore) FixedWindow(
	_ context.Context,
	_ string,
	_ int,
	_ time.Duration,
) (*ratelimit.Decision, error) {
	return nil, fmt.Errorf("store unavailable")
}

// failingCacheStore fails every lookup and save.
type failingCacheStore struct{}

func (failingCacheStore) Lookup(
	_ context.Context,
	_ string,
) (*cache.Entry, error) {
	return nil, fmt.Errorf("store unavailable")
}

func (failingCacheStore) Save(
	_ context.Context,
	_ string,
	_ cache.Entry,
) error {
	return fmt.Errorf("store unavailable")
}

type ServerPublicTestSuite struct {
	suite.Suite

	backend     *httptest.Server
	backendHits atomic.Int64
	backendPath atomic.Value
	backendUser atomic.Value

	publisher *capturePublisher
}

func (s *ServerPublicTestSuite) SetupTest() {
	s.backendHits.Store(0)
	s.backendPath.Store("")
	s.backendUser.Store("")
	s.publisher = &capturePublisher{}

	s.backend = httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			s.backendHits.Add(1)
			s.backendPath.Store(r.URL.RequestURI())
			s.backendUser.Store(r.Header.Get("x-user-id"))

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"data":"from-backend"}`))
		},
	))
}

func (s *ServerPublicTestSuite) TearDownTest() {
	s.backend.Close()
}

type serverParams struct {
	routes         []config.ServiceRoute
	bucketCapacity float64
	windowLimit    int
	backendTimeout string
	limitStore     ratelimit.Store
	cacheStore     cache.Store
}

func (s *ServerPublicTestSuite) newServer(
	params serverParams,
) *gateway.Server {
	if params.bucketCapacity == 0 {
		params.bucketCapacity = 100
	}
	if params.windowLimit == 0 {
		params.windowLimit = 100
	}
	if params.backendTimeout == "" {
		params.backendTimeout = "5s"
	}

	cfg := config.Config{
		Gateway: config.Gateway{
			Port: 3000,
			Security: config.Security{
				SigningKey: testSigningKey,
			},
			Routes:         params.routes,
			BackendTimeout: params.backendTimeout,
		},
	}

	limitStore := params.limitStore
	if limitStore == nil {
		limitStore = ratelimit.NewInMemoryStore()
	}
	cacheStore := params.cacheStore
	if cacheStore == nil {
		cacheStore = cache.NewInMemoryStore(time.Minute)
	}

	srv := gateway.New(
		cfg,
		slog.Default(),
		gateway.WithLimiters(
			ratelimit.NewWindowLimiter(limitStore, params.windowLimit, time.Minute),
			ratelimit.NewBucketLimiter(limitStore, params.bucketCapacity, 1),
		),
		gateway.WithCacheStore(cacheStore),
		gateway.WithPublisher(s.publisher),
	)
	s.Require().NoError(srv.RegisterRoutes())

	return srv
}

func (s *ServerPublicTestSuite) token(
	subject string,
) string {
	token, err := authtoken.New(slog.Default()).
		Generate(testSigningKey, subject, "user", time.Hour)
	s.Require().NoError(err)
	return token
}

func (s *ServerPublicTestSuite) do(
	srv *gateway.Server,
	req *http.Request,
) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, req)
	return rec
}

func (s *ServerPublicTestSuite) TestProxyForwardsToBackend() {
	srv := s.newServer(serverParams{
		routes: []config.ServiceRoute{
			{Prefix: "/api/data", Target: s.backend.URL, StripPrefix: true},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/data/items?page=2", nil)
	rec := s.do(srv, req)

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"data":"from-backend"}`, rec.Body.String())
	s.Equal("/items?page=2", s.backendPath.Load())
}

func (s *ServerPublicTestSuite) TestProxyKeepsPrefixWhenConfigured() {
	srv := s.newServer(serverParams{
		routes: []config.ServiceRoute{
			{Prefix: "/api/data", Target: s.backend.URL, StripPrefix: false},
		},
	})

	rec := s.do(srv, httptest.NewRequest(http.MethodGet, "/api/data/items", nil))

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("/api/data/items", s.backendPath.Load())
}

func (s *ServerPublicTestSuite) TestProxyStripsClientIdentityHeader() {
	srv := s.newServer(serverParams{
		routes: []config.ServiceRoute{
			{Prefix: "/api/data", Target: s.backend.URL},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	req.Header.Set("x-user-id", "spoofed-identity")
	rec := s.do(srv, req)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("", s.backendUser.Load())
}

func (s *ServerPublicTestSuite) TestProtectedRouteRequiresToken() {
	srv := s.newServer(serverParams{
		routes: []config.ServiceRoute{
			{Prefix: "/api/users", Target: s.backend.URL, Protected: true},
		},
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "Unauthenticated",
		},
		{
			name:       "not a bearer scheme",
			authHeader: "Basic abc123",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "Unauthenticated",
		},
		{
			name:       "garbage token",
			authHeader: "Bearer not-a-jwt",
			wantStatus: http.StatusForbidden,
			wantCode:   "InvalidCredential",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := s.do(srv, req)

			s.Equal(tt.wantStatus, rec.Code)

			var body gateway.ErrorResponse
			s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
			s.Equal(tt.wantCode, body.Error)
		})
	}

	s.Equal(int64(0), s.backendHits.Load())
}

func (s *ServerPublicTestSuite) TestProtectedRouteInjectsVerifiedIdentity() {
	srv := s.newServer(serverParams{
		routes: []config.ServiceRoute{
			{Prefix: "/api/users", Target: s.backend.URL, Protected: true},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	req.Header.Set("Authorization", "Bearer "+s.token("user-42"))
	// A spoofed inbound identity must lose to the verified one.
	req.Header.Set("x-user-id", "spoofed-identity")
	rec := s.do(srv, req)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("user-42", s.backendUser.Load())
}

func (s *ServerPublicTestSuite) TestCacheMissThenHit() {
	srv := s.newServer(serverParams{
		routes: []config.ServiceRoute{
			{Prefix: "/api/data", Target: s.backend.URL, Cacheable: true},
		},
	})

	first := s.do(srv, httptest.NewRequest(http.MethodGet, "/api/data/items", nil))
	s.Equal(http.StatusOK, first.Code)
	s.Equal("MISS", first.Header().Get("X-Cache"))

	second := s.do(srv, httptest.NewRequest(http.MethodGet, "/api/data/items", nil))
	s.Equal(http.StatusOK, second.Code)
	s.Equal("HIT", second.Header().Get("X-Cache"))
	s.JSONEq(`{"data":"from-backend"}`, second.Body.String())

	// The hit never reached the backend.
	s.Equal(int64(1), s.backendHits.Load())
}

func (s *ServerPublicTestSuite) TestCacheScopedPerCaller() {
	srv := s.newServer(serverParams{
		routes: []config.ServiceRoute{
			{Prefix: "/api/users", Target: s.backend.URL, Protected: true, Cacheable: true},
		},
	})

	reqA := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	reqA.Header.Set("Authorization", "Bearer "+s.token("user-a"))
	s.Equal("MISS", s.do(srv, reqA).Header().Get("X-Cache"))

	// A different caller never sees another caller's entry.
	reqB := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	reqB.Header.Set("Authorization", "Bearer "+s.token("user-b"))
	s.Equal("MISS", s.do(srv, reqB).Header().Get("X-Cache"))

	reqA2 := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	reqA2.Header.Set("Authorization", "Bearer "+s.token("user-a"))
	s.Equal("HIT", s.do(srv, reqA2).Header().Get("X-Cache"))
}

func (s *ServerPublicTestSuite) TestCacheBypassedForNonGET() {
	srv := s.newServer(serverParams{
		routes: []config.ServiceRoute{
			{Prefix: "/api/data", Target: s.backend.URL, Cacheable: true},
		},
	})

	rec := s.do(srv, httptest.NewRequest(http.MethodPost, "/api/data/items", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.Empty(rec.Header().Get("X-Cache"))

	// The POST stored nothing; a following GET is a miss.
	get := s.do(srv, httptest.NewRequest(http.MethodGet, "/api/data/items", nil))
	s.Equal("MISS", get.Header().Get("X-Cache"))
}

func (s *ServerPublicTestSuite) TestBucketLimiterRejectsWhenEmpty() {
	srv := s.newServer(serverParams{
		routes: []config.ServiceRoute{
			{Prefix: "/api/data", Target: s.backend.URL},
		},
		bucketCapacity: 2,
	})

	first := s.do(srv, httptest.NewRequest(http.MethodGet, "/api/data", nil))
	s.Equal(http.StatusOK, first.Code)
	s.Equal("1", first.Header().Get("X-Tokens-Remaining"))

	second := s.do(srv, httptest.NewRequest(http.MethodGet, "/api/data", nil))
	s.Equal(http.StatusOK, second.Code)
	s.Equal("0", second.Header().Get("X-Tokens-Remaining"))

	third := s.do(srv, httptest.NewRequest(http.MethodGet, "/api/data", nil))
	s.Equal(http.StatusTooManyRequests, third.Code)

	var body gateway.ErrorResponse
	s.Require().NoError(json.Unmarshal(third.Body.Bytes(), &body))
	s.Equal("RateLimited", body.Error)
	s.Equal(int64(2), s.backendHits.Load())
}

func (s *ServerPublicTestSuite) TestWindowLimiterRejectsAndSetsHeaders() {
	srv := s.newServer(serverParams{
		routes: []config.ServiceRoute{
			{Prefix: "/api/data", Target: s.backend.URL},
		},
		windowLimit: 2,
	})

	first := s.do(srv, httptest.NewRequest(http.MethodGet, "/api/data", nil))
	s.Equal(http.StatusOK, first.Code)
	s.Equal("2", first.Header().Get("RateLimit-Limit"))
	s.Equal("1", first.Header().Get("RateLimit-Remaining"))

	second := s.do(srv, httptest.NewRequest(http.MethodGet, "/api/data", nil))
	s.Equal(http.StatusOK, second.Code)
	s.Equal("0", second.Header().Get("RateLimit-Remaining"))

	third := s.do(srv, httptest.NewRequest(http.MethodGet, "/api/data", nil))
	s.Equal(http.StatusTooManyRequests, third.Code)
	s.Equal("0", third.Header().Get("RateLimit-Remaining"))
	s.NotEmpty(third.Header().Get("RateLimit-Reset"))
}

func (s *ServerPublicTestSuite) TestLimiterStoreFailureAdmitsRequest() {
	srv := s.newServer(serverParams{
		routes: []config.ServiceRoute{
			{Prefix: "/api/data", Target: s.backend.URL},
		},
		limitStore: failingLimitStore{},
	})

	rec := s.do(srv, httptest.NewRequest(http.MethodGet, "/api/data", nil))

	// Both limiter layers fail open; the outage never surfaces as a 5xx.
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"data":"from-backend"}`, rec.Body.String())
	s.Equal(int64(1), s.backendHits.Load())
	s.Empty(rec.Header().Get("X-Tokens-Remaining"))
	s.Empty(rec.Header().Get("RateLimit-Limit"))
}

func (s *ServerPublicTestSuite) TestCacheStoreFailureFailsOpen() {
	srv := s.newServer(serverParams{
		routes: []config.ServiceRoute{
			{Prefix: "/api/data", Target: s.backend.URL, Cacheable: true},
		},
		cacheStore: failingCacheStore{},
	})

	first := s.do(srv, httptest.NewRequest(http.MethodGet, "/api/data/items", nil))
	s.Equal(http.StatusOK, first.Code)
	s.Equal("MISS", first.Header().Get("X-Cache"))
	s.JSONEq(`{"data":"from-backend"}`, first.Body.String())

	// The failed save is swallowed; the next request is another miss that
	// still reaches the backend.
	second := s.do(srv, httptest.NewRequest(http.MethodGet, "/api/data/items", nil))
	s.Equal(http.StatusOK, second.Code)
	s.Equal("MISS", second.Header().Get("X-Cache"))
	s.Equal(int64(2), s.backendHits.Load())
}

func (s *ServerPublicTestSuite) TestBackendUnreachableReturns502() {
	srv := s.newServer(serverParams{
		routes: []config.ServiceRoute{
			// Nothing listens here.
			{Prefix: "/api/down", Target: "http://127.0.0.1:1"},
		},
	})

	rec := s.do(srv, httptest.NewRequest(http.MethodGet, "/api/down", nil))

	s.Equal(http.StatusBadGateway, rec.Code)

	var body gateway.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("BackendUnreachable", body.Error)
}

func (s *ServerPublicTestSuite) TestBackendTimeoutReturns504() {
	slow := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
			}
		},
	))
	defer slow.Close()

	srv := s.newServer(serverParams{
		routes: []config.ServiceRoute{
			{Prefix: "/api/slow", Target: slow.URL},
		},
		backendTimeout: "50ms",
	})

	rec := s.do(srv, httptest.NewRequest(http.MethodGet, "/api/slow", nil))

	s.Equal(http.StatusGatewayTimeout, rec.Code)

	var body gateway.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("BackendTimeout", body.Error)
}

func (s *ServerPublicTestSuite) TestAuditEventPerRequest() {
	srv := s.newServer(serverParams{
		routes: []config.ServiceRoute{
			{Prefix: "/api/users", Target: s.backend.URL, Protected: true, Cacheable: true},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users/profile?tab=settings", nil)
	req.Header.Set("Authorization", "Bearer "+s.token("user-42"))
	s.do(srv, req)

	events := s.publisher.all()
	s.Require().Len(events, 1)

	event := events[0]
	s.NotEmpty(event.ID)
	s.Equal(audit.EventUserProfileAccess, event.Type)
	s.Equal("user-42", event.Subject)
	s.Equal(http.MethodGet, event.Method)
	s.Equal("/api/users/profile?tab=settings", event.Path)
	s.Equal(http.StatusOK, event.Status)
	s.Equal("MISS", event.CacheStatus)
	s.False(event.RateLimited)
}

func (s *ServerPublicTestSuite) TestAuditEventMarksRateLimited() {
	srv := s.newServer(serverParams{
		routes: []config.ServiceRoute{
			{Prefix: "/api/data", Target: s.backend.URL},
		},
		bucketCapacity: 1,
	})

	s.do(srv, httptest.NewRequest(http.MethodGet, "/api/data", nil))
	s.do(srv, httptest.NewRequest(http.MethodGet, "/api/data", nil))

	events := s.publisher.all()
	s.Require().Len(events, 2)
	s.False(events[0].RateLimited)
	s.True(events[1].RateLimited)
	s.Equal(http.StatusTooManyRequests, events[1].Status)
	s.Equal("NONE", events[1].CacheStatus)
}

func (s *ServerPublicTestSuite) TestAuditEventRecordsNotFoundStatus() {
	srv := s.newServer(serverParams{
		routes: []config.ServiceRoute{
			{Prefix: "/api/data", Target: s.backend.URL},
		},
	})

	rec := s.do(srv, httptest.NewRequest(http.MethodGet, "/nope", nil))
	s.Equal(http.StatusNotFound, rec.Code)

	events := s.publisher.all()
	s.Require().Len(events, 1)
	s.Equal(http.StatusNotFound, events[0].Status)
}

func (s *ServerPublicTestSuite) TestHealthSkipsAudit() {
	srv := s.newServer(serverParams{
		routes: []config.ServiceRoute{
			{Prefix: "/api/data", Target: s.backend.URL},
		},
	})

	rec := s.do(srv, httptest.NewRequest(http.MethodGet, "/health", nil))

	s.Equal(http.StatusOK, rec.Code)
	s.Empty(s.publisher.all())
}

func TestServerPublicTestSuite(t *testing.T) {
	suite.Run(t, new(ServerPublicTestSuite))
}
