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

package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/retr0h/gateway/internal/authtoken"
	"github.com/retr0h/gateway/internal/config"
)

// New initializes a new Server and configures an Echo server.
func New(
	appConfig config.Config,
	logger *slog.Logger,
	opts ...Option,
) *Server {
	e := echo.New()
	e.HideBanner = true

	corsConfig := middleware.CORSConfig{}
	if allowOrigins := appConfig.Gateway.Security.CORS.AllowOrigins; len(allowOrigins) > 0 {
		corsConfig.AllowOrigins = allowOrigins
	}

	e.Use(otelecho.Middleware("gateway"))
	e.Use(slogecho.New(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(corsConfig))

	s := &Server{
		Echo:         e,
		logger:       logger,
		appConfig:    appConfig,
		tokenManager: authtoken.New(logger),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.publisher != nil {
		e.Use(s.auditMiddleware())
	}

	return s
}

// RegisterRoutes wires the health, metrics, admin, and proxied service
// routes. Must be called once before Start.
func (s *Server) RegisterRoutes() error {
	s.Echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	if s.metricsHandler != nil {
		s.Echo.GET(s.metricsPath, echo.WrapHandler(s.metricsHandler))
	}

	if s.recorder != nil {
		admin := s.Echo.Group("/admin/audit", s.authMiddleware())
		admin.GET("", s.handleAuditList)
		admin.GET("/:id", s.handleAuditGet)
	}

	backendTimeout := config.DurationOr(
		s.appConfig.Gateway.BackendTimeout,
		10*time.Second,
	)

	for _, route := range s.appConfig.Gateway.Routes {
		handler, err := s.newProxyHandler(route, backendTimeout)
		if err != nil {
			return fmt.Errorf("register route %s: %w", route.Prefix, err)
		}

		mws := make([]echo.MiddlewareFunc, 0, 4)
		if s.windowLimiter != nil {
			mws = append(mws, s.windowLimitMiddleware())
		}
		if s.bucketLimiter != nil {
			mws = append(mws, s.bucketLimitMiddleware())
		}
		if route.Protected {
			mws = append(mws, s.authMiddleware())
		}
		if route.Cacheable && s.cacheStore != nil {
			mws = append(mws, s.cacheMiddleware())
		}

		g := s.Echo.Group(route.Prefix, mws...)
		g.Any("", handler)
		g.Any("/*", handler)
	}

	return nil
}

// Start starts the Echo server with the configured port.
func (s *Server) Start() {
	go func() {
		s.logger.Info("starting server")
		listenAddr := fmt.Sprintf(":%d", s.appConfig.Gateway.Port)
		if err := s.Echo.Start(listenAddr); err != nil && err != http.ErrServerClosed {
			s.logger.Error(
				"failed to start server",
				slog.String("error", err.Error()),
			)
		}
	}()
}

// Stop gracefully shuts down the Echo server.
func (s *Server) Stop(
	ctx context.Context,
) {
	s.logger.Info("stopping server")

	if err := s.Echo.Shutdown(ctx); err != nil {
		s.logger.Error(
			"server shutdown failed",
			slog.String("error", err.Error()),
		)
	} else {
		s.logger.Info("server stopped gracefully")
	}
}
