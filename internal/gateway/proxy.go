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
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/retr0h/gateway/internal/config"
)

// newProxyHandler builds the terminal pipeline stage for one route: a
// single-host reverse proxy to the route's backend. The handler strips any
// inbound identity header, injects the verified subject, and bounds the
// round trip with the configured backend timeout.
func (s *Server) newProxyHandler(
	route config.ServiceRoute,
	backendTimeout time.Duration,
) (echo.HandlerFunc, error) {
	target, err := url.Parse(route.Target)
	if err != nil {
		return nil, fmt.Errorf("parse route target %q: %w", route.Target, err)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)

	director := proxy.Director
	proxy.Director = func(req *http.Request) {
		director(req)
		if route.StripPrefix {
			req.URL.Path = strings.TrimPrefix(req.URL.Path, route.Prefix)
			if req.URL.Path == "" {
				req.URL.Path = "/"
			}
		}
		req.Host = target.Host
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		if errors.Is(err, context.DeadlineExceeded) ||
			errors.Is(r.Context().Err(), context.DeadlineExceeded) {
			s.logger.Warn(
				"backend timed out",
				slog.String("target", route.Target),
				slog.String("path", r.URL.Path),
			)
			writeErrorJSON(
				w,
				http.StatusGatewayTimeout,
				ErrCodeBackendTimeout,
				"The backend service did not respond in time.",
			)
			return
		}

		s.logger.Warn(
			"backend unreachable",
			slog.String("target", route.Target),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeErrorJSON(
			w,
			http.StatusBadGateway,
			ErrCodeBackendUnreachable,
			"The backend service is unavailable.",
		)
	}

	return func(c echo.Context) error {
		req := c.Request()

		// Identity is asserted by the gateway alone.
		req.Header.Del(identityHeader)
		if subject, ok := c.Get(ContextKeySubject).(string); ok && subject != "" {
			req.Header.Set(identityHeader, subject)
		}

		ctx, cancel := context.WithTimeout(req.Context(), backendTimeout)
		defer cancel()

		proxy.ServeHTTP(c.Response(), req.WithContext(ctx))

		return nil
	}, nil
}
