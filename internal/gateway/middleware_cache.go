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
	"bytes"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retr0h/gateway/internal/cache"
)

// Cache status header and values, also carried on the audit event.
const (
	headerCache     = "X-Cache"
	cacheStatusHit  = "HIT"
	cacheStatusMiss = "MISS"
	cacheStatusNone = "NONE"
)

// bodyTee copies response bytes into a buffer as the downstream handler
// writes them, so a successful proxied body can be stored after the fact
// without buffering the client write.
type bodyTee struct {
	http.ResponseWriter

	status int
	buf    bytes.Buffer
}

func (t *bodyTee) WriteHeader(
	status int,
) {
	t.status = status
	t.ResponseWriter.WriteHeader(status)
}

func (t *bodyTee) Write(
	b []byte,
) (int, error) {
	if t.status == 0 {
		t.status = http.StatusOK
	}
	t.buf.Write(b)
	return t.ResponseWriter.Write(b)
}

// cacheMiddleware serves GET requests from the response cache, scoped to
// the verified caller or the shared public scope. A hit replays the stored
// bytes and skips the backend; a miss forwards and stores the response
// when the backend answered 2xx. Store failures degrade to a miss.
func (s *Server) cacheMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}

			scope := cache.PublicScope
			if subject, ok := c.Get(ContextKeySubject).(string); ok && subject != "" {
				scope = subject
			}
			key := cache.Key(scope, c.Request().URL.RequestURI())

			entry, err := s.cacheStore.Lookup(c.Request().Context(), key)
			if err != nil {
				s.logger.Warn(
					"cache lookup failure, treating as miss",
					slog.String("key", key),
					slog.String("error", err.Error()),
				)
			}

			if entry != nil {
				c.Set(ContextKeyCacheStatus, cacheStatusHit)
				c.Response().Header().Set(headerCache, cacheStatusHit)
				return c.Blob(http.StatusOK, entry.ContentType, entry.Body)
			}

			c.Set(ContextKeyCacheStatus, cacheStatusMiss)
			c.Response().Header().Set(headerCache, cacheStatusMiss)

			tee := &bodyTee{ResponseWriter: c.Response().Writer}
			c.Response().Writer = tee

			if err := next(c); err != nil {
				return err
			}

			// Only successful backend responses are worth replaying.
			if tee.status < http.StatusOK || tee.status >= http.StatusMultipleChoices {
				return nil
			}

			saveErr := s.cacheStore.Save(c.Request().Context(), key, cache.Entry{
				Body:        tee.buf.Bytes(),
				ContentType: c.Response().Header().Get(echo.HeaderContentType),
			})
			if saveErr != nil {
				s.logger.Warn(
					"cache save failure, skipping write",
					slog.String("key", key),
					slog.String("error", saveErr.Error()),
				)
			}

			return nil
		}
	}
}
