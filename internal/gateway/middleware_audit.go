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
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/retr0h/gateway/internal/audit"
)

// excludedAuditPaths lists path prefixes that should not generate audit
// events.
var excludedAuditPaths = []string{
	"/health",
	"/metrics",
}

// auditMiddleware emits exactly one audit event per request, after the
// response is written. Publishing is hand-off only; nothing on the audit
// side can delay or fail the response.
func (s *Server) auditMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			for _, prefix := range excludedAuditPaths {
				if strings.HasPrefix(path, prefix) {
					return next(c)
				}
			}

			start := time.Now()

			err := next(c)

			// An uncommitted error (e.g. a 404 from the router) has not been
			// written yet; take the status the error handler will write.
			status := c.Response().Status
			if err != nil && !c.Response().Committed {
				status = http.StatusInternalServerError
				var httpErr *echo.HTTPError
				if errors.As(err, &httpErr) {
					status = httpErr.Code
				}
			}

			subject, _ := c.Get(ContextKeySubject).(string)
			rateLimited, _ := c.Get(ContextKeyRateLimited).(bool)
			cacheStatus, _ := c.Get(ContextKeyCacheStatus).(string)
			if cacheStatus == "" {
				cacheStatus = cacheStatusNone
			}

			s.publisher.Publish(audit.Event{
				ID:          eventID(),
				Type:        eventTypeFor(path),
				Subject:     subject,
				Method:      c.Request().Method,
				Path:        c.Request().URL.RequestURI(),
				SourceIP:    c.RealIP(),
				Status:      status,
				DurationMs:  time.Since(start).Milliseconds(),
				CacheStatus: cacheStatus,
				RateLimited: rateLimited,
				Timestamp:   start,
			})

			return err
		}
	}
}

// eventID returns a time-ordered unique ID so recorded events sort by
// creation time.
func eventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// eventTypeFor classifies the request for the audit trail.
func eventTypeFor(
	path string,
) audit.EventType {
	if strings.HasSuffix(path, "/users/profile") {
		return audit.EventUserProfileAccess
	}
	return audit.EventHTTPRequest
}
