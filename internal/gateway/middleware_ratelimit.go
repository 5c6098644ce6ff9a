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
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response headers describing the caller's remaining budget.
const (
	headerTokensRemaining    = "X-Tokens-Remaining"
	headerRateLimitLimit     = "RateLimit-Limit"
	headerRateLimitRemaining = "RateLimit-Remaining"
	headerRateLimitReset     = "RateLimit-Reset"
)

// windowLimitMiddleware counts every request against the caller's fixed
// window and rejects with 429 once the window budget is spent. Standard
// RateLimit headers are set on admitted and rejected responses alike. A
// store failure admits the request; the shared store going down must not
// take the request path with it.
func (s *Server) windowLimitMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision, err := s.windowLimiter.Allow(
				c.Request().Context(),
				s.callerKey(c),
			)
			if err != nil {
				s.logger.Warn(
					"window limiter store failure, admitting request",
					slog.String("error", err.Error()),
				)
				return next(c)
			}

			h := c.Response().Header()
			h.Set(headerRateLimitLimit, fmt.Sprintf("%d", int(decision.Limit)))
			h.Set(headerRateLimitRemaining, fmt.Sprintf("%d", int(decision.Remaining)))
			h.Set(headerRateLimitReset, fmt.Sprintf("%d", int(decision.ResetAfter.Seconds())))

			if !decision.Allowed {
				c.Set(ContextKeyRateLimited, true)
				return errorJSON(
					c,
					http.StatusTooManyRequests,
					ErrCodeRateLimited,
					"Too many requests, please try again later.",
				)
			}

			return next(c)
		}
	}
}

// bucketLimitMiddleware consumes one token from the caller's bucket and
// rejects with 429 when the bucket is empty. Admitted responses carry the
// remaining whole-token count. Store failures admit, same as the window
// layer.
func (s *Server) bucketLimitMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision, err := s.bucketLimiter.Allow(
				c.Request().Context(),
				s.callerKey(c),
			)
			if err != nil {
				s.logger.Warn(
					"bucket limiter store failure, admitting request",
					slog.String("error", err.Error()),
				)
				return next(c)
			}

			if !decision.Allowed {
				c.Set(ContextKeyRateLimited, true)
				return errorJSON(
					c,
					http.StatusTooManyRequests,
					ErrCodeRateLimited,
					"Rate limit exceeded, slow down.",
				)
			}

			c.Response().Header().Set(
				headerTokensRemaining,
				fmt.Sprintf("%d", int(math.Floor(decision.Remaining))),
			)

			return next(c)
		}
	}
}

// callerKey derives the limiter key for this request. Both limiter layers
// share the scheme but not the key space.
func (s *Server) callerKey(
	c echo.Context,
) string {
	// Only "ip" keying is implemented; see config.RateLimit.KeyBy.
	return c.RealIP()
}
