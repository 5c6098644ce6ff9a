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
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// authMiddleware establishes caller identity from the Authorization header.
// A missing or malformed header is 401; a present token that fails
// validation is 403. Verification is stateless, so a valid token is valid
// on any gateway instance.
func (s *Server) authMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				return errorJSON(
					c,
					http.StatusUnauthorized,
					ErrCodeUnauthenticated,
					"Bearer token required",
				)
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := s.tokenManager.Validate(
				tokenString,
				s.appConfig.Gateway.Security.SigningKey,
			)
			if err != nil {
				return errorJSON(
					c,
					http.StatusForbidden,
					ErrCodeInvalidCredential,
					"Invalid token: "+err.Error(),
				)
			}

			c.Set(ContextKeySubject, claims.Subject)

			return next(c)
		}
	}
}
