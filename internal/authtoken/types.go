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

// Package authtoken issues and validates gateway bearer tokens.
package authtoken

import (
	"log/slog"

	"github.com/golang-jwt/jwt/v4"
)

// CustomClaims are the claims carried by gateway-issued tokens. The subject
// is the caller identity propagated downstream as x-user-id.
type CustomClaims struct {
	// Role is an informational role name carried by the token.
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Token manages signing and validation of bearer tokens.
type Token struct {
	logger *slog.Logger
}

// New creates a new Token manager.
func New(
	logger *slog.Logger,
) *Token {
	return &Token{
		logger: logger,
	}
}
