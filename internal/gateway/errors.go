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
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Stable error codes returned by the gateway itself. Backend errors pass
// through with whatever body the backend produced.
const (
	ErrCodeUnauthenticated    = "Unauthenticated"
	ErrCodeInvalidCredential  = "InvalidCredential"
	ErrCodeRateLimited        = "RateLimited"
	ErrCodeBackendUnreachable = "BackendUnreachable"
	ErrCodeBackendTimeout     = "BackendTimeout"
)

// ErrorResponse is the JSON body for every gateway-generated error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// errorJSON writes a gateway error body on an echo context.
func errorJSON(
	c echo.Context,
	status int,
	code string,
	message string,
) error {
	return c.JSON(status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// writeErrorJSON writes a gateway error body directly to a ResponseWriter,
// for paths outside echo's handler chain such as the proxy error handler.
func writeErrorJSON(
	w http.ResponseWriter,
	status int,
	code string,
	message string,
) {
	w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   code,
		Message: message,
	})
}
