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
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/retr0h/gateway/internal/audit"
)

// auditListResponse is the paginated admin listing of recorded events.
type auditListResponse struct {
	TotalItems int           `json:"total_items"`
	Items      []audit.Event `json:"items"`
}

// handleAuditList returns recorded audit events, newest first.
func (s *Server) handleAuditList(
	c echo.Context,
) error {
	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "limit must be a positive integer",
			})
		}
		limit = parsed
	}

	offset := 0
	if raw := c.QueryParam("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "offset must be a non-negative integer",
			})
		}
		offset = parsed
	}

	events, total, err := s.recorder.List(c.Request().Context(), limit, offset)
	if err != nil {
		s.logger.Error(
			"failed to list audit events",
			slog.String("error", err.Error()),
		)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to list audit events",
		})
	}

	return c.JSON(http.StatusOK, auditListResponse{
		TotalItems: total,
		Items:      events,
	})
}

// handleAuditGet returns one recorded audit event by ID.
func (s *Server) handleAuditGet(
	c echo.Context,
) error {
	id := c.Param("id")

	event, err := s.recorder.Get(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "audit event not found",
		})
	}

	return c.JSON(http.StatusOK, event)
}
