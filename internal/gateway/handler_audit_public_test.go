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
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/retr0h/gateway/internal/audit"
	"github.com/retr0h/gateway/internal/authtoken"
	"github.com/retr0h/gateway/internal/config"
	"github.com/retr0h/gateway/internal/gateway"
)

// fakeRecorder serves canned audit records.
type fakeRecorder struct {
	events []audit.Event
}

func (r *fakeRecorder) Write(
	_ context.Context,
	event audit.Event,
) error {
	r.events = append(r.events, event)
	return nil
}

func (r *fakeRecorder) Get(
	_ context.Context,
	id string,
) (*audit.Event, error) {
	for i := range r.events {
		if r.events[i].ID == id {
			return &r.events[i], nil
		}
	}
	return nil, fmt.Errorf("key not found")
}

func (r *fakeRecorder) List(
	_ context.Context,
	limit int,
	offset int,
) ([]audit.Event, int, error) {
	total := len(r.events)
	if offset >= total {
		return []audit.Event{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return r.events[offset:end], total, nil
}

type AuditHandlerPublicTestSuite struct {
	suite.Suite

	recorder *fakeRecorder
	srv      *gateway.Server
}

func (s *AuditHandlerPublicTestSuite) SetupTest() {
	s.recorder = &fakeRecorder{
		events: []audit.Event{
			{
				ID:        "event-1",
				Type:      audit.EventHTTPRequest,
				Subject:   "user-42",
				Method:    "GET",
				Path:      "/api/data",
				Status:    200,
				Timestamp: time.Now(),
			},
			{
				ID:        "event-2",
				Type:      audit.EventUserProfileAccess,
				Subject:   "user-42",
				Method:    "GET",
				Path:      "/api/users/profile",
				Status:    200,
				Timestamp: time.Now(),
			},
		},
	}

	cfg := config.Config{
		Gateway: config.Gateway{
			Port: 3000,
			Security: config.Security{
				SigningKey: testSigningKey,
			},
		},
	}

	s.srv = gateway.New(
		cfg,
		slog.Default(),
		gateway.WithRecorder(s.recorder),
	)
	s.Require().NoError(s.srv.RegisterRoutes())
}

func (s *AuditHandlerPublicTestSuite) adminRequest(
	target string,
) *httptest.ResponseRecorder {
	token, err := authtoken.New(slog.Default()).
		Generate(testSigningKey, "admin-user", "admin", time.Hour)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	s.srv.Echo.ServeHTTP(rec, req)
	return rec
}

func (s *AuditHandlerPublicTestSuite) TestListRequiresAuth() {
	req := httptest.NewRequest(http.MethodGet, "/admin/audit", nil)
	rec := httptest.NewRecorder()
	s.srv.Echo.ServeHTTP(rec, req)

	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *AuditHandlerPublicTestSuite) TestList() {
	rec := s.adminRequest("/admin/audit")

	s.Equal(http.StatusOK, rec.Code)

	var body struct {
		TotalItems int           `json:"total_items"`
		Items      []audit.Event `json:"items"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(2, body.TotalItems)
	s.Len(body.Items, 2)
	s.Equal("event-1", body.Items[0].ID)
}

func (s *AuditHandlerPublicTestSuite) TestListPaginates() {
	rec := s.adminRequest("/admin/audit?limit=1&offset=1")

	s.Equal(http.StatusOK, rec.Code)

	var body struct {
		TotalItems int           `json:"total_items"`
		Items      []audit.Event `json:"items"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(2, body.TotalItems)
	s.Require().Len(body.Items, 1)
	s.Equal("event-2", body.Items[0].ID)
}

func (s *AuditHandlerPublicTestSuite) TestListRejectsBadParams() {
	rec := s.adminRequest("/admin/audit?limit=zero")

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *AuditHandlerPublicTestSuite) TestGet() {
	rec := s.adminRequest("/admin/audit/event-2")

	s.Equal(http.StatusOK, rec.Code)

	var event audit.Event
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &event))
	s.Equal("event-2", event.ID)
	s.Equal(audit.EventUserProfileAccess, event.Type)
}

func (s *AuditHandlerPublicTestSuite) TestGetUnknownIs404() {
	rec := s.adminRequest("/admin/audit/missing")

	s.Equal(http.StatusNotFound, rec.Code)
}

func TestAuditHandlerPublicTestSuite(t *testing.T) {
	suite.Run(t, new(AuditHandlerPublicTestSuite))
}
