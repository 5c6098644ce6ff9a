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

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type CacheTestSuite struct {
	suite.Suite

	now time.Time
}

func (s *CacheTestSuite) SetupTest() {
	s.now = time.Unix(1_700_000_000, 0)
}

func (s *CacheTestSuite) newStore(
	ttl time.Duration,
) *InMemoryStore {
	store := NewInMemoryStore(ttl)
	store.nowFn = func() time.Time { return s.now }

	return store
}

func (s *CacheTestSuite) TestKey() {
	tests := []struct {
		name  string
		scope string
		path  string
		want  string
	}{
		{
			name:  "identity scope",
			scope: "123",
			path:  "/api/users/profile",
			want:  "cache:123:/api/users/profile",
		},
		{
			name:  "public scope",
			scope: PublicScope,
			path:  "/api/auth/health",
			want:  "cache:public:/api/auth/health",
		},
		{
			name:  "query string is part of the key",
			scope: "123",
			path:  "/api/users/profile?page=2",
			want:  "cache:123:/api/users/profile?page=2",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.want, Key(tt.scope, tt.path))
		})
	}
}

func (s *CacheTestSuite) TestLookupRoundTrip() {
	store := s.newStore(time.Minute)
	ctx := context.Background()

	body := []byte(`{"id":"123","name":"Soman"}`)
	err := store.Save(ctx, "cache:123:/profile", Entry{
		Body:        body,
		ContentType: "application/json",
	})
	s.Require().NoError(err)

	got, err := store.Lookup(ctx, "cache:123:/profile")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(body, got.Body)
	s.Equal("application/json", got.ContentType)
}

func (s *CacheTestSuite) TestLookupMiss() {
	store := s.newStore(time.Minute)

	got, err := store.Lookup(context.Background(), "cache:123:/missing")
	s.NoError(err)
	s.Nil(got)
}

func (s *CacheTestSuite) TestEntryExpires() {
	store := s.newStore(time.Minute)
	ctx := context.Background()

	err := store.Save(ctx, "cache:123:/profile", Entry{Body: []byte("x")})
	s.Require().NoError(err)

	s.now = s.now.Add(time.Minute)

	got, err := store.Lookup(ctx, "cache:123:/profile")
	s.NoError(err)
	s.Nil(got)
}

func TestCacheTestSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}
