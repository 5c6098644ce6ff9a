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

package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"
)

// ensure InMemoryStore implements Store at compile time.
var _ Store = (*InMemoryStore)(nil)

type bucketState struct {
	tokens     float64
	lastRefill int64 // unix seconds
}

type windowState struct {
	count   int
	resetAt time.Time
}

// InMemoryStore is a process-local Store with the same per-key atomicity
// guarantees as the Redis scripts, provided by a mutex instead of a
// store-side transaction. Used in tests and single-node development; all
// production deployments share state through Redis.
type InMemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucketState
	windows map[string]*windowState

	// nowFn is replaceable in tests; FixedWindow has no caller-supplied clock.
	nowFn func() time.Time
}

// NewInMemoryStore creates a new InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		buckets: make(map[string]*bucketState),
		windows: make(map[string]*windowState),
		nowFn:   time.Now,
	}
}

// TokenBucket implements Store.
func (s *InMemoryStore) TokenBucket(
	_ context.Context,
	key string,
	capacity float64,
	refillPerSecond float64,
	now time.Time,
) (*Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nowSec := now.Unix()

	b, ok := s.buckets[key]
	if !ok {
		b = &bucketState{tokens: capacity, lastRefill: nowSec}
		s.buckets[key] = b
	} else {
		elapsed := nowSec - b.lastRefill
		if elapsed < 0 {
			elapsed = 0
		}
		b.tokens = math.Min(capacity, b.tokens+float64(elapsed)*refillPerSecond)
		b.lastRefill = nowSec
	}

	allowed := false
	if b.tokens >= 1 {
		b.tokens--
		allowed = true
	}

	return &Decision{
		Allowed:   allowed,
		Remaining: b.tokens,
		Limit:     capacity,
	}, nil
}

// FixedWindow implements Store.
func (s *InMemoryStore) FixedWindow(
	_ context.Context,
	key string,
	limit int,
	window time.Duration,
) (*Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFn()

	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &windowState{count: 0, resetAt: now.Add(window)}
		s.windows[key] = w
	}

	if w.count < limit {
		w.count++

		return &Decision{
			Allowed:    true,
			Remaining:  float64(limit - w.count),
			Limit:      float64(limit),
			ResetAfter: w.resetAt.Sub(now),
		}, nil
	}

	return &Decision{
		Allowed:    false,
		Remaining:  0,
		Limit:      float64(limit),
		ResetAfter: w.resetAt.Sub(now),
	}, nil
}
