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
	"sync"
	"time"
)

// ensure InMemoryStore implements Store at compile time.
var _ Store = (*InMemoryStore)(nil)

type inMemoryEntry struct {
	entry     Entry
	expiresAt time.Time
}

// InMemoryStore is a process-local Store used in tests and single-node
// development. Expiry is checked lazily on lookup.
type InMemoryStore struct {
	mu      sync.Mutex
	entries map[string]inMemoryEntry
	ttl     time.Duration

	// nowFn is replaceable in tests.
	nowFn func() time.Time
}

// NewInMemoryStore creates a new InMemoryStore with a fixed entry TTL.
func NewInMemoryStore(
	ttl time.Duration,
) *InMemoryStore {
	return &InMemoryStore{
		entries: make(map[string]inMemoryEntry),
		ttl:     ttl,
		nowFn:   time.Now,
	}
}

// Lookup implements Store.
func (s *InMemoryStore) Lookup(
	_ context.Context,
	key string,
) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, nil
	}

	if !s.nowFn().Before(e.expiresAt) {
		delete(s.entries, key)
		return nil, nil
	}

	entry := e.entry

	return &entry, nil
}

// Save implements Store.
func (s *InMemoryStore) Save(
	_ context.Context,
	key string,
	entry Entry,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = inMemoryEntry{
		entry:     entry,
		expiresAt: s.nowFn().Add(s.ttl),
	}

	return nil
}
