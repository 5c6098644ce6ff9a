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

// Package cache stores successful GET response bodies in the shared store,
// scoped per caller identity and request path. Entries expire on a fixed
// TTL; there is no invalidation path, so writes to backend data are visible
// only after the staleness window bounded by the TTL.
package cache

import "context"

// PublicScope is the cache scope used when no verified identity is present.
const PublicScope = "public"

// Entry is one cached response. Body holds the raw bytes as delivered by
// the backend; they are replayed verbatim on a hit.
type Entry struct {
	Body        []byte `json:"body"`
	ContentType string `json:"content_type"`
}

// Store reads and writes cache entries. Callers treat every error as a
// miss; a store outage must never block or fail the request path.
type Store interface {
	// Lookup returns the entry for key, or nil when absent.
	Lookup(ctx context.Context, key string) (*Entry, error)
	// Save persists an entry under key for the store's configured TTL.
	Save(ctx context.Context, key string, entry Entry) error
}

// Key derives the store key for a scope and a request path including its
// query string. Distinct query strings are distinct entries.
func Key(
	scope string,
	pathWithQuery string,
) string {
	return "cache:" + scope + ":" + pathWithQuery
}
