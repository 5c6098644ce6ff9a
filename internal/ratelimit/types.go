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

// Package ratelimit decides request admission against per-caller budgets
// held in a shared store. Two independent layers are provided: a
// continuously refilling token bucket and a fixed-window counter. Each
// layer has its own key space; either can reject.
package ratelimit

import (
	"context"
	"time"
)

// Key namespaces in the shared store.
const (
	bucketKeyPrefix = "token_bucket:"
	windowKeyPrefix = "rate_window:"
)

// Decision is the outcome of a single admission check.
type Decision struct {
	// Allowed reports whether the request was admitted.
	Allowed bool
	// Remaining is the budget left after this decision. For the token
	// bucket this is the fractional token count; for the fixed window the
	// remaining request count.
	Remaining float64
	// Limit is the configured ceiling for the layer that produced this
	// decision.
	Limit float64
	// ResetAfter is how long until the budget refreshes. Zero when the
	// layer does not track a reset horizon.
	ResetAfter time.Duration
}

// Store executes admission checks atomically per key against the shared
// store. Both operations are single read-modify-write transactions; callers
// never observe or produce intermediate state.
type Store interface {
	// TokenBucket refills the bucket at key by elapsed*refillPerSecond
	// (capped at capacity), consumes one token when at least one is
	// available, and persists the refreshed state.
	TokenBucket(
		ctx context.Context,
		key string,
		capacity float64,
		refillPerSecond float64,
		now time.Time,
	) (*Decision, error)

	// FixedWindow increments the counter at key, starting a new window of
	// the given duration when none is active, and admits while the count
	// is within limit.
	FixedWindow(
		ctx context.Context,
		key string,
		limit int,
		window time.Duration,
	) (*Decision, error)
}
