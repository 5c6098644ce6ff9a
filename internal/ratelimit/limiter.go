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
	"time"
)

// BucketLimiter admits requests from a per-caller token bucket that refills
// continuously over time.
type BucketLimiter struct {
	store           Store
	capacity        float64
	refillPerSecond float64

	// nowFn is replaceable in tests.
	nowFn func() time.Time
}

// NewBucketLimiter creates a new BucketLimiter.
func NewBucketLimiter(
	store Store,
	capacity float64,
	refillPerSecond float64,
) *BucketLimiter {
	return &BucketLimiter{
		store:           store,
		capacity:        capacity,
		refillPerSecond: refillPerSecond,
		nowFn:           time.Now,
	}
}

// Allow checks and consumes one token for the caller. The caller key scheme
// must stay consistent for the life of a session; switching schemes resets
// the budget.
func (l *BucketLimiter) Allow(
	ctx context.Context,
	callerKey string,
) (*Decision, error) {
	return l.store.TokenBucket(
		ctx,
		bucketKeyPrefix+callerKey,
		l.capacity,
		l.refillPerSecond,
		l.nowFn(),
	)
}

// WindowLimiter admits a fixed number of requests per caller per window.
type WindowLimiter struct {
	store  Store
	limit  int
	window time.Duration
}

// NewWindowLimiter creates a new WindowLimiter.
func NewWindowLimiter(
	store Store,
	limit int,
	window time.Duration,
) *WindowLimiter {
	return &WindowLimiter{
		store:  store,
		limit:  limit,
		window: window,
	}
}

// Allow counts this request against the caller's current window.
func (l *WindowLimiter) Allow(
	ctx context.Context,
	callerKey string,
) (*Decision, error) {
	return l.store.FixedWindow(
		ctx,
		windowKeyPrefix+callerKey,
		l.limit,
		l.window,
	)
}
