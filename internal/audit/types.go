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

// Package audit provides the audit event model, the asynchronous queue
// publisher, the durable queue consumer, and event record storage.
package audit

import (
	"context"
	"time"
)

// EventType enumerates the actions that generate audit events.
type EventType string

// Known event types.
const (
	EventHTTPRequest       EventType = "HTTP_REQUEST"
	EventUserProfileAccess EventType = "USER_PROFILE_ACCESS"
)

// Event is an immutable record of one completed or in-flight action. The
// gateway serializes it onto the durable queue and retains no copy.
type Event struct {
	// ID is the unique identifier for this event.
	ID string `json:"id"`
	// Type classifies the action.
	Type EventType `json:"type"`
	// Subject is the verified caller identity, empty when anonymous.
	Subject string `json:"subject,omitempty"`
	// Method is the HTTP method.
	Method string `json:"method"`
	// Path is the request URL path including the query string.
	Path string `json:"path"`
	// SourceIP is the client's network origin address.
	SourceIP string `json:"source_ip"`
	// Status is the HTTP response status code.
	Status int `json:"status"`
	// DurationMs is the request processing time in milliseconds.
	DurationMs int64 `json:"duration_ms"`
	// CacheStatus is HIT, MISS, or NONE.
	CacheStatus string `json:"cache_status"`
	// RateLimited reports whether a limiter rejected the request.
	RateLimited bool `json:"rate_limited"`
	// Timestamp is when the request started.
	Timestamp time.Time `json:"timestamp"`
}

// Publisher hands events to the durable queue without ever blocking the
// caller. Delivery is at-least-once end to end; publish failures are logged
// and dropped, never surfaced to the request path.
type Publisher interface {
	// Publish enqueues an event for asynchronous delivery.
	Publish(event Event)
	// Close flushes buffered events and stops the publishing task.
	Close()
}

// Recorder durably records consumed events.
type Recorder interface {
	// Write persists an event record.
	Write(ctx context.Context, event Event) error
	// Get retrieves a single recorded event by ID.
	Get(ctx context.Context, id string) (*Event, error)
	// List retrieves recorded events with pagination, newest first,
	// returning the page and the total count.
	List(ctx context.Context, limit int, offset int) ([]Event, int, error)
}
