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

package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/retr0h/gateway/internal/messaging"
)

// ensure QueuePublisher implements Publisher at compile time.
var _ Publisher = (*QueuePublisher)(nil)

// defaultBufferSize bounds the in-process event buffer between the request
// path and the publishing task.
const defaultBufferSize = 256

// publishTimeout bounds a single JetStream publish attempt.
const publishTimeout = 5 * time.Second

// QueuePublisher delivers events to a JetStream subject from a bounded
// in-process buffer. A single background task drains the buffer, keeping
// queue-client latency off the request path even during transient queue
// slowness. When the buffer is full events are dropped and logged.
type QueuePublisher struct {
	queue   messaging.Queue
	subject string
	logger  *slog.Logger

	events chan Event
	done   chan struct{}
	once   sync.Once
}

// NewQueuePublisher creates a QueuePublisher and starts its publishing task.
func NewQueuePublisher(
	logger *slog.Logger,
	queue messaging.Queue,
	subject string,
) *QueuePublisher {
	p := &QueuePublisher{
		queue:   queue,
		subject: subject,
		logger:  logger,
		events:  make(chan Event, defaultBufferSize),
		done:    make(chan struct{}),
	}

	go p.run()

	return p
}

// Publish implements Publisher. It never blocks: when the buffer is full
// the event is dropped and the drop is logged.
func (p *QueuePublisher) Publish(
	event Event,
) {
	select {
	case p.events <- event:
	default:
		p.logger.Warn(
			"audit event buffer full, dropping event",
			slog.String("event_id", event.ID),
			slog.String("type", string(event.Type)),
		)
	}
}

// Close implements Publisher. Buffered events are flushed before the
// publishing task exits.
func (p *QueuePublisher) Close() {
	p.once.Do(func() {
		close(p.events)
		<-p.done
	})
}

// run drains the buffer until Close.
func (p *QueuePublisher) run() {
	defer close(p.done)

	for event := range p.events {
		p.publish(event)
	}
}

// publish serializes and enqueues one event. Failures are logged and the
// event is dropped; there is no synchronous retry, and nothing propagates
// to the client that triggered the event.
func (p *QueuePublisher) publish(
	event Event,
) {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error(
			"failed to marshal audit event",
			slog.String("event_id", event.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if _, err := p.queue.Publish(ctx, p.subject, data); err != nil {
		p.logger.Warn(
			"failed to publish audit event",
			slog.String("event_id", event.ID),
			slog.String("error", err.Error()),
		)
	}
}
