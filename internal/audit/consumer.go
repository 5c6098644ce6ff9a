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
	"errors"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/retr0h/gateway/internal/messaging"
)

// queueMessage is the slice of jetstream.Msg the consumer touches.
type queueMessage interface {
	Data() []byte
	Ack() error
	Nak() error
	Term() error
}

// ConsumerOptions configures the audit consumer's stream and durable
// consumer declarations.
type ConsumerOptions struct {
	// StreamName is the JetStream stream holding audit events.
	StreamName string
	// Subject is the audit event subject on the stream.
	Subject string
	// Storage selects file or memory storage for the stream.
	Storage jetstream.StorageType
	// MaxAge bounds event retention on the stream.
	MaxAge time.Duration
	// MaxMsgs bounds the stream size, 0 for unlimited.
	MaxMsgs int64
	// ConsumerName is the durable consumer name.
	ConsumerName string
	// AckWait is the redelivery timeout for unacknowledged messages.
	AckWait time.Duration
	// MaxDeliver caps redelivery attempts.
	MaxDeliver int
	// ReconnectWait is the fixed backoff between connect attempts.
	ReconnectWait time.Duration
}

// Consumer drains the audit queue and durably records each event. It
// processes strictly sequentially: MaxAckPending is 1, so the next message
// is not delivered until the current one is acknowledged or negatively
// acknowledged.
type Consumer struct {
	queue    messaging.Queue
	recorder Recorder
	opts     ConsumerOptions
	logger   *slog.Logger
}

// NewConsumer creates a new Consumer.
func NewConsumer(
	logger *slog.Logger,
	queue messaging.Queue,
	recorder Recorder,
	opts ConsumerOptions,
) *Consumer {
	if opts.ReconnectWait <= 0 {
		opts.ReconnectWait = 5 * time.Second
	}

	return &Consumer{
		queue:    queue,
		recorder: recorder,
		opts:     opts,
		logger:   logger,
	}
}

// Run consumes until ctx is cancelled. Connection or consume failures are
// retried indefinitely on a fixed backoff; the loop has no other exit.
func (c *Consumer) Run(
	ctx context.Context,
) {
	for {
		if err := c.consume(ctx); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Error(
				"audit consumer disconnected",
				slog.String("error", err.Error()),
				slog.Duration("retry_in", c.opts.ReconnectWait),
			)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.opts.ReconnectWait):
		}
	}
}

// consume declares the durable stream and consumer, then processes
// messages one at a time until the iterator fails or ctx is cancelled.
func (c *Consumer) consume(
	ctx context.Context,
) error {
	if _, err := c.queue.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     c.opts.StreamName,
		Subjects: []string{c.opts.Subject},
		Storage:  c.opts.Storage,
		MaxAge:   c.opts.MaxAge,
		MaxMsgs:  c.opts.MaxMsgs,
	}); err != nil {
		return err
	}

	cons, err := c.queue.CreateOrUpdateConsumer(ctx, c.opts.StreamName, jetstream.ConsumerConfig{
		Durable:       c.opts.ConsumerName,
		FilterSubject: c.opts.Subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckWait:       c.opts.AckWait,
		MaxDeliver:    c.opts.MaxDeliver,
		// Strict sequential processing: one outstanding message at a time.
		MaxAckPending: 1,
	})
	if err != nil {
		return err
	}

	iter, err := cons.Messages(jetstream.PullMaxMessages(1))
	if err != nil {
		return err
	}
	defer iter.Stop()

	go func() {
		<-ctx.Done()
		iter.Stop()
	}()

	c.logger.Info(
		"audit consumer waiting for events",
		slog.String("stream", c.opts.StreamName),
		slog.String("consumer", c.opts.ConsumerName),
	)

	for {
		msg, err := iter.Next()
		if err != nil {
			if errors.Is(err, jetstream.ErrMsgIteratorClosed) {
				return ctx.Err()
			}
			return err
		}

		c.handleMessage(ctx, msg)
	}
}

// handleMessage records one delivered event. A malformed payload will never
// become parseable, so it is terminated rather than redelivered; a failed
// record is negatively acknowledged for redelivery.
func (c *Consumer) handleMessage(
	ctx context.Context,
	msg queueMessage,
) {
	var event Event
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		c.logger.Warn(
			"dropping malformed audit message",
			slog.String("error", err.Error()),
		)
		if err := msg.Term(); err != nil {
			c.logger.Warn(
				"failed to terminate message",
				slog.String("error", err.Error()),
			)
		}
		return
	}

	if err := c.recorder.Write(ctx, event); err != nil {
		c.logger.Warn(
			"failed to record audit event",
			slog.String("event_id", event.ID),
			slog.String("error", err.Error()),
		)
		if err := msg.Nak(); err != nil {
			c.logger.Warn(
				"failed to nak message",
				slog.String("error", err.Error()),
			)
		}
		return
	}

	c.logger.Debug(
		"audit event recorded",
		slog.String("event_id", event.ID),
		slog.String("type", string(event.Type)),
	)

	if err := msg.Ack(); err != nil {
		c.logger.Warn(
			"failed to ack message",
			slog.String("error", err.Error()),
		)
	}
}
