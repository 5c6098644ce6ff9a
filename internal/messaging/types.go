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

// Package messaging defines the JetStream interfaces consumed by the
// gateway, narrowed for injection and mocking.
package messaging

import (
	"context"

	"github.com/nats-io/nats.go/jetstream"
)

// Queue captures the JetStream operations used by the audit pipeline:
// publishing events and declaring the durable stream/consumer pair.
type Queue interface {
	Publish(
		ctx context.Context,
		subject string,
		payload []byte,
		opts ...jetstream.PublishOpt,
	) (*jetstream.PubAck, error)
	CreateOrUpdateStream(
		ctx context.Context,
		cfg jetstream.StreamConfig,
	) (jetstream.Stream, error)
	CreateOrUpdateConsumer(
		ctx context.Context,
		stream string,
		cfg jetstream.ConsumerConfig,
	) (jetstream.Consumer, error)
	CreateKeyValue(
		ctx context.Context,
		cfg jetstream.KeyValueConfig,
	) (jetstream.KeyValue, error)
}

// Ensure the real JetStream context implements Queue.
var _ Queue = (jetstream.JetStream)(nil)

// KV captures the KeyValue bucket operations used by the audit recorder.
type KV interface {
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Put(ctx context.Context, key string, value []byte) (uint64, error)
	Keys(ctx context.Context, opts ...jetstream.WatchOpt) ([]string, error)
}

// Ensure JetStream KeyValue buckets implement KV.
var _ KV = (jetstream.KeyValue)(nil)
