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
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/retr0h/gateway/internal/messaging"
)

// ensure KVStore implements Recorder at compile time.
var _ Recorder = (*KVStore)(nil)

// KVStore implements Recorder backed by a NATS KeyValue bucket, keyed by
// event ID. Writing the same event twice overwrites the same key, so
// at-least-once queue delivery yields one logical record per event.
type KVStore struct {
	mu     sync.Mutex
	kv     messaging.KV
	bind   func(ctx context.Context) (messaging.KV, error)
	logger *slog.Logger
}

// NewKVStore creates a new KVStore over an established bucket.
func NewKVStore(
	logger *slog.Logger,
	kv messaging.KV,
) *KVStore {
	return &KVStore{
		kv:     kv,
		logger: logger,
	}
}

// NewLazyKVStore creates a KVStore that binds its bucket on first use. A
// failed bind surfaces as the operation's error and is retried on the next
// call, so a queue that is unreachable at startup does not pin the store to
// a dead handle.
func NewLazyKVStore(
	logger *slog.Logger,
	bind func(ctx context.Context) (messaging.KV, error),
) *KVStore {
	return &KVStore{
		bind:   bind,
		logger: logger,
	}
}

// bucket returns the bound KV handle, binding it first when needed.
func (s *KVStore) bucket(
	ctx context.Context,
) (messaging.KV, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.kv != nil {
		return s.kv, nil
	}

	kv, err := s.bind(ctx)
	if err != nil {
		return nil, fmt.Errorf("bind audit bucket: %w", err)
	}
	s.kv = kv

	return kv, nil
}

// Write persists an event record to the KV bucket.
func (s *KVStore) Write(
	ctx context.Context,
	event Event,
) error {
	kv, err := s.bucket(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	if _, err := kv.Put(ctx, sanitizeKey(event.ID), data); err != nil {
		return fmt.Errorf("put audit event: %w", err)
	}

	return nil
}

// Get retrieves a single recorded event by ID.
func (s *KVStore) Get(
	ctx context.Context,
	id string,
) (*Event, error) {
	kv, err := s.bucket(ctx)
	if err != nil {
		return nil, err
	}

	kve, err := kv.Get(ctx, sanitizeKey(id))
	if err != nil {
		return nil, fmt.Errorf("get audit event: %w", err)
	}

	var event Event
	if err := json.Unmarshal(kve.Value(), &event); err != nil {
		return nil, fmt.Errorf("unmarshal audit event: %w", err)
	}

	return &event, nil
}

// List retrieves recorded events with pagination.
func (s *KVStore) List(
	ctx context.Context,
	limit int,
	offset int,
) ([]Event, int, error) {
	kv, err := s.bucket(ctx)
	if err != nil {
		return nil, 0, err
	}

	keys, err := kv.Keys(ctx)
	if err != nil {
		// an empty bucket is not an error
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return []Event{}, 0, nil
		}
		return nil, 0, fmt.Errorf("list audit keys: %w", err)
	}

	total := len(keys)

	// Newest first; UUIDv7-style IDs with a timestamp prefix sort naturally.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	if offset >= total {
		return []Event{}, total, nil
	}

	end := offset + limit
	if end > total {
		end = total
	}

	pageKeys := keys[offset:end]

	events := make([]Event, 0, len(pageKeys))
	for _, key := range pageKeys {
		kve, err := kv.Get(ctx, key)
		if err != nil {
			s.logger.Warn(
				"failed to get audit event",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
			continue
		}

		var event Event
		if err := json.Unmarshal(kve.Value(), &event); err != nil {
			s.logger.Warn(
				"failed to unmarshal audit event",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
			continue
		}

		events = append(events, event)
	}

	return events, total, nil
}

// sanitizeKey keeps IDs within the KV key character set.
func sanitizeKey(
	id string,
) string {
	out := make([]byte, 0, len(id))
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z',
			c >= 'A' && c <= 'Z',
			c >= '0' && c <= '9',
			c == '-' || c == '_' || c == '.':
			out = append(out, c)
		default:
			out = append(out, '_')
		}
	}

	return string(out)
}
