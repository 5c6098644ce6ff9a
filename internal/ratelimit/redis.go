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
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ensure RedisStore implements Store at compile time.
var _ Store = (*RedisStore)(nil)

// tokenBucketScript performs the refill-and-consume read-modify-write as a
// single atomic operation per key. Elapsed time is clamped at zero so a
// regressing clock can never mint tokens. State is persisted on both admit
// and reject so the refill timestamp stays current.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local refill = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])

	local state = redis.call('HMGET', key, 'tokens', 'lastRefill')
	local tokens = tonumber(state[1])
	local lastRefill = tonumber(state[2])

	if tokens == nil or lastRefill == nil then
		tokens = capacity
		lastRefill = now
	else
		local elapsed = now - lastRefill
		if elapsed < 0 then
			elapsed = 0
		end
		tokens = math.min(capacity, tokens + elapsed * refill)
		lastRefill = now
	end

	local allowed = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	end

	redis.call('HSET', key, 'tokens', tostring(tokens), 'lastRefill', lastRefill)
	return {allowed, tostring(tokens)}
`)

// fixedWindowScript counts requests in the current window, creating the
// window with its TTL on first use. Counter initialization, increment, and
// TTL management happen in one store-side transaction.
var fixedWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local window = tonumber(ARGV[1])
	local limit = tonumber(ARGV[2])

	local current = redis.call('GET', key)
	if current == false then
		redis.call('SET', key, 1, 'PX', window)
		return {1, limit - 1, window}
	end

	local count = tonumber(current)
	if count < limit then
		local newCount = redis.call('INCR', key)
		local ttl = redis.call('PTTL', key)
		if ttl < 0 then
			redis.call('PEXPIRE', key, window)
			ttl = window
		end
		return {1, limit - newCount, ttl}
	end

	local ttl = redis.call('PTTL', key)
	return {0, 0, ttl}
`)

// RedisStore implements Store using Lua-scripted Redis transactions.
type RedisStore struct {
	client redis.Scripter
}

// NewRedisStore creates a new RedisStore.
func NewRedisStore(
	client redis.Scripter,
) *RedisStore {
	return &RedisStore{
		client: client,
	}
}

// TokenBucket implements Store.
func (s *RedisStore) TokenBucket(
	ctx context.Context,
	key string,
	capacity float64,
	refillPerSecond float64,
	now time.Time,
) (*Decision, error) {
	result, err := tokenBucketScript.Run(
		ctx,
		s.client,
		[]string{key},
		capacity,
		refillPerSecond,
		now.Unix(),
	).Result()
	if err != nil {
		return nil, fmt.Errorf("token bucket script: %w", err)
	}

	res, ok := result.([]any)
	if !ok || len(res) != 2 {
		return nil, fmt.Errorf("unexpected token bucket reply: %v", result)
	}

	allowed, _ := res[0].(int64)
	remainingStr, _ := res[1].(string)
	remaining, err := strconv.ParseFloat(remainingStr, 64)
	if err != nil {
		return nil, fmt.Errorf("parse remaining tokens %q: %w", remainingStr, err)
	}

	return &Decision{
		Allowed:   allowed == 1,
		Remaining: remaining,
		Limit:     capacity,
	}, nil
}

// FixedWindow implements Store.
func (s *RedisStore) FixedWindow(
	ctx context.Context,
	key string,
	limit int,
	window time.Duration,
) (*Decision, error) {
	result, err := fixedWindowScript.Run(
		ctx,
		s.client,
		[]string{key},
		window.Milliseconds(),
		limit,
	).Result()
	if err != nil {
		return nil, fmt.Errorf("fixed window script: %w", err)
	}

	res, ok := result.([]any)
	if !ok || len(res) != 3 {
		return nil, fmt.Errorf("unexpected fixed window reply: %v", result)
	}

	allowed, _ := res[0].(int64)
	remaining, _ := res[1].(int64)
	ttlMs, _ := res[2].(int64)
	if ttlMs < 0 {
		ttlMs = 0
	}

	return &Decision{
		Allowed:    allowed == 1,
		Remaining:  float64(remaining),
		Limit:      float64(limit),
		ResetAfter: time.Duration(ttlMs) * time.Millisecond,
	}, nil
}
