package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript increments the counter of KEYS[1] and starts its window
// (ARGV[1] milliseconds) on the first hit. It returns {count, ttl in ms}.
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {current, ttl}
`)

// ErrUnexpectedReply is returned when Redis answers the counter script with an unknown shape.
var ErrUnexpectedReply = errors.New("unexpected reply from redis")

// RedisStore is a fixed-window counter per key shared by every replica through Redis.
// INCR and PEXPIRE run in a single script, so concurrent requests never lose updates.
type RedisStore struct {
	rdb    redis.Scripter
	prefix string
	window time.Duration
	limit  int
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix sets the namespace of every counter key. Surrounding colons are dropped.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

// NewRedisStore creates a store counting requests in Redis under the geodist:ratelimit prefix.
func NewRedisStore(rdb redis.Scripter, window time.Duration, limit int, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		rdb:    rdb,
		prefix: "geodist:ratelimit",
		window: window,
		limit:  limit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name identifies the store in logs and metrics.
func (s *RedisStore) Name() string { return "redis" }

// Key returns the Redis key holding the counter of a client key.
func (s *RedisStore) Key(key string) string {
	return s.prefix + ":" + key
}

// Take implements Store.
func (s *RedisStore) Take(ctx context.Context, key string) (Decision, error) {
	reply, err := fixedWindowScript.Run(ctx, s.rdb, []string{s.Key(key)}, s.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("failed to count request in redis: %w", err)
	}

	const replyLen = 2
	if len(reply) != replyLen {
		return Decision{}, fmt.Errorf("%w: %v", ErrUnexpectedReply, reply)
	}

	count, ttl := reply[0], reply[1]
	return newDecision(int(count), s.limit, time.Duration(ttl)*time.Millisecond), nil
}
