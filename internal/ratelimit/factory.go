package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StoreType represents the kind of counter store.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory" // Fixed window kept in process memory.
	StoreTypeRedis  StoreType = "redis"  // Fixed window shared through Redis.
	StoreTypeToken  StoreType = "token"  // Token bucket kept in process memory.
)

// StoreConfig holds configuration for creating a Store.
type StoreConfig struct {
	Type        StoreType     // Type of store to create
	Window      time.Duration // Length of a counting window
	MaxRequests int           // Requests admitted per key per window
	Redis       redis.Scripter // Client for the redis store
	RedisPrefix string         // Key namespace for the redis store
}

// NewStore creates a Store from config. Janitors of in-memory stores run until ctx is done.
func NewStore(ctx context.Context, config StoreConfig) (Store, error) {
	if config.Window <= 0 {
		return nil, errors.New("rate limit window must be positive")
	}
	if config.MaxRequests <= 0 {
		return nil, errors.New("rate limit max requests must be positive")
	}

	switch config.Type {
	case StoreTypeMemory, "":
		store := NewMemoryStore(config.Window, config.MaxRequests)
		store.StartJanitor(ctx)
		return store, nil
	case StoreTypeToken:
		store := NewTokenStore(config.Window, config.MaxRequests)
		store.StartJanitor(ctx)
		return store, nil
	case StoreTypeRedis:
		if config.Redis == nil {
			return nil, errors.New("redis client is required for redis store")
		}
		var opts []RedisOption
		if config.RedisPrefix != "" {
			opts = append(opts, WithKeyPrefix(config.RedisPrefix))
		}
		return NewRedisStore(config.Redis, config.Window, config.MaxRequests, opts...), nil
	default:
		return nil, fmt.Errorf("unsupported rate limit store: %s", config.Type)
	}
}
