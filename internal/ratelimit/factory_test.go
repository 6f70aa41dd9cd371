package ratelimit_test

import (
	"testing"
	"time"

	"github.com/UnknownOlympus/geodist/internal/ratelimit"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	ctx := t.Context()

	t.Run("memory store by default", func(t *testing.T) {
		store, err := ratelimit.NewStore(ctx, ratelimit.StoreConfig{Window: time.Minute, MaxRequests: 10})

		require.NoError(t, err)
		_, ok := store.(*ratelimit.MemoryStore)
		assert.True(t, ok, "expected store to be *MemoryStore")
	})

	t.Run("token store", func(t *testing.T) {
		store, err := ratelimit.NewStore(ctx, ratelimit.StoreConfig{
			Type: ratelimit.StoreTypeToken, Window: time.Minute, MaxRequests: 10,
		})

		require.NoError(t, err)
		_, ok := store.(*ratelimit.TokenStore)
		assert.True(t, ok, "expected store to be *TokenStore")
	})

	t.Run("redis store", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		store, err := ratelimit.NewStore(ctx, ratelimit.StoreConfig{
			Type: ratelimit.StoreTypeRedis, Window: time.Minute, MaxRequests: 10, Redis: rdb, RedisPrefix: "x",
		})

		require.NoError(t, err)
		redisStore, ok := store.(*ratelimit.RedisStore)
		require.True(t, ok, "expected store to be *RedisStore")
		assert.Equal(t, "x:k", redisStore.Key("k"))
	})

	t.Run("redis store without client fails", func(t *testing.T) {
		store, err := ratelimit.NewStore(ctx, ratelimit.StoreConfig{
			Type: ratelimit.StoreTypeRedis, Window: time.Minute, MaxRequests: 10,
		})

		require.Error(t, err)
		require.Nil(t, store)
		assert.Contains(t, err.Error(), "redis client is required")
	})

	t.Run("unsupported store type", func(t *testing.T) {
		store, err := ratelimit.NewStore(ctx, ratelimit.StoreConfig{
			Type: "memcached", Window: time.Minute, MaxRequests: 10,
		})

		require.Error(t, err)
		require.Nil(t, store)
		assert.Contains(t, err.Error(), "unsupported rate limit store: memcached")
	})

	t.Run("invalid window or max", func(t *testing.T) {
		_, err := ratelimit.NewStore(ctx, ratelimit.StoreConfig{Window: 0, MaxRequests: 10})
		require.Error(t, err)

		_, err = ratelimit.NewStore(ctx, ratelimit.StoreConfig{Window: time.Minute, MaxRequests: 0})
		require.Error(t, err)
	})
}
