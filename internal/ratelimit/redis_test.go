package ratelimit_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/UnknownOlympus/geodist/internal/ratelimit"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedisStore_AgainstRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := t.Context()
	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })

	t.Run("window expires in redis", func(t *testing.T) {
		store := ratelimit.NewRedisStore(rdb, 200*time.Millisecond, 1, ratelimit.WithKeyPrefix("expiry"))

		first, err := store.Take(ctx, "k")
		require.NoError(t, err)
		second, err := store.Take(ctx, "k")
		require.NoError(t, err)

		assert.True(t, first.Allowed)
		assert.False(t, second.Allowed)
		assert.LessOrEqual(t, second.ResetAfter, 200*time.Millisecond)

		assert.Eventually(t, func() bool {
			dec, err := store.Take(ctx, "k")
			return err == nil && dec.Allowed
		}, 2*time.Second, 50*time.Millisecond)
	})

	t.Run("concurrent requests are counted once", func(t *testing.T) {
		const limit = 20
		store := ratelimit.NewRedisStore(rdb, time.Minute, limit, ratelimit.WithKeyPrefix("concurrency"))

		var allowed atomic.Int64
		var wg sync.WaitGroup
		for range 100 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				dec, err := store.Take(ctx, "same-client")
				if err == nil && dec.Allowed {
					allowed.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int64(limit), allowed.Load())
	})
}
