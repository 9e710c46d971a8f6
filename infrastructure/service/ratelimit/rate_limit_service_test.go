package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pizzastore/pizzastore/application/port/inbound"
	"github.com/pizzastore/pizzastore/infrastructure/service/logger"
)

func newRedisService(t *testing.T) (inbound.RateLimitService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRateLimitService(client, logger.NewNopLogger()), mr
}

func TestRedisRateLimitService(t *testing.T) {
	ctx := context.Background()

	t.Run("counts attempts within window", func(t *testing.T) {
		svc, mr := newRedisService(t)

		for i := 0; i < 3; i++ {
			require.NoError(t, svc.Increment(ctx, "sign_in:ip:1.2.3.4", time.Minute))
		}
		attempts, err := svc.GetAttempts(ctx, "sign_in:ip:1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)

		ok, err := svc.CheckLimit(ctx, "sign_in:ip:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)

		mr.FastForward(time.Minute + time.Second)
		attempts, err = svc.GetAttempts(ctx, "sign_in:ip:1.2.3.4")
		require.NoError(t, err)
		assert.Zero(t, attempts)
	})

	t.Run("window is not extended by later hits", func(t *testing.T) {
		svc, mr := newRedisService(t)

		require.NoError(t, svc.Increment(ctx, "k", time.Minute))
		mr.FastForward(40 * time.Second)
		require.NoError(t, svc.Increment(ctx, "k", time.Minute))
		mr.FastForward(30 * time.Second)

		attempts, err := svc.GetAttempts(ctx, "k")
		require.NoError(t, err)
		assert.Zero(t, attempts)
	})

	t.Run("block expires", func(t *testing.T) {
		svc, mr := newRedisService(t)

		require.NoError(t, svc.Block(ctx, "k", time.Minute, "too many sign-in attempts"))
		blocked, err := svc.IsBlocked(ctx, "k")
		require.NoError(t, err)
		assert.True(t, blocked)
		assert.Equal(t, "too many sign-in attempts", mr.HGet("blocked:k", "reason"))

		mr.FastForward(2 * time.Minute)
		blocked, err = svc.IsBlocked(ctx, "k")
		require.NoError(t, err)
		assert.False(t, blocked)
	})

	t.Run("redis failure surfaces as error", func(t *testing.T) {
		svc, mr := newRedisService(t)
		mr.Close()

		_, err := svc.GetAttempts(ctx, "k")
		assert.Error(t, err)
		assert.Error(t, svc.Increment(ctx, "k", time.Minute))
	})
}

func TestLocalRateLimitService(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := NewLocalRateLimitService(100, logger.NewNopLogger())
	svc.now = func() time.Time { return now }

	require.NoError(t, svc.Increment(ctx, "k", time.Minute))
	require.NoError(t, svc.Increment(ctx, "k", time.Minute))

	ok, err := svc.CheckLimit(ctx, "k", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	now = now.Add(time.Minute)
	attempts, err := svc.GetAttempts(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, attempts)

	require.NoError(t, svc.Block(ctx, "k", time.Minute, "test"))
	blocked, _ := svc.IsBlocked(ctx, "k")
	assert.True(t, blocked)

	now = now.Add(time.Minute)
	blocked, _ = svc.IsBlocked(ctx, "k")
	assert.False(t, blocked)
}

func TestLocalRateLimitService_Eviction(t *testing.T) {
	ctx := context.Background()
	svc := NewLocalRateLimitService(2, logger.NewNopLogger())

	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, svc.Increment(ctx, key, time.Minute))
	}
	attempts, _ := svc.GetAttempts(ctx, "a")
	assert.Zero(t, attempts, "oldest key should be evicted")
	attempts, _ = svc.GetAttempts(ctx, "c")
	assert.Equal(t, 1, attempts)
}

func TestIPThrottle(t *testing.T) {
	throttle := NewIPThrottle(1, 2, 10, time.Minute)

	assert.True(t, throttle.Allow("10.0.0.1"))
	assert.True(t, throttle.Allow("10.0.0.1"))
	assert.False(t, throttle.Allow("10.0.0.1"))
	assert.True(t, throttle.Allow("10.0.0.2"))
}

func TestNewRateLimitService(t *testing.T) {
	log := logger.NewNopLogger()

	svc, err := NewRateLimitService(RateLimitConfig{Enabled: false}, log)
	require.NoError(t, err)
	ok, _ := svc.CheckLimit(context.Background(), "k", 0, time.Minute)
	assert.True(t, ok)

	svc, err = NewRateLimitService(RateLimitConfig{Enabled: true, Backend: BackendMemory}, log)
	require.NoError(t, err)
	assert.IsType(t, &LocalRateLimitService{}, svc)

	mr := miniredis.RunT(t)
	svc, err = NewRateLimitService(RateLimitConfig{Enabled: true, Backend: BackendRedis, RedisURL: "redis://" + mr.Addr()}, log)
	require.NoError(t, err)
	assert.NotNil(t, svc)

	_, err = NewRateLimitService(RateLimitConfig{Enabled: true, Backend: "memcached"}, log)
	assert.Error(t, err)
}
