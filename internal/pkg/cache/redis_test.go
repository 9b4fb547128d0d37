package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowRemaining(t *testing.T) {
	left, ok := windowRemaining(42*time.Second, time.Minute)
	assert.True(t, ok)
	assert.Equal(t, 42*time.Second, left)

	// -1: key exists without expiry, -2: key missing
	for _, reply := range []time.Duration{-1, -2} {
		left, ok = windowRemaining(reply, time.Minute)
		assert.False(t, ok)
		assert.Equal(t, time.Minute, left)
	}
}

func TestRedisCounterReportsTransportErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	count, _, err := NewRedisCounter(client).Increment(context.Background(), "rate_limit:login:10.0.0.1", time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incr rate_limit:login:10.0.0.1")
	assert.Zero(t, count)
}
