package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCounterWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStore(func() time.Time { return now })
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		count, ttl, err := store.Increment(ctx, "rate_limit:login:10.0.0.1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, count)
		assert.Equal(t, time.Minute, ttl)
	}

	now = now.Add(30 * time.Second)
	count, ttl, err := store.Increment(ctx, "rate_limit:login:10.0.0.1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.Equal(t, 30*time.Second, ttl)

	now = now.Add(31 * time.Second)
	count, _, err = store.Increment(ctx, "rate_limit:login:10.0.0.1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "window should have reset")
}

func TestMemoryStoreDenylist(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStore(func() time.Time { return now })
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Hour))
	require.NoError(t, store.Revoke(ctx, "jti-expired", 0))

	revoked, _ = store.IsRevoked(ctx, "jti-1")
	assert.True(t, revoked)
	revoked, _ = store.IsRevoked(ctx, "jti-expired")
	assert.False(t, revoked)

	now = now.Add(time.Hour)
	revoked, _ = store.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked, "revocation expires together with the token")
}

func TestNoopTokenDenylist(t *testing.T) {
	var d TokenDenylist = NoopTokenDenylist{}
	require.NoError(t, d.Revoke(context.Background(), "jti", time.Hour))
	revoked, err := d.IsRevoked(context.Background(), "jti")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryStoreDropsExpiredKeys(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStore(func() time.Time { return now })
	ctx := context.Background()

	for i := 0; i < 500; i++ {
		_, _, err := store.Increment(ctx, fmt.Sprintf("rate_limit:login:10.0.%d.%d", i/256, i%256), time.Minute)
		require.NoError(t, err)
	}
	require.NoError(t, store.Revoke(ctx, "jti-old", 30*time.Second))
	assert.Len(t, store.entries, 501)

	// expired but inside the sweep interval
	now = now.Add(59 * time.Second)
	require.NoError(t, store.Revoke(ctx, "jti-new", time.Hour))
	assert.Len(t, store.entries, 502)

	now = now.Add(2 * time.Second)
	_, _, err := store.Increment(ctx, "rate_limit:login:192.168.0.1", time.Minute)
	require.NoError(t, err)
	assert.Len(t, store.entries, 2)

	revoked, err := store.IsRevoked(ctx, "jti-new")
	require.NoError(t, err)
	assert.True(t, revoked)
}
