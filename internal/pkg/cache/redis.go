// Package cache holds the redis backed stores: the login rate limit counter
// and the revoked token denylist.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig describes how to reach redis
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects to redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// Counter counts events inside a fixed window
type Counter interface {
	// Increment bumps key and returns the new count and the time left in the window.
	Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RedisCounter implements Counter with INCR + TTL in one transaction and an
// EXPIRE whenever the key has no expiry yet
type RedisCounter struct {
	client *redis.Client
}

// NewRedisCounter creates a new RedisCounter
func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

// Increment implements Counter. A key left without expiry by an earlier
// failed EXPIRE gets one on the next hit.
func (c *RedisCounter) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("incr %s: %w", key, err)
	}

	count := incr.Val()
	left, hasExpiry := windowRemaining(ttl.Val(), window)
	if !hasExpiry {
		if err := c.client.Expire(ctx, key, window).Err(); err != nil {
			return count, window, fmt.Errorf("expire %s: %w", key, err)
		}
	}
	return count, left, nil
}

// windowRemaining interprets a TTL reply. Negative replies mean the key has
// no expiry, so the full window is reported.
func windowRemaining(ttl, window time.Duration) (time.Duration, bool) {
	if ttl < 0 {
		return window, false
	}
	return ttl, true
}

// TokenDenylist tracks tokens revoked before their natural expiry
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisTokenDenylist implements TokenDenylist with one key per revoked token
type RedisTokenDenylist struct {
	client *redis.Client
}

// NewRedisTokenDenylist creates a new RedisTokenDenylist
func NewRedisTokenDenylist(client *redis.Client) *RedisTokenDenylist {
	return &RedisTokenDenylist{client: client}
}

// RevokedTokenKey is the redis key for a revoked token id
func RevokedTokenKey(tokenID string) string {
	return "revoked_token:" + tokenID
}

// Revoke implements TokenDenylist. Tokens that are already expired are ignored.
func (d *RedisTokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, RevokedTokenKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked implements TokenDenylist
func (d *RedisTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, RevokedTokenKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

// NoopTokenDenylist is used when redis is disabled; nothing is ever revoked.
type NoopTokenDenylist struct{}

// Revoke implements TokenDenylist
func (NoopTokenDenylist) Revoke(context.Context, string, time.Duration) error { return nil }

// IsRevoked implements TokenDenylist
func (NoopTokenDenylist) IsRevoked(context.Context, string) (bool, error) { return false, nil }
