package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/pkg/cache"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// RateLimiter counts requests per client IP in fixed windows
type RateLimiter struct {
	counter cache.Counter
}

// NewRateLimiter creates a limiter backed by counter
func NewRateLimiter(counter cache.Counter) *RateLimiter {
	return &RateLimiter{counter: counter}
}

// Limit allows at most limit requests per window for each client IP. Counter
// failures let the request through.
func (l *RateLimiter) Limit(name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || l.counter == nil || limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", name, c.ClientIP())
		count, ttl, err := l.counter.Increment(c.Request.Context(), key, window)
		if err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))
			logger.Warn().Str("ip", c.ClientIP()).Str("limiter", name).Msg("Rate limit exceeded")
			AbortWithError(c, http.StatusTooManyRequests, dto.ErrorCodeTooManyRequests, "Too many requests, please try again later")
			return
		}
		c.Next()
	}
}
