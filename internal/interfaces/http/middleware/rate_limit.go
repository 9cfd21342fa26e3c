// internal/interfaces/http/middleware/rate_limit.go
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const rateLimitWindow = time.Minute

// Limiter counts hits of key in the current fixed window
type Limiter interface {
	Hit(ctx context.Context, key string) (int, error)
}

// RedisLimiter keeps counters in Redis so every instance shares them
type RedisLimiter struct {
	client *redis.Client
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client}
}

func (l *RedisLimiter) Hit(ctx context.Context, key string) (int, error) {
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// the first hit opens the window
	if count == 1 {
		if err := l.client.Expire(ctx, key, rateLimitWindow).Err(); err != nil {
			return 0, err
		}
	}
	return int(count), nil
}

// MemoryLimiter keeps counters in process
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

type window struct {
	count   int
	resetAt time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{windows: make(map[string]*window), now: time.Now}
}

func (l *MemoryLimiter) Hit(_ context.Context, key string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(rateLimitWindow)}
		l.windows[key] = w
	}
	w.count++
	return w.count, nil
}

// RateLimit rejects clients that exceed limit requests per minute
func RateLimit(limit int, limiter Limiter, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s", c.ClientIP())

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		current, err := limiter.Hit(ctx, key)
		cancel()
		if err != nil {
			// If the limiter is down, allow the request
			logger.WithError(err).Warn("Rate limiter unavailable")
			c.Next()
			return
		}

		remaining := limit - current
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if current > limit {
			c.Header("Retry-After", strconv.Itoa(int(rateLimitWindow.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Muitas requisições. Tente novamente em instantes.",
				"retry_after": int(rateLimitWindow.Seconds()),
			})
			return
		}

		c.Next()
	}
}
