package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a GCRA limiter shared across replicas through Redis.
type RateLimiter struct {
	limiter *redis_rate.Limiter
	limit   redis_rate.Limit
}

// NewRateLimiter allows perMinute requests per key. Values below one fall back
// to ten per minute.
func NewRateLimiter(client *redis.Client, perMinute int) *RateLimiter {
	if perMinute < 1 {
		perMinute = 10
	}
	return &RateLimiter{
		limiter: redis_rate.NewLimiter(client),
		limit:   redis_rate.PerMinute(perMinute),
	}
}

// Allow consumes one token for key. retryAfter is only meaningful when the
// request is refused.
func (l *RateLimiter) Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error) {
	res, err := l.limiter.Allow(ctx, rateKey(key), l.limit)
	if err != nil {
		return false, 0, fmt.Errorf("rate limit: %w", err)
	}
	return res.Allowed > 0, res.RetryAfter, nil
}

func rateKey(key string) string {
	return "ratelimit:login:" + key
}
