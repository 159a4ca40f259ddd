package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisRateLimiter implements RateLimiter with a sliding window over a Redis
// sorted set per key.
type RedisRateLimiter struct {
	redis *redis.Client
	// prefix for redis keys to avoid collisions
	keyPrefix string
}

// NewRedisRateLimiter creates a new RedisRateLimiter
func NewRedisRateLimiter(redis *redis.Client, keyPrefix string) *RedisRateLimiter {
	return &RedisRateLimiter{
		redis:     redis,
		keyPrefix: keyPrefix,
	}
}

func (l *RedisRateLimiter) formatKey(key string) string {
	return fmt.Sprintf("%s:ratelimit:%s", l.keyPrefix, key)
}

// Allow implements RateLimiter.Allow using a pipelined trim/count/add cycle.
// Redis failures fail open: the request is allowed and the error logged.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string, limit Rate) (bool, RateLimitInfo) {
	now := time.Now()
	windowKey := l.formatKey(key)

	pipe := l.redis.Pipeline()

	// Remove old entries outside the window
	windowStart := now.Add(-limit.Window).UnixNano()
	pipe.ZRemRangeByScore(ctx, windowKey, "0", strconv.FormatInt(windowStart, 10))

	// Get current count
	pipe.ZCard(ctx, windowKey)

	// Add current request
	pipe.ZAdd(ctx, windowKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})

	// Set expiry to clean up old keys
	pipe.Expire(ctx, windowKey, limit.Window)

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		logrus.Errorf("rate limiter unavailable, failing open: %v", err)
		return true, RateLimitInfo{
			Limit:     limit.Requests,
			Remaining: 0,
			Reset:     now.Add(limit.Window),
		}
	}

	count := cmds[1].(*redis.IntCmd).Val()

	remaining := limit.Requests - int(count)
	allowed := remaining >= 0

	return allowed, RateLimitInfo{
		Limit:     limit.Requests,
		Remaining: remaining,
		Reset:     now.Add(limit.Window),
	}
}

// Reset implements RateLimiter.Reset
func (l *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	return l.redis.Del(ctx, l.formatKey(key)).Err()
}
