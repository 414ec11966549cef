package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateCounter implements middleware.RateCounter with INCR and EXPIRE
type RedisRateCounter struct {
	client *redis.Client
}

// NewRedisRateCounter creates a rate counter backed by redis
func NewRedisRateCounter(client *redis.Client) *RedisRateCounter {
	return &RedisRateCounter{client: client}
}

// Hit increments key and starts its window on the first hit
func (c *RedisRateCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}

	if count == 1 {
		if err := c.client.Expire(ctx, key, window).Err(); err != nil {
			return count, window, err
		}
		return count, window, nil
	}

	ttl, err := c.client.TTL(ctx, key).Result()
	if err != nil {
		return count, 0, err
	}
	// A key left without expiry by a failed EXPIRE would block the client forever
	if ttl < 0 {
		c.client.Expire(ctx, key, window)
		ttl = window
	}
	return count, ttl, nil
}
