package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const listingKey = "roadwatch:listing:live"

// RedisListingCache implements ListingCache on top of redis.
type RedisListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisListingCache(redisURL string, ttl time.Duration) (*RedisListingCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &RedisListingCache{
		client: client,
		ttl:    ttl,
	}, nil
}

// NewRedisListingCacheFromClient wraps an existing client (shared with the
// rate limiter).
func NewRedisListingCacheFromClient(client *redis.Client, ttl time.Duration) *RedisListingCache {
	return &RedisListingCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisListingCache) Get(ctx context.Context, dest any) (bool, error) {
	data, err := c.client.Get(ctx, listingKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}

	return true, nil
}

func (c *RedisListingCache) Set(ctx context.Context, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, listingKey, data, c.ttl).Err()
}

func (c *RedisListingCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, listingKey).Err()
}

func (c *RedisListingCache) Close() error {
	return c.client.Close()
}
