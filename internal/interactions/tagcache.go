package interactions

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// TagListingCacheKey holds the cached promoted-tag listing served by the
// read surface.
const TagListingCacheKey = "cache:tags:listing"

// RedisTagCache invalidates the cached tag listing after promotions.
type RedisTagCache struct {
	client *redis.Client
}

// NewRedisTagCache creates a cache invalidator on the given client.
func NewRedisTagCache(client *redis.Client) *RedisTagCache {
	return &RedisTagCache{client: client}
}

func (c *RedisTagCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, TagListingCacheKey).Err()
}
