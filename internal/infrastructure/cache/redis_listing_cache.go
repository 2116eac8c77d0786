package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shopfront/gateway/internal/domain/catalog"
)

const listingKeyPrefix = "gateway:listing:"

// RedisListingCache is a Redis-backed listing cache shared across
// gateway replicas. Cache failures degrade to misses; they never fail
// a listing request.
type RedisListingCache struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisListingCache creates a listing cache backed by an existing
// Redis client
func NewRedisListingCache(client *redis.Client, logger *zap.Logger) *RedisListingCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisListingCache{
		client:    client,
		keyPrefix: listingKeyPrefix,
		logger:    logger,
	}
}

func (c *RedisListingCache) key(key string) string {
	return c.keyPrefix + key
}

// Get implements ListingCache
func (c *RedisListingCache) Get(ctx context.Context, key string) (*catalog.Listing, bool) {
	payload, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("listing cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var listing catalog.Listing
	if err := json.Unmarshal(payload, &listing); err != nil {
		c.logger.Warn("listing cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return &listing, true
}

// Set implements ListingCache
func (c *RedisListingCache) Set(ctx context.Context, key string, listing *catalog.Listing, ttl time.Duration) {
	payload, err := json.Marshal(listing)
	if err != nil {
		c.logger.Warn("listing cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.key(key), payload, ttl).Err(); err != nil {
		c.logger.Warn("listing cache write failed", zap.Error(err))
	}
}

var _ ListingCache = (*RedisListingCache)(nil)
