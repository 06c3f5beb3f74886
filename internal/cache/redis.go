package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultKeyPrefix = "farm:analytics"

// RedisCache keeps entries under <prefix>:<company>:<key>.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
	logger *zap.Logger
}

// NewRedisCache creates a cache on top of an existing client
func NewRedisCache(client redis.UniversalClient, logger *zap.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: defaultKeyPrefix,
		logger: logger.Named("cache.analytics"),
	}
}

func (c *RedisCache) companyPrefix(companyID uint64) string {
	return fmt.Sprintf("%s:%d:", c.prefix, companyID)
}

func (c *RedisCache) key(companyID uint64, key string) string {
	return c.companyPrefix(companyID) + key
}

func (c *RedisCache) Get(ctx context.Context, companyID uint64, key string, dst interface{}) (bool, error) {
	data, err := c.client.Get(ctx, c.key(companyID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	c.logger.Debug("analytics cache hit", zap.Uint64("company_id", companyID), zap.String("key", key))
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, companyID uint64, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	return c.client.Set(ctx, c.key(companyID, key), data, ttl).Err()
}

func (c *RedisCache) InvalidateCompany(ctx context.Context, companyID uint64) error {
	var cursor uint64
	pattern := c.companyPrefix(companyID) + "*"
	deleted := 0
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	c.logger.Debug("analytics cache invalidated", zap.Uint64("company_id", companyID), zap.Int("keys", deleted))
	return nil
}
