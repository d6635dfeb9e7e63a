package cache

import (
	"context"
	"errors"
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/zvrva/staybooking/config"
)

const availableUnitsKey = "stats:available_units_count"

// RedisCache keeps the derived available-units count. Redis being down is
// a valid transient state: reads degrade to a miss and writes to a no-op,
// so callers always fall back to the source of truth instead of failing.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
	}
}

func (c *RedisCache) GetAvailableUnits(ctx context.Context) (int64, bool) {
	count, err := c.client.Get(ctx, availableUnitsKey).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("cache get %s: %v", availableUnitsKey, err)
		}
		return 0, false
	}
	return count, true
}

func (c *RedisCache) SetAvailableUnits(ctx context.Context, count int64) {
	if err := c.client.Set(ctx, availableUnitsKey, count, 0).Err(); err != nil {
		log.Printf("cache set %s: %v", availableUnitsKey, err)
	}
}

func (c *RedisCache) InvalidateAvailableUnits(ctx context.Context) {
	if err := c.client.Del(ctx, availableUnitsKey).Err(); err != nil {
		log.Printf("cache invalidate %s: %v", availableUnitsKey, err)
	}
}
