package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/redis/go-redis/v9"
)

// RedisCache shares the response cache between replicas.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache connects to redis at the given address and verifies the
// connection before returning.
func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisCache{rdb: rdb, ttl: ttl}, nil
}

// Get treats any redis failure as a miss so that an unreachable cache never
// fails a load.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logging.GetFromContext(ctx).Debug("cache get failed", "key", key, "err", err.Error())
		}
		return nil, false
	}

	return value, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) {
	err := c.rdb.Set(ctx, key, value, c.ttl).Err()
	if err != nil {
		logging.GetFromContext(ctx).Debug("cache set failed", "key", key, "err", err.Error())
	}
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
