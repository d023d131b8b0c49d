package cache

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/redis/go-redis/v9"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	c := NewMemoryCache(10 * time.Minute)
	c.Set(ctx, "franchise:F1", []byte(`{"vehicles":[]}`))

	value, ok := c.Get(ctx, "franchise:F1")
	is.True(ok)
	is.Equal(string(value), `{"vehicles":[]}`)
}

func TestMemoryCacheMissesUnknownKeys(t *testing.T) {
	is := is.New(t)

	c := NewMemoryCache(10 * time.Minute)

	_, ok := c.Get(context.Background(), "nope")
	is.True(!ok)
}

func TestRedisCacheUnreachableDegradesToMiss(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	// port 1 is never listening; every command fails with a connection error
	c := &RedisCache{
		rdb: redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}),
		ttl: time.Minute,
	}
	defer c.Close()

	value, ok := c.Get(ctx, "franchise:F1")
	is.True(!ok)
	is.Equal(len(value), 0)

	// Set must swallow the failure as well
	c.Set(ctx, "franchise:F1", []byte("payload"))
}

func TestMemoryCacheExpiresEntries(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	now := time.Now()
	c := NewMemoryCache(10 * time.Minute)
	c.now = func() time.Time { return now }

	c.Set(ctx, "all", []byte("payload"))

	now = now.Add(11 * time.Minute)

	_, ok := c.Get(ctx, "all")
	is.True(!ok)
}
