package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache fronts catalog reads with Redis. Keys carry tags stored as sets so a
// product write can drop every derived listing in one call. Every failure
// path degrades to a miss; the database stays the source of truth.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New pings the server and returns nil when Redis is unreachable, so the
// caller can fall back to the no-op cache.
func New(addr, password string, ttl time.Duration) *Cache {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("redis unreachable, catalog cache disabled")
		return nil
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (c *Cache) Set(ctx context.Context, key string, v any, tags ...string) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, key, data, c.ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, "tag:"+tag, key)
		pipe.Expire(ctx, "tag:"+tag, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func (c *Cache) InvalidateTags(ctx context.Context, tags ...string) {
	for _, tag := range tags {
		keys, err := c.rdb.SMembers(ctx, "tag:"+tag).Result()
		if err != nil {
			continue
		}
		if len(keys) > 0 {
			c.rdb.Del(ctx, keys...)
		}
		c.rdb.Del(ctx, "tag:"+tag)
	}
}

// Noop satisfies the cache port when no Redis backend is configured.
type Noop struct{}

func (Noop) Get(context.Context, string, any) bool { return false }

func (Noop) Set(context.Context, string, any, ...string) {}

func (Noop) InvalidateTags(context.Context, ...string) {}
