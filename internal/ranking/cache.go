package ranking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, key string) (*Page, bool) { return nil, false }
func (NoopCache) Set(ctx context.Context, key string, page *Page) {}
func (NoopCache) Invalidate(ctx context.Context) {}

const cachePrefix = "leaderboard"

// RedisCache stores msgpack encoded pages in Redis. Invalidation bumps a
// version counter that is part of every key, so stale pages are simply
// never read again and expire on their own.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a cache on an existing client.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// DialRedis parses url, connects and pings the server.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (c *RedisCache) versionKey() string {
	return cachePrefix + ":version"
}

func (c *RedisCache) key(ctx context.Context, key string) (string, error) {
	version, err := c.client.Get(ctx, c.versionKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("%s:v%d:%s", cachePrefix, version, key), nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (*Page, bool) {
	k, err := c.key(ctx, key)
	if err != nil {
		log.Warn("Leaderboard cache unavailable", "error", err)
		return nil, false
	}
	data, err := c.client.Get(ctx, k).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn("Failed to read leaderboard cache", "key", k, "error", err)
		}
		return nil, false
	}
	var page Page
	if err := msgpack.Unmarshal(data, &page); err != nil {
		log.Warn("Dropping undecodable leaderboard page", "key", k, "error", err)
		return nil, false
	}
	return &page, true
}

func (c *RedisCache) Set(ctx context.Context, key string, page *Page) {
	k, err := c.key(ctx, key)
	if err != nil {
		log.Warn("Leaderboard cache unavailable", "error", err)
		return
	}
	data, err := msgpack.Marshal(page)
	if err != nil {
		log.Error("Failed to encode leaderboard page", "error", err)
		return
	}
	if err := c.client.Set(ctx, k, data, c.ttl).Err(); err != nil {
		log.Warn("Failed to write leaderboard cache", "key", k, "error", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, c.versionKey()).Err(); err != nil {
		log.Warn("Failed to invalidate leaderboard cache", "error", err)
		return
	}
	log.Debug("Leaderboard cache invalidated")
}
