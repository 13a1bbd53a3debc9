package cache

import (
	"context"
	"time"

	"github.com/teralab/itemdex/cache/local"
	cacheredis "github.com/teralab/itemdex/cache/redis"
)

// Cache is the KV surface used for search-response and category caching.
// The store is read-only after ingestion, so cached entries only need a TTL
// for dataset switches, not invalidation.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

// Config holds configuration for both Redis and LocalCache.
type Config struct {
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	LocalGCInterval time.Duration
}

// New returns a Cache backed by Redis if RedisAddr is set, otherwise an
// in-process LocalCache.
func New(cfg Config) (Cache, error) {
	if cfg.RedisAddr != "" {
		return cacheredis.NewCache(cacheredis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	return local.NewCache(local.Config{
		GCInterval: cfg.LocalGCInterval,
	})
}
