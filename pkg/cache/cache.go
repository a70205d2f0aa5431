package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/umputun/newsrec/pkg/config"
)

// Cache is a key-value store with per-entry TTL. Implementations must be safe
// for concurrent use from parallel requests and enrichment workers. A failing
// backend degrades to "always miss" at call sites, it never fails the pipeline.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// New creates a cache backend selected by configuration
func New(cfg config.CacheConfig) (Cache, error) {
	switch cfg.Type {
	case "memory":
		return NewMemory(), nil
	case "redis":
		return NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB), nil
	case "sqlite":
		return NewSQLite(cfg.SQLite.DSN)
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}
