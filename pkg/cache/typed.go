package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-pkgz/lgr"
)

// Typed wraps a Cache with JSON serialization for a concrete value type and a
// fixed TTL policy. Backend failures degrade to a miss: caching is a
// performance optimization, never a correctness dependency.
type Typed[T any] struct {
	cache  Cache
	prefix string
	ttl    time.Duration
}

// NewTyped creates a typed view over the shared cache. The prefix keeps
// different stages (fetch, enrich) from colliding on keys.
func NewTyped[T any](c Cache, prefix string, ttl time.Duration) *Typed[T] {
	return &Typed[T]{cache: c, prefix: prefix, ttl: ttl}
}

// Get returns the cached value for key, reporting a miss on any backend or
// decoding failure
func (t *Typed[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	if t == nil || t.cache == nil {
		return zero, false
	}

	data, found, err := t.cache.Get(ctx, t.prefix+key)
	if err != nil {
		lgr.Printf("[WARN] cache get failed for %s%s: %v", t.prefix, key, err)
		return zero, false
	}
	if !found {
		return zero, false
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		lgr.Printf("[WARN] cache entry %s%s is not decodable: %v", t.prefix, key, err)
		return zero, false
	}
	return value, true
}

// Set stores the value under key. Failures are logged and swallowed.
func (t *Typed[T]) Set(ctx context.Context, key string, value T) {
	if t == nil || t.cache == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		lgr.Printf("[WARN] cache marshal failed for %s%s: %v", t.prefix, key, err)
		return
	}
	if err := t.cache.Set(ctx, t.prefix+key, data, t.ttl); err != nil {
		lgr.Printf("[WARN] cache set failed for %s%s: %v", t.prefix, key, err)
	}
}
