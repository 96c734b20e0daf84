package kvstore

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// cacheMissMarker は「値が存在しない」ことをキャッシュするための値です。
const cacheMissMarker = "\x00missing"

// CachingStore decorates a Store with a Redis write-through cache.
// Writes go to the inner store first and then overwrite the cached entry.
// Read misses only fill an absent entry, so a stale read cannot replace a newer write.
type CachingStore struct {
	inner     Store
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ Store = (*CachingStore)(nil)

// NewCachingStore decorates a Store with Redis caching.
// If ttl is 0, it defaults to 10 minutes. If namespace is empty, it uses "prefs".
func NewCachingStore(rdb *redis.Client, ttl time.Duration, inner Store, namespace string) *CachingStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if namespace == "" {
		namespace = "prefs"
	}
	return &CachingStore{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Get returns the value, checking the cache first then falling back to the inner store.
func (c *CachingStore) Get(ctx context.Context, key string) (string, bool, error) {
	if c.rdb == nil {
		return c.inner.Get(ctx, key)
	}

	ck := c.cacheKey(key)

	// 1) Check cache
	if v, err := c.rdb.Get(ctx, ck).Result(); err == nil {
		if v == cacheMissMarker {
			return "", false, nil
		}
		return v, true, nil
	}

	// 2) Fallback to inner store
	v, ok, err := c.inner.Get(ctx, key)
	if err != nil {
		return "", false, err
	}

	// 3) Fill cache only if no write has landed meanwhile (best effort)
	cached := v
	if !ok {
		cached = cacheMissMarker
	}
	_ = c.rdb.SetNX(ctx, ck, cached, c.ttl).Err()

	return v, ok, nil
}

// Set writes to the inner store and then writes the value through to the cache.
// If the cache write fails, the entry is dropped so reads fall back to the inner store.
func (c *CachingStore) Set(ctx context.Context, key, value string) error {
	if err := c.inner.Set(ctx, key, value); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	ck := c.cacheKey(key)
	if err := c.rdb.Set(ctx, ck, value, c.ttl).Err(); err != nil {
		slog.Warn("cache write-through failed", "key", ck, "error", err)
		_ = c.rdb.Del(ctx, ck).Err() // Best effort
	}
	return nil
}

func (c *CachingStore) cacheKey(key string) string {
	return c.namespace + ":" + safe(key)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
