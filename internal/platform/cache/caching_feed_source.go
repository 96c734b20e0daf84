// Package cache provides caching implementations for source interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stocklinker/internal/feature/news/domain/entity"
	"stocklinker/internal/feature/news/usecase"
)

// CachingFeedSource decorates a FeedSource with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying source.
type CachingFeedSource struct {
	inner     usecase.FeedSource
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.FeedSource = (*CachingFeedSource)(nil)

// NewCachingFeedSource decorates a FeedSource with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "news".
func NewCachingFeedSource(rdb *redis.Client, ttl time.Duration, inner usecase.FeedSource, namespace string) *CachingFeedSource {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "news"
	}
	return &CachingFeedSource{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FetchFeed retrieves headlines, checking cache first then falling back to the feed.
func (c *CachingFeedSource) FetchFeed(ctx context.Context, kind entity.Kind) ([]entity.NewsItem, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FetchFeed(ctx, kind)
	}

	key := c.cacheKey(kind)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.NewsItem
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the feed
	out, err := c.inner.FetchFeed(ctx, kind)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort). 空のフィードは一時的な障害の可能性があるためキャッシュしない
	if len(out) == 0 {
		return out, nil
	}
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// cacheKey generates a cache key for a feed kind.
func (c *CachingFeedSource) cacheKey(kind entity.Kind) string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(string(kind)))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
