package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache key prefixes and TTLs.
const (
	pageKeyPrefix = "page:"
	pageSetPrefix = "pagekeys:"

	// DefaultPageTTL bounds staleness if an invalidation is ever missed.
	DefaultPageTTL = 60 * time.Second
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// PageVariant derives a cache key variant from a raw query string.
// Each (path, query) pair gets its own cached rendering.
func PageVariant(rawQuery string) string {
	if rawQuery == "" {
		return "default"
	}
	sum := sha256.Sum256([]byte(rawQuery))
	return hex.EncodeToString(sum[:8]) // 16 hex chars
}

func pageKey(path, variant string) string {
	return pageKeyPrefix + path + ":" + variant
}

// GetPage retrieves a cached page rendering.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetPage(ctx context.Context, path, variant string) ([]byte, error) {
	payload, err := c.client.Get(ctx, pageKey(path, variant)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return payload, nil
}

// SetPage stores a page rendering and tracks its key in the per-path
// set so InvalidatePath can drop every variant later.
func (c *Cache) SetPage(ctx context.Context, path, variant string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}

	key := pageKey(path, variant)
	setKey := pageSetPrefix + path

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, payload, ttl)
	pipe.SAdd(ctx, setKey, key)
	pipe.Expire(ctx, setKey, ttl+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache page: %w", err)
	}

	return nil
}

// InvalidatePath discards every cached rendering of the given logical
// path. This is the invalidation signal mutation handlers fire after
// a write.
func (c *Cache) InvalidatePath(ctx context.Context, path string) error {
	setKey := pageSetPrefix + path

	keys, err := c.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("failed to read page key set: %w", err)
	}

	pipe := c.client.Pipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, setKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to invalidate path %s: %w", path, err)
	}

	return nil
}
