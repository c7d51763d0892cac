package cache

import (
	"context"
	"time"

	"github.com/matzehuels/stackprov/pkg/observability"
)

// Instrumented reports hits, misses and writes of an inner cache to hooks.
type Instrumented struct {
	Cache
	hooks   observability.CacheHooks
	keyType string
}

// WithHooks wraps c so every lookup and write is reported under keyType.
// A nil hooks value returns c unchanged.
func WithHooks(c Cache, hooks observability.CacheHooks, keyType string) Cache {
	if hooks == nil {
		return c
	}
	return &Instrumented{Cache: c, hooks: hooks, keyType: keyType}
}

// Get implements Cache.
func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			c.hooks.OnCacheHit(ctx, c.keyType)
		} else {
			c.hooks.OnCacheMiss(ctx, c.keyType)
		}
	}
	return data, ok, err
}

// Set implements Cache.
func (c *Instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		c.hooks.OnCacheSet(ctx, c.keyType, len(data))
	}
	return err
}
