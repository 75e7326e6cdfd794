package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryCache is an in-process Cache used when Redis is not configured.
// Values are stored JSON-encoded so callers never share mutable state.
type MemoryCache struct {
	items     *ttlcache.Cache[string, []byte]
	closeOnce sync.Once
}

func NewMemoryCache() *MemoryCache {
	items := ttlcache.New(
		ttlcache.WithTTL[string, []byte](DefaultTTL),
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)
	go items.Start()
	return &MemoryCache{items: items}
}

func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	item := c.items.Get(key)
	if item == nil || item.IsExpired() {
		return false, nil
	}
	if err := json.Unmarshal(item.Value(), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}
	if ttl <= 0 {
		ttl = ttlcache.NoTTL
	}
	c.items.Set(key, data, ttl)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		c.items.Delete(key)
	}
	return nil
}

func (c *MemoryCache) DeleteByPrefix(_ context.Context, prefix string) error {
	for _, key := range c.items.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.items.Delete(key)
		}
	}
	return nil
}

func (c *MemoryCache) Ping(context.Context) error {
	return nil
}

func (c *MemoryCache) Close() error {
	c.closeOnce.Do(c.items.Stop)
	return nil
}
