package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const memoryCleanupInterval = 5 * time.Minute

// MemoryCache is an in-process Cache. Entries are JSON encoded like the Redis
// backend so both behave the same for callers.
type MemoryCache struct {
	items *gocache.Cache
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: gocache.New(DefaultTTL, memoryCleanupInterval)}
}

func (c *MemoryCache) Get(_ context.Context, key string, dst any) (bool, error) {
	v, ok := c.items.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(v.([]byte), dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *MemoryCache) Put(_ context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items.Set(key, b, ttlOrDefault(ttl))
	return nil
}

func (c *MemoryCache) Evict(_ context.Context, key string) error {
	c.items.Delete(key)
	return nil
}

func (c *MemoryCache) EvictAll(_ context.Context, tag string) error {
	for key := range c.items.Items() {
		if TagOf(key) == tag {
			c.items.Delete(key)
		}
	}
	return nil
}

func (c *MemoryCache) Ping(context.Context) error { return nil }

// Len reports the number of live entries.
func (c *MemoryCache) Len() int { return len(c.items.Items()) }
