// Package cache is the read cache in front of the account store. Values are
// stored as JSON under deterministic keys; every key belongs to a tag (the
// namespace before the first ':') so whole families can be evicted at once.
package cache

import (
	"context"
	"time"
)

// DefaultTTL bounds how stale a cached entry can become.
const DefaultTTL = 60 * time.Second

type Cache interface {
	// Get decodes the entry under key into dst. It reports false on a miss.
	Get(ctx context.Context, key string, dst any) (bool, error)

	// Put stores value under key for ttl. A non-positive ttl uses DefaultTTL.
	Put(ctx context.Context, key string, value any, ttl time.Duration) error

	// Evict removes a single key. Missing keys are not an error.
	Evict(ctx context.Context, key string) error

	// EvictAll removes every key carrying the tag.
	EvictAll(ctx context.Context, tag string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
}

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
