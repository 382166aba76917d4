// Package cache provides fingerprints, in-process memoization and byte caches
// for derived storyline artifacts.
//
// A [Memo] holds one derived value (edge list, validation report, layout)
// and recomputes it only when the fingerprint of its inputs changes. A
// [Cache] stores rendered artifacts such as SVG diagrams across runs; the
// CLI uses [FileCache], the server can share a [RedisCache], and [NullCache]
// disables caching.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/storyforge/pkg/observability"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Fetch returns the cached value for key or produces, stores and returns it.
// keyType labels hook events. A failed cache write is not reported; the
// produced value is still returned.
func Fetch(ctx context.Context, c Cache, key, keyType string, ttl time.Duration, produce func() ([]byte, error)) ([]byte, error) {
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, keyType)
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, keyType)

	data, err := produce()
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, key, data, ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, keyType, len(data))
	}
	return data, nil
}
