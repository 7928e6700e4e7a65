// Package cache fronts expensive provider calls with a TTL-keyed store.
// Two backends share the contract: an in-process store with FIFO eviction
// and a redis-backed store for deployments that need cross-process reuse.
// Callers are agnostic to which backend is active.
package cache

import (
	"context"
	"time"
)

// Store is the cache contract. Values are opaque byte payloads; entries are
// never mutated in place, only replaced or expired.
type Store interface {
	// Get returns the value for key, or ok=false on a miss. An expired
	// entry is deleted and counts as a miss.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key, reporting whether it was present.
	Delete(ctx context.Context, key string) (bool, error)

	// Has reports presence without counting toward hit/miss stats.
	Has(ctx context.Context, key string) (bool, error)

	// Clear drops all entries in this store's namespace.
	Clear(ctx context.Context) error

	// Stats returns a snapshot of hit/miss counters and current size.
	Stats(ctx context.Context) (Stats, error)
}

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Size    int     `json:"size"`
	HitRate float64 `json:"hitRate"`
}

// hitRate is hits/(hits+misses), 0 when no requests have occurred.
func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
