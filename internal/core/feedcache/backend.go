// Package feedcache stores rendered feed pages for a fixed time window.
//
// Entries are keyed by view, route and query string. A stored page is served
// unchanged until its TTL passes or the cache is cleared; writes to posts do
// not invalidate it. Storage failures never reach the caller: they read as a
// miss and the page is rendered fresh.
package feedcache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNilBackend is returned when a cache is constructed without storage
	ErrNilBackend = errors.New("feed cache backend is nil")

	// ErrEmptyKey is returned by backends for an empty cache key
	ErrEmptyKey = errors.New("cache key is empty")

	// ErrNonPositiveTTL is returned by backends asked to store an entry that would never expire
	ErrNonPositiveTTL = errors.New("cache ttl must be positive")
)

// Backend is the storage behind the feed cache.
// Implementations must be safe for concurrent use and make each call atomic:
// a Get observes either a whole entry or none.
type Backend interface {
	// Get returns the stored value and true, or (nil, false, nil) when the key is
	// missing or its entry has expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores or overwrites value under key; the entry expires ttl from now.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Clear removes every entry owned by this backend.
	Clear(ctx context.Context) error
}

func validateSet(key string, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	if ttl <= 0 {
		return ErrNonPositiveTTL
	}
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
