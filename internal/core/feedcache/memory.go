package feedcache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryBackend keeps entries in process memory.
// Expired entries read as a miss and are dropped by the janitor every cleanupInterval;
// a cleanupInterval of 0 disables the janitor.
type MemoryBackend struct {
	store *gocache.Cache
}

// NewMemoryBackend creates an empty in-process backend
func NewMemoryBackend(cleanupInterval time.Duration) *MemoryBackend {
	if cleanupInterval < 0 {
		cleanupInterval = 0
	}
	return &MemoryBackend{
		store: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// Get returns a copy of the stored page
func (m *MemoryBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}

	v, ok := m.store.Get(key)
	if !ok {
		return nil, false, nil
	}

	body, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	return cloneBytes(body), true, nil
}

// Set stores a copy of value
func (m *MemoryBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := validateSet(key, ttl); err != nil {
		return err
	}
	m.store.Set(key, cloneBytes(value), ttl)
	return nil
}

// Clear drops every entry
func (m *MemoryBackend) Clear(ctx context.Context) error {
	m.store.Flush()
	return nil
}

// Len returns the number of stored entries, expired ones included until the janitor runs
func (m *MemoryBackend) Len() int {
	return m.store.ItemCount()
}
