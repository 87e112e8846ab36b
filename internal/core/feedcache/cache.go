package feedcache

import (
	"context"
	"log/slog"
	"time"
)

// Cache is the process-wide page cache handed to the views that use it.
// Construct one at startup and share it; all methods are safe for concurrent use.
type Cache struct {
	backend Backend
	ttl     time.Duration
	logger  *slog.Logger
}

// New creates a cache over backend. A ttl of 0 disables caching: Put stores
// nothing and Get always misses.
func New(backend Backend, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}
	if ttl < 0 {
		ttl = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		backend: backend,
		ttl:     ttl,
		logger:  logger,
	}, nil
}

// TTL returns the lifetime of a stored page
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Enabled reports whether pages are stored at all
func (c *Cache) Enabled() bool {
	return c.ttl > 0
}

// Get returns the page stored under key. Backend errors are logged and read as a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.Enabled() {
		recordOperation("get", resultDisabled)
		return nil, false
	}

	body, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		recordOperation("get", resultError)
		c.logger.Warn("[FEED-CACHE] get failed, rendering fresh",
			"key", key,
			"error", err,
		)
		return nil, false
	}
	if !ok {
		recordOperation("get", resultMiss)
		return nil, false
	}

	recordOperation("get", resultHit)
	return body, true
}

// Put stores body under key for the cache TTL, replacing any previous entry.
// Backend errors are logged and otherwise ignored.
func (c *Cache) Put(ctx context.Context, key string, body []byte) {
	if !c.Enabled() {
		recordOperation("put", resultDisabled)
		return
	}

	if err := c.backend.Set(ctx, key, body, c.ttl); err != nil {
		recordOperation("put", resultError)
		c.logger.Warn("[FEED-CACHE] put failed, page not cached",
			"key", key,
			"error", err,
		)
		return
	}

	recordOperation("put", resultOK)
	c.logger.Debug("[FEED-CACHE] page cached",
		"key", key,
		"size_bytes", len(body),
		"ttl", c.ttl,
	)
}

// Clear drops every stored page. It is idempotent and safe on an empty cache.
func (c *Cache) Clear(ctx context.Context) {
	if err := c.backend.Clear(ctx); err != nil {
		recordOperation("clear", resultError)
		c.logger.Error("[FEED-CACHE] clear failed", "error", err)
		return
	}

	recordOperation("clear", resultOK)
	c.logger.Info("[FEED-CACHE] cache cleared")
}
