package feedcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces feed cache keys inside a shared Redis database
const DefaultRedisPrefix = "yatube:feedcache:"

const redisClearBatch = 100

// RedisBackend stores entries in Redis with native key expiry.
// All keys live under prefix, and Clear only touches that prefix.
type RedisBackend struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisBackend wraps an existing client. An empty prefix uses DefaultRedisPrefix.
func NewRedisBackend(client redis.UniversalClient, prefix string) (*RedisBackend, error) {
	if client == nil {
		return nil, ErrNilBackend
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisBackend{client: client, prefix: prefix}, nil
}

// NewRedisBackendFromURL parses a redis:// URL and connects lazily
func NewRedisBackendFromURL(redisURL string, opTimeout time.Duration) (*RedisBackend, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if opTimeout > 0 {
		opts.DialTimeout = opTimeout
		opts.ReadTimeout = opTimeout
		opts.WriteTimeout = opTimeout
	}
	return NewRedisBackend(redis.NewClient(opts), "")
}

func (b *RedisBackend) key(key string) string {
	return b.prefix + key
}

// Get fetches a page; a missing or expired key is a miss
func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}

	body, err := b.client.Get(ctx, b.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return body, true, nil
}

// Set writes a page with expiry ttl
func (b *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := validateSet(key, ttl); err != nil {
		return err
	}
	if err := b.client.Set(ctx, b.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Clear deletes every key under the backend prefix
func (b *RedisBackend) Clear(ctx context.Context) error {
	iter := b.client.Scan(ctx, 0, b.prefix+"*", redisClearBatch).Iterator()

	batch := make([]string, 0, redisClearBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == redisClearBatch {
			if err := b.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}

	if len(batch) > 0 {
		if err := b.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
	}
	return nil
}

// Ping checks connectivity; used at startup to log a degraded cache early
func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close releases the underlying client
func (b *RedisBackend) Close() error {
	return b.client.Close()
}
