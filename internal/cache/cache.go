// Package cache remembers parse results so repeated descriptions skip extraction.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"jobparser/internal/config"
	"jobparser/internal/errors"
	"jobparser/internal/types"
)

const keyPrefix = "jobparser:record:"

// Cache stores records by key. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (types.Record, bool, error)
	Set(ctx context.Context, key string, rec types.Record) error
}

// Key is the cache key for text parsed with the library at version.
// Records from an older library are never served after an overlay reload.
func Key(version, text string) string {
	sum := sha256.Sum256([]byte(text))
	return keyPrefix + version + ":" + hex.EncodeToString(sum[:])
}

// Nop is the cache used when caching is disabled.
type Nop struct{}

func (Nop) Get(context.Context, string) (types.Record, bool, error) { return types.Record{}, false, nil }

func (Nop) Set(context.Context, string, types.Record) error { return nil }

// cacheClient is the part of *redis.Client the cache uses.
type cacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisCache stores records as JSON strings with a TTL.
type RedisCache struct {
	client cacheClient
	ttl    time.Duration
	close  func() error
}

// NewRedisCache parses the redis URL and verifies connectivity.
func NewRedisCache(ctx context.Context, cfg config.CacheConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "invalid cache redisURL", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.NewStorageError(errors.ErrCodeCacheFailed, "redis ping failed", err)
	}

	c := newRedisCache(client, cfg.TTL)
	c.close = client.Close
	return c, nil
}

func newRedisCache(client cacheClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (types.Record, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return types.Record{}, false, nil
	}
	if err != nil {
		return types.Record{}, false, errors.NewStorageError(errors.ErrCodeCacheFailed, "cache read failed", err)
	}

	var rec types.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		// A corrupt entry is a miss; the next Set overwrites it.
		return types.Record{}, false, nil
	}
	return rec, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, rec types.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeCacheFailed, "failed to encode record", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return errors.NewStorageError(errors.ErrCodeCacheFailed, "cache write failed", err)
	}
	return nil
}

// Close releases the redis connection
func (c *RedisCache) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}
