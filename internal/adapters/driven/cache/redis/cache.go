// Package redis provides an extraction cache backed by a Redis
// key-value store with native TTL support.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.ExtractionCache = (*Cache)(nil)

// keyPrefix namespaces cache entries within a shared Redis instance.
const keyPrefix = "skillmap:extraction:"

// dialTimeout bounds the initial connectivity check.
const dialTimeout = 5 * time.Second

// Cache is a Redis-backed extraction cache. Entries are JSON values
// with a server-side TTL; SET overwrites make the last writer win,
// which is the documented best-effort contract.
type Cache struct {
	rdb *goredis.Client
}

// New connects to Redis at addr and verifies connectivity with a ping.
func New(addr string) (*Cache, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: dialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Cache{rdb: rdb}, nil
}

// Get returns the cached result for the key, or nil on a miss.
// Backend failures surface as ErrCacheUnavailable so the caller can
// fall through to a direct LLM call.
func (c *Cache) Get(ctx context.Context, key string) (*domain.ExtractionResult, error) {
	payload, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	var result domain.ExtractionResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, nil // A corrupt entry is just a miss
	}
	return &result, nil
}

// Put stores a result under the key with the given TTL.
func (c *Cache) Put(ctx context.Context, key string, result *domain.ExtractionResult, ttl time.Duration) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, keyPrefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	return c.rdb.Close()
}
