// Package memory provides an in-process extraction cache with TTL
// expiry. It is the default backend when no Redis address is
// configured.
package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.ExtractionCache = (*Cache)(nil)

// entry is one cached value with its expiry deadline.
type entry struct {
	payload   []byte
	expiresAt time.Time
}

// Cache is an in-memory extraction cache. Values are stored as
// marshalled JSON so a Get returns data byte-identical to what was
// Put, independent of later mutation by callers.
//
// The mutex only protects the map structure. The cache remains
// best-effort: two goroutines missing on the same key will both call
// the LLM upstream and the last Put wins.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// New creates an empty in-memory cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached result for the key, or nil on a miss.
// Expired entries are treated as misses and dropped lazily.
func (c *Cache) Get(_ context.Context, key string) (*domain.ExtractionResult, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a fresher Put may have landed
		if cur, ok := c.entries[key]; ok && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, nil
	}

	var result domain.ExtractionResult
	if err := json.Unmarshal(e.payload, &result); err != nil {
		return nil, nil // A corrupt entry is just a miss
	}
	return &result, nil
}

// Put stores a result under the key with the given TTL.
func (c *Cache) Put(_ context.Context, key string, result *domain.ExtractionResult, ttl time.Duration) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		payload:   payload,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// SetClock replaces the time source. Useful for TTL tests.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
