// Package cache provides a small in-memory cache with TTL support.
package cache

import (
	"sync"
	"time"
)

// entry is a single cached item
type entry[V any] struct {
	value      V
	expiration time.Time
}

// Cache is an in-memory cache with per-entry expiration.
// Expired entries are evicted lazily, so a Cache owns no goroutines.
type Cache[V any] struct {
	mu        sync.Mutex
	entries   map[string]entry[V]
	ttl       time.Duration
	nextSweep time.Time
	now       func() time.Time
}

// New creates a new cache with the specified default TTL
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get retrieves a live value from the cache
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if !c.now().Before(e.expiration) {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Set stores a value with the default TTL
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL. A non-positive TTL stores nothing.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.sweep(now)
	c.entries[key] = entry[V]{value: value, expiration: now.Add(ttl)}
}

// Clear removes all entries from the cache
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// sweep drops expired entries at most once per TTL. Caller holds c.mu.
func (c *Cache[V]) sweep(now time.Time) {
	if now.Before(c.nextSweep) {
		return
	}
	for key, e := range c.entries {
		if !now.Before(e.expiration) {
			delete(c.entries, key)
		}
	}
	c.nextSweep = now.Add(c.ttl)
}
