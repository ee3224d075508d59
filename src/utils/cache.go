package utils

import (
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	value      V
	cachedAt   time.Time
	expiration time.Time
}

// Cache is a keyed cache whose entries go stale after their ttl but are kept
// around, so callers can still fall back to the last value they stored.
type Cache[K comparable, V any] struct {
	entries map[K]cacheEntry[V]
	mutex   sync.RWMutex
	now     func() time.Time
}

// NewCache initializes an empty cache. A nil clock uses time.Now.
func NewCache[K comparable, V any](clock func() time.Time) *Cache[K, V] {
	if clock == nil {
		clock = time.Now
	}
	return &Cache[K, V]{
		entries: make(map[K]cacheEntry[V]),
		now:     clock,
	}
}

func (c *Cache[K, V]) Set(key K, value V, ttl time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	c.entries[key] = cacheEntry[V]{value: value, cachedAt: now, expiration: now.Add(ttl)}
}

// Get returns the value only while it is fresh.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().After(entry.expiration) {
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Last returns the most recent value stored for key, fresh or not, and the
// time it was stored.
func (c *Cache[K, V]) Last(key K) (V, time.Time, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, ok := c.entries[key]
	return entry.value, entry.cachedAt, ok
}
