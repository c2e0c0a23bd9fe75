package memory

import (
	"context"
	"sync"
	"time"
)

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// IdempotencyCache implements port/idempotency.Store in process memory.
// Entries expire after ttl; a zero ttl keeps them forever.
type IdempotencyCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func NewIdempotencyCache(ttl time.Duration) *IdempotencyCache {
	return &IdempotencyCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *IdempotencyCache) Check(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if c.expired(entry) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (c *IdempotencyCache) Store(_ context.Context, key, _ string, response []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[key]; ok && !c.expired(entry) {
		return nil
	}
	entry := cacheEntry{value: append([]byte(nil), response...)}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}
	c.entries[key] = entry
	return nil
}

// Purge drops expired entries and returns how many were removed.
func (c *IdempotencyCache) Purge(_ context.Context, _ time.Time) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for k, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, k)
			n++
		}
	}
	return n, nil
}

func (c *IdempotencyCache) expired(e cacheEntry) bool {
	return !e.expiresAt.IsZero() && c.now().After(e.expiresAt)
}
