// Package cache provides a short-TTL memoization layer for expensive
// derived account status reads. Entries live only in process memory;
// horizontal scaling needs an external shared cache instead.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     any
	timestamp time.Time
}

// StatusCache memoizes derived per-subject status values under a TTL.
// A concurrent miss on the same key may recompute at most once extra,
// which is accepted; invalidation is exact and immediate so no reader
// observes a value older than the write that triggered it.
type StatusCache struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]entry
}

// NewStatusCache creates a cache with the given TTL. Each server owns
// one instance; tests construct their own.
func NewStatusCache(ttl time.Duration) *StatusCache {
	return &StatusCache{ttl: ttl, m: make(map[string]entry)}
}

// Key builds the canonical cache key for a subject and capability.
func Key(subjectID uint, capability string) string {
	return fmt.Sprintf("%d:%s", subjectID, capability)
}

// Get returns the cached value while it is fresh, otherwise calls
// compute, stores the result with the current timestamp, and returns it.
// The compute function runs outside the lock.
func (c *StatusCache) Get(key string, compute func() (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.m[key]; ok && time.Since(e.timestamp) < c.ttl {
		c.mu.Unlock()
		return e.value, nil
	}
	c.mu.Unlock()

	value, err := compute()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.m[key] = entry{value: value, timestamp: time.Now()}
	c.mu.Unlock()
	return value, nil
}

// Invalidate removes one entry immediately.
func (c *StatusCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}

// InvalidateSubject removes every capability entry derived from the
// subject. Mutations that change an account's derived status call this
// before acknowledging the write.
func (c *StatusCache) InvalidateSubject(subjectID uint) {
	prefix := fmt.Sprintf("%d:", subjectID)
	c.mu.Lock()
	for k := range c.m {
		if strings.HasPrefix(k, prefix) {
			delete(c.m, k)
		}
	}
	c.mu.Unlock()
}
