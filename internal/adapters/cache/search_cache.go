package cache

import (
	"strings"
	"sync"
	"time"

	"weatherly/internal/domain"
)

const (
	DefaultSearchTTL        = 10 * time.Minute
	DefaultSearchMaxEntries = 256
)

// MemorySearchCache keeps forward-search results in memory for the
// lifetime of a session. Entries expire after the TTL; nothing is persisted.
// Keys are expected to be consistent (e.g., normalized) by the caller.
type MemorySearchCache struct {
	mu         sync.RWMutex
	entries    map[string]searchEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

type searchEntry struct {
	results   []domain.PlaceRecord
	expiresAt time.Time
}

// NewMemorySearchCache creates a cache. A non-positive ttl or maxEntries
// falls back to the defaults.
func NewMemorySearchCache(ttl time.Duration, maxEntries int) *MemorySearchCache {
	if ttl <= 0 {
		ttl = DefaultSearchTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultSearchMaxEntries
	}
	return &MemorySearchCache{
		entries:    make(map[string]searchEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns a copy of the cached results for key.
func (c *MemorySearchCache) Get(key string) ([]domain.PlaceRecord, bool) {
	key = strings.TrimSpace(key)

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	return append([]domain.PlaceRecord(nil), e.results...), true
}

// Put stores results under key. Empty keys are ignored.
func (c *MemorySearchCache) Put(key string, results []domain.PlaceRecord) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evict()
	}

	c.entries[key] = searchEntry{
		results:   append([]domain.PlaceRecord(nil), results...),
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *MemorySearchCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// evict drops expired entries, then the entry closest to expiry if the
// cache is still full. Must be called with the lock held.
func (c *MemorySearchCache) evict() {
	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	if len(c.entries) < c.maxEntries {
		return
	}

	var oldest string
	var oldestAt time.Time
	for k, e := range c.entries {
		if oldest == "" || e.expiresAt.Before(oldestAt) {
			oldest, oldestAt = k, e.expiresAt
		}
	}
	delete(c.entries, oldest)
}
