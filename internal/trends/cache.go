package trends

import (
	"sync"
	"time"
)

type cacheEntry struct {
	keywords []Keyword
	expiry   time.Time
}

// Cache memoizes aggregated trend results with a fixed TTL. Entries are
// built fully before being published, so concurrent readers never observe a
// half-written set. An entry whose expiry has arrived is a miss.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewCache creates a Cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached keywords for key while now < expiry. Callers get
// their own copy; the stored entry is never aliased out.
func (c *Cache) Get(key string) ([]Keyword, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.now().Before(entry.expiry) {
		return nil, false
	}

	out := make([]Keyword, len(entry.keywords))
	copy(out, entry.keywords)
	return out, true
}

// Put stores a copy of keywords under key with a fresh expiry.
func (c *Cache) Put(key string, keywords []Keyword) {
	stored := make([]Keyword, len(keywords))
	copy(stored, keywords)
	entry := cacheEntry{keywords: stored, expiry: c.now().Add(c.ttl)}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
}
