package prompt

import (
	"sort"
	"sync"
)

// Cache memoizes successful resolutions for the life of the process. Safe
// for concurrent use. Entries are written only after full validation, so a
// failed resolution leaves nothing behind. There is no eviction; expected
// cardinality is tens of templates.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Template
}

// NewCache creates an empty resolution cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Template)}
}

// Get returns the cached template for the normalized identifier key.
func (c *Cache) Get(key string) (Template, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.entries[key]
	return t, ok
}

// Put stores a template under the normalized identifier key. Concurrent
// resolutions of the same identifier may both store; the last write wins.
func (c *Cache) Put(key string, t Template) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = t
}

// Len returns the number of cached templates.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Keys returns the cached identifier keys, sorted.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Purge drops every cached entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Template)
}
