package preload

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// cache memoizes completed preloads. Keys are xxhash64 of the resolved
// URL; the resolver's deterministic output is what makes this hit.
type cache struct {
	mu      sync.RWMutex
	entries map[uint64]*Result
}

func newCache() *cache {
	return &cache{entries: make(map[uint64]*Result)}
}

func (c *cache) get(url string) (*Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[xxhash.Sum64String(url)]
	return r, ok
}

func (c *cache) put(url string, r *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[xxhash.Sum64String(url)] = r
}
