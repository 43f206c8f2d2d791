package server

import (
	"crypto/sha256"
	"sync"
	"time"

	"github.com/mj1618/owl-recorder/internal/convert"
)

// cacheKey identifies one conversion request.
type cacheKey struct {
	Sum               [sha256.Size]byte
	SelectorAttribute string
}

// cacheEntry holds a cached result with its timestamp.
type cacheEntry struct {
	result    *convert.Result
	timestamp time.Time
}

// ResultCache is a TTL cache of conversion results keyed by recording content.
type ResultCache struct {
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewResultCache creates a new cache. A ttl of 0 disables caching.
func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		entries: make(map[cacheKey]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Convert returns a cached result if within TTL, otherwise runs fn and
// caches a successful result. Expired entries are dropped on every insert.
func (c *ResultCache) Convert(recording []byte, selectorAttribute string, fn func() (*convert.Result, error)) (*convert.Result, bool, error) {
	if c.ttl <= 0 {
		res, err := fn()
		return res, false, err
	}

	key := cacheKey{Sum: sha256.Sum256(recording), SelectorAttribute: selectorAttribute}

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && c.now().Sub(entry.timestamp) < c.ttl {
		res := entry.result
		c.mu.Unlock()
		return res, true, nil
	}
	c.mu.Unlock()

	res, err := fn()
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	c.prune()
	c.entries[key] = cacheEntry{result: res, timestamp: c.now()}
	c.mu.Unlock()

	return res, false, nil
}

// prune drops expired entries. The caller must hold c.mu.
func (c *ResultCache) prune() {
	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.timestamp) >= c.ttl {
			delete(c.entries, k)
		}
	}
}

// Len is the number of entries held, expired or not.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
