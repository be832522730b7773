package dashboard

import (
	"crypto/sha1"
	"encoding/hex"
	"sync"
	"time"
)

// RenderCache memoizes rendered chart HTML per panel, theme and dataset.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// DefaultChartCacheCapacity covers four panels in two themes with room for
// custom panels and datasets.
const DefaultChartCacheCapacity = 64

// ChartCache keeps rendered chart HTML for a fixed TTL. When full it evicts
// expired entries first, then the oldest insert. A zero TTL disables storage.
type ChartCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	now      func() time.Time
	entries  map[string]chartEntry
	order    []string
}

type chartEntry struct {
	html    string
	expires time.Time
}

// ChartCacheOption customizes a ChartCache.
type ChartCacheOption func(*ChartCache)

// WithCacheCapacity bounds the number of stored charts.
func WithCacheCapacity(n int) ChartCacheOption {
	return func(c *ChartCache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithCacheClock replaces time.Now for expiry checks.
func WithCacheClock(now func() time.Time) ChartCacheOption {
	return func(c *ChartCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewChartCache builds a cache whose entries live for ttl.
func NewChartCache(ttl time.Duration, opts ...ChartCacheOption) *ChartCache {
	c := &ChartCache{
		ttl:      ttl,
		capacity: DefaultChartCacheCapacity,
		now:      time.Now,
		entries:  map[string]chartEntry{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrRender serves a live entry or calls render and stores its result.
// Render errors are returned and never cached.
func (c *ChartCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if c == nil || c.ttl <= 0 {
		return render()
	}
	if html, ok := c.lookup(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.store(key, html)
	return html, nil
}

// Len reports the number of stored entries, expired ones included.
func (c *ChartCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Purge drops every entry.
func (c *ChartCache) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]chartEntry{}
	c.order = nil
}

func (c *ChartCache) lookup(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if !c.now().Before(entry.expires) {
		c.dropLocked(key)
		return "", false
	}
	return entry.html, true
}

func (c *ChartCache) store(key, html string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if _, exists := c.entries[key]; exists {
		c.dropLocked(key)
	}
	if len(c.entries) >= c.capacity {
		for k, entry := range c.entries {
			if !now.Before(entry.expires) {
				c.dropLocked(k)
			}
		}
	}
	for len(c.entries) >= c.capacity && len(c.order) > 0 {
		c.dropLocked(c.order[0])
	}
	c.entries[key] = chartEntry{html: html, expires: now.Add(c.ttl)}
	c.order = append(c.order, key)
}

func (c *ChartCache) dropLocked(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// contentHash digests dataset bytes for cache keys.
func contentHash(b []byte) string {
	if len(b) == 0 {
		return "empty"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
