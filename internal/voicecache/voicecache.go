// Package voicecache provides an expiring in-memory cache for discovered
// voice lists. Keys are engine+language combinations, so the entry count is
// bounded in practice by engine and language cardinality; there is no LRU.
package voicecache

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alouette/alouette/tts"
)

// DefaultTTL is how long a cached voice list stays valid.
const DefaultTTL = 24 * time.Hour

// Entry is one cached voice list with its insertion timestamp.
type Entry struct {
	Key      string
	Voices   []tts.Voice
	CachedAt time.Time
}

// Stats reports cache behavior counters.
type Stats struct {
	Entries   int
	Hits      int64
	Misses    int64
	Evictions int64
}

// Cache is an expiring key -> voice-list cache. Expired entries are lazily
// evicted on access; CleanupExpired sweeps the whole map. Safe for use from
// multiple goroutines.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Entry
	ttl     time.Duration
	now     func() time.Time

	hits      int64
	misses    int64
	evictions int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the default 24h TTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock injects a clock, used by tests to control expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a voice cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*Entry),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key builds the canonical cache key for an engine+language combination.
func Key(engine tts.EngineType, language string) string {
	return string(engine) + ":" + language
}

// Get returns the cached voice list for key, or nil if absent or expired.
// An expired entry is removed as part of the lookup.
func (c *Cache) Get(key string) []tts.Voice {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil
	}
	if c.now().Sub(entry.CachedAt) > c.ttl {
		delete(c.entries, key)
		c.evictions++
		c.misses++
		log.Debug("voice cache entry expired", "key", key, "age", c.now().Sub(entry.CachedAt))
		return nil
	}
	c.hits++
	return entry.Voices
}

// Put stores a voice list under key, replacing any previous entry.
func (c *Cache) Put(key string, voices []tts.Voice) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &Entry{Key: key, Voices: voices, CachedAt: c.now()}
}

// Invalidate removes a single entry.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidateAll empties the cache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry)
}

// CleanupExpired sweeps every entry past its TTL and returns how many were
// removed.
func (c *Cache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	cutoff := c.now().Add(-c.ttl)
	for key, entry := range c.entries {
		if entry.CachedAt.Before(cutoff) {
			delete(c.entries, key)
			c.evictions++
			removed++
		}
	}
	if removed > 0 {
		log.Debug("voice cache sweep", "removed", removed, "remaining", len(c.entries))
	}
	return removed
}

// Contains reports whether key has a live entry without counting a hit.
func (c *Cache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return false
	}
	return c.now().Sub(entry.CachedAt) <= c.ttl
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Entries:   len(c.entries),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}
