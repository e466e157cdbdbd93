package slots

import (
	"slices"
	"sync"
	"time"
)

// AllDatesKey is the cache key used when no date filter is requested.
const AllDatesKey = "ALL"

// DefaultTTL is how long a fetched slot list is served from cache.
const DefaultTTL = 10 * time.Second

type cacheEntry struct {
	key       string
	data      []RawSlot
	fetchedAt time.Time
}

// Cache memoizes the most recent slot listing. It holds a single entry: a
// lookup for another key is always a miss.
type Cache struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	entry *cacheEntry
}

// CacheOption configures optional cache behavior.
type CacheOption func(*Cache)

// WithClock overrides the time source used for freshness checks.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

func NewCache(ttl time.Duration, opts ...CacheOption) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{ttl: ttl, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func cacheKey(date string) string {
	if date == "" {
		return AllDatesKey
	}
	return date
}

// Get returns a copy of the cached list when it matches key and is still fresh.
func (c *Cache) Get(key string) ([]RawSlot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entry == nil || c.entry.key != key {
		return nil, false
	}
	if c.now().Sub(c.entry.fetchedAt) >= c.ttl {
		return nil, false
	}
	return slices.Clone(c.entry.data), true
}

// Put replaces the cached entry.
func (c *Cache) Put(key string, data []RawSlot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = &cacheEntry{key: key, data: slices.Clone(data), fetchedAt: c.now()}
}

// Invalidate drops the cached entry unconditionally.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = nil
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}
