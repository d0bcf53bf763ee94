package metadata

import (
	"sync"
	"time"
)

const (
	defaultCacheTTL      = 15 * time.Minute
	defaultCacheMaxItems = 1000
	janitorInterval      = time.Minute
)

// Cache is an in-memory TTL cache. A background janitor drops expired
// entries until Close is called.
type Cache[T any] struct {
	mu       sync.RWMutex
	entries  map[string]cacheEntry[T]
	ttl      time.Duration
	maxItems int
	now      func() time.Time

	done chan struct{}
	once sync.Once
}

type cacheEntry[T any] struct {
	value     T
	storedAt  time.Time
	expiresAt time.Time
}

// NewCache creates a cache. Non-positive ttl and maxItems fall back to 15m and 1000.
func NewCache[T any](ttl time.Duration, maxItems int) *Cache[T] {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if maxItems <= 0 {
		maxItems = defaultCacheMaxItems
	}

	c := &Cache[T]{
		entries:  make(map[string]cacheEntry[T]),
		ttl:      ttl,
		maxItems: maxItems,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go c.janitor()
	return c
}

// Get returns the value for key unless it is missing or expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Age reports how long ago key was stored.
func (c *Cache[T]) Age(key string) (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	return c.now().Sub(e.storedAt), true
}

// Set stores value under key for the cache TTL.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxItems {
		c.makeRoom(now)
	}
	c.entries[key] = cacheEntry[T]{value: value, storedAt: now, expiresAt: now.Add(c.ttl)}
}

// Delete removes key.
func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes every entry.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry[T])
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the janitor.
func (c *Cache[T]) Close() {
	c.once.Do(func() { close(c.done) })
}

// makeRoom drops expired entries, then the one expiring soonest if the cache
// is still full. Must be called with the lock held.
func (c *Cache[T]) makeRoom(now time.Time) {
	c.dropExpired(now)
	if len(c.entries) < c.maxItems {
		return
	}

	var victim string
	var soonest time.Time
	for key, e := range c.entries {
		if victim == "" || e.expiresAt.Before(soonest) {
			victim, soonest = key, e.expiresAt
		}
	}
	delete(c.entries, victim)
}

func (c *Cache[T]) dropExpired(now time.Time) {
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *Cache[T]) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			c.dropExpired(c.now())
			c.mu.Unlock()
		}
	}
}
