// Package cache provides a goroutine-safe in-memory TTL cache used by the
// store for hot objects (users) and by the bot for live chat sessions.
package cache

import (
	"context"
	"sync"
	"time"
)

// Config holds the cache settings.
type Config struct {
	// DefaultTTL is applied by Set. Zero means entries never expire.
	DefaultTTL time.Duration
	// CleanupInterval is how often expired entries are swept. Zero disables
	// the background sweeper; expired entries are then dropped lazily on Get.
	CleanupInterval time.Duration
	// MaxItems caps the cache size. When full, the entry closest to expiry
	// is evicted. Zero means unbounded.
	MaxItems int
	// OnEviction, when set, runs for every entry removed by expiry, eviction
	// or Delete. It must not call back into the cache.
	OnEviction func(key string, value any)
}

type item struct {
	value     any
	expiresAt time.Time // zero means no expiry
}

func (i item) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// Cache is an in-memory key-value cache with per-entry TTL.
type Cache struct {
	config Config

	mu    sync.RWMutex
	items map[string]item

	stopOnce sync.Once
	stop     chan struct{}
}

// New creates a cache and starts its background sweeper when configured.
func New(config Config) *Cache {
	c := &Cache{
		config: config,
		items:  make(map[string]item),
		stop:   make(chan struct{}),
	}
	if config.CleanupInterval > 0 {
		go c.janitor()
	}
	return c
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	c.SetWithTTL(ctx, key, value, c.config.DefaultTTL)
}

// SetWithTTL stores value under key with an explicit TTL. A zero ttl stores
// the entry without expiry.
func (c *Cache) SetWithTTL(_ context.Context, key string, value any, ttl time.Duration) {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	if _, exists := c.items[key]; !exists && c.config.MaxItems > 0 && len(c.items) >= c.config.MaxItems {
		c.evictOneLocked()
	}
	c.items[key] = item{value: value, expiresAt: expiresAt}
	c.mu.Unlock()
}

// Get returns the value stored under key, dropping it first if expired.
func (c *Cache) Get(_ context.Context, key string) (any, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if it.expired(time.Now()) {
		c.remove(key)
		return nil, false
	}
	return it.value, true
}

// Delete removes the entry stored under key.
func (c *Cache) Delete(_ context.Context, key string) {
	c.remove(key)
}

// Clear removes every entry.
func (c *Cache) Clear(_ context.Context) {
	c.mu.Lock()
	items := c.items
	c.items = make(map[string]item)
	c.mu.Unlock()

	if c.config.OnEviction != nil {
		for key, it := range items {
			c.config.OnEviction(key, it.value)
		}
	}
}

// Len returns the number of entries, including not-yet-swept expired ones.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the background sweeper. The cache stays usable afterwards.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache) remove(key string) {
	c.mu.Lock()
	it, ok := c.items[key]
	if ok {
		delete(c.items, key)
	}
	c.mu.Unlock()

	if ok && c.config.OnEviction != nil {
		c.config.OnEviction(key, it.value)
	}
}

// evictOneLocked drops the entry closest to expiry, preferring already
// expired ones. Entries without expiry are only evicted when nothing else
// qualifies. Caller holds c.mu.
func (c *Cache) evictOneLocked() {
	var victim string
	var victimExpiry time.Time
	found := false
	for key, it := range c.items {
		if it.expiresAt.IsZero() {
			if !found && victim == "" {
				victim = key
			}
			continue
		}
		if !found || it.expiresAt.Before(victimExpiry) {
			victim, victimExpiry, found = key, it.expiresAt, true
		}
	}
	if victim == "" {
		return
	}
	it := c.items[victim]
	delete(c.items, victim)
	if c.config.OnEviction != nil {
		c.config.OnEviction(victim, it.value)
	}
}

func (c *Cache) janitor() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.sweep(now)
		}
	}
}

func (c *Cache) sweep(now time.Time) {
	c.mu.Lock()
	var evicted []struct {
		key   string
		value any
	}
	for key, it := range c.items {
		if it.expired(now) {
			delete(c.items, key)
			if c.config.OnEviction != nil {
				evicted = append(evicted, struct {
					key   string
					value any
				}{key, it.value})
			}
		}
	}
	c.mu.Unlock()

	for _, e := range evicted {
		c.config.OnEviction(e.key, e.value)
	}
}
