package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// CacheMetrics tracks cache performance
type CacheMetrics struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Sets      int64 `json:"sets"`
	Evictions int64 `json:"evictions"`
}

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

// TTLCache is a generic map whose entries expire ttl after they were stored.
// Expired entries are removed lazily, on the read that finds them.
type TTLCache[T any] struct {
	mu      sync.Mutex
	items   map[string]Entry[T]
	ttl     time.Duration
	name    string
	now     Clock
	metrics CacheMetrics
	logger  *zap.Logger
}

// Entry is a stored value with the time it was stored.
type Entry[T any] struct {
	Value    T         `json:"value"`
	StoredAt time.Time `json:"storedAt"`
}

// NewTTLCache creates an empty cache. A nil clock means time.Now.
func NewTTLCache[T any](ttl time.Duration, name string, now Clock, logger *zap.Logger) *TTLCache[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &TTLCache[T]{
		items:  make(map[string]Entry[T]),
		ttl:    ttl,
		name:   name,
		now:    now,
		logger: logger,
	}
}

func (c *TTLCache[T]) expired(e Entry[T], at time.Time) bool {
	return at.Sub(e.StoredAt) >= c.ttl
}

// Set stores value under key, stamped with the current time.
func (c *TTLCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = Entry[T]{Value: value, StoredAt: c.now()}
	c.metrics.Sets++

	c.logger.Debug("Cache set",
		zap.String("cache", c.name),
		zap.String("key", key),
		zap.Duration("ttl", c.ttl),
	)
}

// Get returns the live value for key. The second result reports whether an
// expired entry was found and evicted.
func (c *TTLCache[T]) Get(key string) (value T, ok bool, evicted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.items[key]
	if !found {
		c.metrics.Misses++
		c.logger.Debug("Cache miss", zap.String("cache", c.name), zap.String("key", key))
		return value, false, false
	}

	if c.expired(item, c.now()) {
		delete(c.items, key)
		c.metrics.Misses++
		c.metrics.Evictions++
		c.logger.Debug("Cache expired", zap.String("cache", c.name), zap.String("key", key))
		return value, false, true
	}

	c.metrics.Hits++
	c.logger.Debug("Cache hit", zap.String("cache", c.name), zap.String("key", key))
	return item.Value, true, false
}

// Has reports whether key is stored, live or not, without touching metrics.
func (c *TTLCache[T]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

func (c *TTLCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear removes all items from the cache
func (c *TTLCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]Entry[T])
	c.logger.Info("Cache cleared", zap.String("cache", c.name))
}

// Live returns a copy of the unexpired entries.
func (c *TTLCache[T]) Live() map[string]Entry[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	at := c.now()
	out := make(map[string]Entry[T], len(c.items))
	for k, e := range c.items {
		if !c.expired(e, at) {
			out[k] = e
		}
	}
	return out
}

// Restore loads previously persisted entries, dropping the expired ones.
// It returns how many were dropped.
func (c *TTLCache[T]) Restore(entries map[string]Entry[T]) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	at := c.now()
	dropped := 0
	for k, e := range entries {
		if c.expired(e, at) {
			dropped++
			continue
		}
		c.items[k] = e
	}
	return dropped
}

// GetMetrics returns current cache metrics
func (c *TTLCache[T]) GetMetrics() CacheMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metrics
}

// Size returns the number of stored items, expired ones included.
func (c *TTLCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
