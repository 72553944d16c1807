package cache

import (
	"sync"
	"time"
)

// Clock lets tests move time forward without sleeping.
type Clock func() time.Time

type entry[V any] struct {
	value     V
	timestamp time.Time
}

// Keyed is a TTL cache with one entry per key.
type Keyed[K comparable, V any] struct {
	items map[K]entry[V]
	ttl   time.Duration
	now   Clock
	mu    sync.RWMutex
}

func NewKeyed[K comparable, V any](ttl time.Duration, now Clock) *Keyed[K, V] {
	if now == nil {
		now = time.Now
	}
	return &Keyed[K, V]{
		items: make(map[K]entry[V]),
		ttl:   ttl,
		now:   now,
	}
}

func (c *Keyed[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, exists := c.items[key]
	if !exists || c.now().Sub(cached.timestamp) >= c.ttl {
		var zero V
		return zero, false
	}
	return cached.value, true
}

func (c *Keyed[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry[V]{value: value, timestamp: c.now()}
}

func (c *Keyed[K, V]) Expire(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// Purge drops every entry older than the TTL and returns how many were removed.
func (c *Keyed[K, V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := c.now()
	for k, e := range c.items {
		if now.Sub(e.timestamp) >= c.ttl {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}

func (c *Keyed[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Single holds at most one entry. Setting a different key replaces it.
type Single[K comparable, V any] struct {
	key  K
	item entry[V]
	set  bool
	ttl  time.Duration
	now  Clock
	mu   sync.RWMutex
}

func NewSingle[K comparable, V any](ttl time.Duration, now Clock) *Single[K, V] {
	if now == nil {
		now = time.Now
	}
	return &Single[K, V]{ttl: ttl, now: now}
}

func (c *Single[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.set || c.key != key || c.now().Sub(c.item.timestamp) >= c.ttl {
		var zero V
		return zero, false
	}
	return c.item.value, true
}

func (c *Single[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.key = key
	c.item = entry[V]{value: value, timestamp: c.now()}
	c.set = true
}

func (c *Single[K, V]) Expire() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero K
	c.key = zero
	c.item = entry[V]{}
	c.set = false
}
