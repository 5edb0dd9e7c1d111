// Package cache provides a small generic LRU used to keep compiled
// FHIRPath expressions between validations.
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 100

// Cache is a thread-safe LRU cache.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	items    map[K]*list.Element
	order    *list.List
	capacity int

	hits   atomic.Uint64
	misses atomic.Uint64
	evicts atomic.Uint64
}

type item[K comparable, V any] struct {
	key   K
	value V
}

// New creates a cache holding at most capacity values.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache[K, V]{
		items:    make(map[K]*list.Element, capacity),
		order:    list.New(),
		capacity: capacity,
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(key)
}

func (c *Cache[K, V]) get(key K) (V, bool) {
	el, ok := c.items[key]
	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.hits.Add(1)
	c.order.MoveToFront(el)
	return el.Value.(*item[K, V]).value, true
}

// Set stores value under key, evicting the least recently used value when full.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, value)
}

func (c *Cache[K, V]) set(key K, value V) {
	if el, ok := c.items[key]; ok {
		el.Value.(*item[K, V]).value = value
		c.order.MoveToFront(el)
		return
	}
	if len(c.items) >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			delete(c.items, oldest.Value.(*item[K, V]).key)
			c.order.Remove(oldest)
			c.evicts.Add(1)
		}
	}
	c.items[key] = c.order.PushFront(&item[K, V]{key: key, value: value})
}

// GetOrCompute returns the cached value for key, or calls fn and caches its
// result. Errors are returned and not cached. fn runs under the cache lock.
func (c *Cache[K, V]) GetOrCompute(key K, fn func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.get(key); ok {
		return v, nil
	}
	v, err := fn()
	if err != nil {
		return v, err
	}
	c.set(key, v)
	return v, nil
}

// Len returns the number of cached values.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Purge removes every value. Counters are kept.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*list.Element, c.capacity)
	c.order.Init()
}

// Stats holds cache statistics.
type Stats struct {
	Size     int
	Capacity int
	Hits     uint64
	Misses   uint64
	Evicts   uint64
	HitRate  float64
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	hits, misses := c.hits.Load(), c.misses.Load()
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return Stats{
		Size:     c.Len(),
		Capacity: c.capacity,
		Hits:     hits,
		Misses:   misses,
		Evicts:   c.evicts.Load(),
		HitRate:  rate,
	}
}
