package cache

import (
	"container/list"
	"sync"
)

type entry[K comparable, V any] struct {
	key   K
	value V
	err   error
}

// LRU is a bounded, mutex-guarded memo table. When full, the least recently
// used key is dropped. Loader failures are cached too, so a bad key is not
// recomputed on every lookup.
type LRU[K comparable, V any] struct {
	capacity int
	items    map[K]*list.Element
	order    *list.List
	mu       sync.Mutex
}

// New creates a cache holding at most capacity keys.
// Panics when capacity is not positive.
func New[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		panic("cache: LRU capacity must be positive")
	}
	return &LRU[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns the cached value for key and marks it as recently used.
// Keys whose load failed are reported as missing.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		e := elem.Value.(*entry[K, V])
		if e.err == nil {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// Put stores value under key, evicting the oldest key when full.
func (c *LRU[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(key, value, nil)
}

// GetOrLoad returns the cached result for key, calling load on a miss.
// load runs outside the lock; concurrent misses on one key may both load,
// the last result wins.
func (c *LRU[K, V]) GetOrLoad(key K, load func(K) (V, error)) (V, error) {
	c.mu.Lock()
	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		e := elem.Value.(*entry[K, V])
		c.mu.Unlock()
		return e.value, e.err
	}
	c.mu.Unlock()

	value, err := load(key)

	c.mu.Lock()
	c.store(key, value, err)
	c.mu.Unlock()
	return value, err
}

// Len returns the number of cached keys.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear drops every key.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*list.Element, c.capacity)
	c.order.Init()
}

// Must be called with lock held.
func (c *LRU[K, V]) store(key K, value V, err error) {
	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		e := elem.Value.(*entry[K, V])
		e.value, e.err = value, err
		return
	}

	c.items[key] = c.order.PushFront(&entry[K, V]{key: key, value: value, err: err})
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*entry[K, V]).key)
	}
}
