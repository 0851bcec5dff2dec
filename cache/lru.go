// Package cache provides a small thread-safe LRU cache with optional expiry.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRU implements a thread-safe least-recently-used cache
type LRU[K comparable, V any] struct {
	size      int
	ttl       time.Duration
	now       func() time.Time
	evictList *list.List
	items     map[K]*list.Element
	mu        sync.Mutex
}

// entry is stored in the cache
type entry[K comparable, V any] struct {
	key     K
	value   V
	expires time.Time
}

// Option configures an LRU
type Option func(*options)

type options struct {
	ttl time.Duration
	now func() time.Time
}

// WithTTL expires entries ttl after they were stored
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// NewLRU creates a new LRU cache holding at most size entries
func NewLRU[K comparable, V any](size int, opts ...Option) *LRU[K, V] {
	if size <= 0 {
		size = 1
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &LRU[K, V]{
		size:      size,
		ttl:       o.ttl,
		now:       o.now,
		evictList: list.New(),
		items:     make(map[K]*list.Element),
	}
}

// Get retrieves a value from the cache
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	node, exists := c.items[key]
	if !exists {
		return zero, false
	}

	ent := node.Value.(*entry[K, V])
	if c.ttl > 0 && c.now().After(ent.expires) {
		c.removeElement(node)
		return zero, false
	}

	// Move to front (most recently used)
	c.evictList.MoveToFront(node)
	return ent.value, true
}

// Put adds or updates a value in the cache
func (c *LRU[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expires time.Time
	if c.ttl > 0 {
		expires = c.now().Add(c.ttl)
	}

	if node, exists := c.items[key]; exists {
		c.evictList.MoveToFront(node)
		ent := node.Value.(*entry[K, V])
		ent.value = value
		ent.expires = expires
		return
	}

	node := c.evictList.PushFront(&entry[K, V]{key: key, value: value, expires: expires})
	c.items[key] = node

	if c.evictList.Len() > c.size {
		if oldest := c.evictList.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// Remove deletes key from the cache
func (c *LRU[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, exists := c.items[key]; exists {
		c.removeElement(node)
	}
}

func (c *LRU[K, V]) removeElement(node *list.Element) {
	c.evictList.Remove(node)
	delete(c.items, node.Value.(*entry[K, V]).key)
}

// Clear removes all items from the cache
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*list.Element)
	c.evictList.Init()
}

// Len returns the number of items in the cache
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.evictList.Len()
}
