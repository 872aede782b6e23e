package cache

import (
	"container/list"
	"sync"
	"time"
)

// EvictReason tells an eviction hook why an entry left the cache.
type EvictReason int

const (
	EvictCapacity EvictReason = iota
	EvictExpired
	EvictDeleted
)

func (r EvictReason) String() string {
	switch r {
	case EvictCapacity:
		return "capacity"
	case EvictExpired:
		return "expired"
	case EvictDeleted:
		return "deleted"
	}
	return "unknown"
}

// Stats counts cache traffic since creation. Evictions includes entries
// removed by Delete.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

// Option configures an LRUCache.
type Option func(*options)

type options struct {
	sliding bool
	onEvict func(key string, reason EvictReason)
	now     func() time.Time
}

// WithSlidingExpiry makes every successful Get push the expiry forward by
// the TTL, so entries in active use do not expire.
func WithSlidingExpiry() Option {
	return func(o *options) { o.sliding = true }
}

// WithEvictHook registers fn to run after an entry is removed. fn is called
// without the cache lock held.
func WithEvictHook(fn func(key string, reason EvictReason)) Option {
	return func(o *options) { o.onEvict = fn }
}

// LRUCache holds at most maxSize entries for ttl each, dropping the least
// recently used one when full.
type LRUCache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	opts    options
	entries map[string]*list.Element
	order   *list.List // front is most recently used
	stats   Stats
}

type entry[T any] struct {
	key       string
	value     T
	expiresAt time.Time
}

type eviction struct {
	key    string
	reason EvictReason
}

// NewLRUCache creates a cache of at least one entry.
func NewLRUCache[T any](maxSize int, ttl time.Duration, opts ...Option) *LRUCache[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &LRUCache[T]{
		maxSize: max(maxSize, 1),
		ttl:     ttl,
		opts:    o,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

func (c *LRUCache[T]) Get(key string) (T, bool) {
	var zero T
	c.mu.Lock()
	elem, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		c.mu.Unlock()
		return zero, false
	}
	e := elem.Value.(*entry[T])
	now := c.opts.now()
	if now.After(e.expiresAt) {
		c.unlink(elem)
		c.stats.Misses++
		c.mu.Unlock()
		c.notify(eviction{key, EvictExpired})
		return zero, false
	}
	if c.opts.sliding {
		e.expiresAt = now.Add(c.ttl)
	}
	c.order.MoveToFront(elem)
	c.stats.Hits++
	value := e.value
	c.mu.Unlock()
	return value, true
}

// Set stores value under key and restarts its TTL.
func (c *LRUCache[T]) Set(key string, value T) {
	expiresAt := c.opts.now().Add(c.ttl)

	c.mu.Lock()
	if elem, ok := c.entries[key]; ok {
		e := elem.Value.(*entry[T])
		e.value, e.expiresAt = value, expiresAt
		c.order.MoveToFront(elem)
		c.mu.Unlock()
		return
	}
	c.entries[key] = c.order.PushFront(&entry[T]{key: key, value: value, expiresAt: expiresAt})

	var evicted []eviction
	for c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		evicted = append(evicted, eviction{c.unlink(oldest), EvictCapacity})
	}
	c.mu.Unlock()
	c.notify(evicted...)
}

func (c *LRUCache[T]) Delete(key string) {
	c.mu.Lock()
	elem, ok := c.entries[key]
	if ok {
		c.unlink(elem)
	}
	c.mu.Unlock()
	if ok {
		c.notify(eviction{key, EvictDeleted})
	}
}

// CleanExpired drops every expired entry and returns how many were dropped.
func (c *LRUCache[T]) CleanExpired() int {
	c.mu.Lock()
	now := c.opts.now()
	var evicted []eviction
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if now.After(elem.Value.(*entry[T]).expiresAt) {
			evicted = append(evicted, eviction{c.unlink(elem), EvictExpired})
		}
		elem = prev
	}
	c.mu.Unlock()
	c.notify(evicted...)
	return len(evicted)
}

func (c *LRUCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns a snapshot of the traffic counters.
func (c *LRUCache[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// unlink removes elem and returns its key. Caller holds c.mu.
func (c *LRUCache[T]) unlink(elem *list.Element) string {
	key := elem.Value.(*entry[T]).key
	delete(c.entries, key)
	c.order.Remove(elem)
	c.stats.Evictions++
	return key
}

func (c *LRUCache[T]) notify(evicted ...eviction) {
	if c.opts.onEvict == nil {
		return
	}
	for _, ev := range evicted {
		c.opts.onEvict(ev.key, ev.reason)
	}
}
