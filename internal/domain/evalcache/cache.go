// Package evalcache memoizes pairwise conflict evaluations.
package evalcache

import (
	"sync"
	"sync/atomic"

	"github.com/okian/kitcheck/internal/domain/conflict"
)

// DefaultMaxSize bounds a cache built without WithMaxSize.
const DefaultMaxSize = 4096

// Key identifies one evaluation: the two colors as given and the baselines
// the thresholds were derived from.
type Key struct {
	A            string
	B            string
	BaseDeltaE   float64
	BaseContrast float64
}

// Cache stores evaluation results.
type Cache interface {
	// Get returns the cached result for key.
	Get(key Key) (conflict.Result, bool)

	// Put records r under key, evicting the oldest entry when full.
	Put(key Key, r conflict.Result)

	Size() int64
	Hits() int64
	Misses() int64
}

// node is one entry of the insertion-ordered list.
type node struct {
	key    Key
	result conflict.Result
	prev   *node
	next   *node
}

func (n *node) reset() {
	*n = node{}
}

// inMemoryCache keeps entries in a map plus a doubly linked list in insertion
// order. Bounded mode (maxSize > 0) evicts the oldest entry; unbounded mode
// never evicts.
type inMemoryCache struct {
	mu       sync.Mutex
	entries  map[Key]*node
	head     *node // newest
	tail     *node // oldest
	maxSize  int
	size     atomic.Int64
	hits     atomic.Int64
	misses   atomic.Int64
	nodePool sync.Pool
}

// New creates an in-memory cache.
func New(opts ...Option) Cache {
	c := &inMemoryCache{
		maxSize: DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = make(map[Key]*node)
	c.nodePool = sync.Pool{
		New: func() interface{} {
			return &node{}
		},
	}
	return c
}

func (c *inMemoryCache) Get(key Key) (conflict.Result, bool) {
	c.mu.Lock()
	n, ok := c.entries[key]
	var r conflict.Result
	if ok {
		r = n.result
	}
	c.mu.Unlock()

	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return r, ok
}

func (c *inMemoryCache) Put(key Key, r conflict.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, exists := c.entries[key]; exists {
		n.result = r
		return
	}
	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	n := c.nodePool.Get().(*node)
	n.key = key
	n.result = r
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
	c.entries[key] = n
	c.size.Add(1)
}

// evictOldest drops the tail. Must be called with c.mu held.
func (c *inMemoryCache) evictOldest() {
	n := c.tail
	if n == nil {
		return
	}
	c.tail = n.prev
	if c.tail != nil {
		c.tail.next = nil
	} else {
		c.head = nil
	}
	delete(c.entries, n.key)
	n.reset()
	c.nodePool.Put(n)
	c.size.Add(-1)
}

func (c *inMemoryCache) Size() int64   { return c.size.Load() }
func (c *inMemoryCache) Hits() int64   { return c.hits.Load() }
func (c *inMemoryCache) Misses() int64 { return c.misses.Load() }
