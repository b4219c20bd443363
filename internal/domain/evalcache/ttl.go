package evalcache

import (
	"strconv"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/okian/kitcheck/internal/domain/conflict"
)

// ttlCache expires entries a fixed time after they were stored. It has no
// size bound.
type ttlCache struct {
	items  *gocache.Cache
	hits   atomic.Int64
	misses atomic.Int64
}

// NewTTL creates a cache whose entries expire after ttl. Expired entries are
// purged every ttl*2.
func NewTTL(ttl time.Duration) Cache {
	return &ttlCache{items: gocache.New(ttl, 2*ttl)}
}

func (k Key) String() string {
	return k.A + "|" + k.B + "|" +
		strconv.FormatFloat(k.BaseDeltaE, 'g', -1, 64) + "|" +
		strconv.FormatFloat(k.BaseContrast, 'g', -1, 64)
}

func (c *ttlCache) Get(key Key) (conflict.Result, bool) {
	v, ok := c.items.Get(key.String())
	if !ok {
		c.misses.Add(1)
		return conflict.Result{}, false
	}
	c.hits.Add(1)
	return v.(conflict.Result), true
}

func (c *ttlCache) Put(key Key, r conflict.Result) {
	c.items.SetDefault(key.String(), r)
}

func (c *ttlCache) Size() int64   { return int64(c.items.ItemCount()) }
func (c *ttlCache) Hits() int64   { return c.hits.Load() }
func (c *ttlCache) Misses() int64 { return c.misses.Load() }
