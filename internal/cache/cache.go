// Package cache provides the bounded, expire-after-write caches owned by the funnel layers.
// Keys are spread over independently locked shards so unrelated fingerprints do not contend.
package cache

import (
	"hash/fnv"
	"sync/atomic"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/jellydator/ttlcache/v3"
)

const DefaultShards = 16

type Sharded[V any] struct {
	shards []*ttlcache.Cache[string, V]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates a cache whose total capacity is split evenly over shards.
// Entries expire ttl after they were written; reads do not extend them.
func New[V any](ttl time.Duration, capacity uint64, shards int) *Sharded[V] {
	if shards <= 0 {
		shards = DefaultShards
	}
	perShard := capacity / uint64(shards)
	if perShard == 0 {
		perShard = 1
	}

	c := &Sharded[V]{shards: make([]*ttlcache.Cache[string, V], shards)}
	for i := range c.shards {
		c.shards[i] = ttlcache.New[string, V](
			ttlcache.WithTTL[string, V](ttl),
			ttlcache.WithCapacity[string, V](perShard),
			ttlcache.WithDisableTouchOnHit[string, V](),
		)
	}
	return c
}

func (c *Sharded[V]) shard(key string) *ttlcache.Cache[string, V] {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return c.shards[h.Sum32()%uint32(len(c.shards))]
}

// GetOrSet stores value unless key is present and returns the stored value.
// loaded reports whether the value already existed; exactly one concurrent caller sees false.
func (c *Sharded[V]) GetOrSet(key string, value V) (actual V, loaded bool) {
	item, loaded := c.shard(key).GetOrSet(key, value)
	if loaded {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return item.Value(), loaded
}

func (c *Sharded[V]) Get(key string) (V, bool) {
	item := c.shard(key).Get(key)
	if item == nil {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.hits.Add(1)
	return item.Value(), true
}

func (c *Sharded[V]) Set(key string, value V) {
	c.shard(key).Set(key, value, ttlcache.DefaultTTL)
}

func (c *Sharded[V]) Clear() {
	for _, s := range c.shards {
		s.DeleteAll()
	}
}

func (c *Sharded[V]) Len() int {
	n := 0
	for _, s := range c.shards {
		n += s.Len()
	}
	return n
}

func (c *Sharded[V]) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
}

func (c *Sharded[V]) Stats() domain.CacheStats {
	st := domain.CacheStats{
		Size:   c.Len(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
	for _, s := range c.shards {
		st.Evictions += s.Metrics().Evictions
	}
	if total := st.Hits + st.Misses; total > 0 {
		st.HitRate = float64(st.Hits) / float64(total)
	}
	return st
}

// Start runs the expiry sweepers until Stop is called.
func (c *Sharded[V]) Start() {
	for _, s := range c.shards {
		go s.Start()
	}
}

func (c *Sharded[V]) Stop() {
	for _, s := range c.shards {
		s.Stop()
	}
}
