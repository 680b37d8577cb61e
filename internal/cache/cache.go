// Package cache is a small TTL cache for rendered read models.
package cache

import (
	"strings"
	"sync"
	"time"
)

type entry[V any] struct {
	val V
	exp time.Time
}

// Cache maps string keys to values for a fixed TTL. Keys are expected to be
// namespaced (see utils.TaskListCachePrefix) so one owner's entries can be
// dropped together.
type Cache[V any] struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]entry[V]
	now func() time.Time
}

func New[V any](ttl time.Duration) *Cache[V] {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Cache[V]{
		ttl: ttl,
		m:   make(map[string]entry[V]),
		now: time.Now,
	}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()

	if ok && c.now().Before(e.exp) {
		return e.val, true
	}

	if ok {
		c.mu.Lock()
		// re-check, a writer may have refreshed the entry meanwhile
		if cur, still := c.m[key]; still && !c.now().Before(cur.exp) {
			delete(c.m, key)
		}
		c.mu.Unlock()
	}

	var zero V
	return zero, false
}

func (c *Cache[V]) Set(key string, val V) {
	c.mu.Lock()
	c.m[key] = entry[V]{val: val, exp: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// DeletePrefix drops every key starting with prefix.
func (c *Cache[V]) DeletePrefix(prefix string) {
	c.mu.Lock()
	for k := range c.m {
		if strings.HasPrefix(k, prefix) {
			delete(c.m, k)
		}
	}
	c.mu.Unlock()
}

func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
