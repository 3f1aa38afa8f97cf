package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Defaults for the in-memory analysis cache.
const (
	DefaultCacheTTL        = 10 * time.Minute
	DefaultCacheMaxEntries = 500
)

// CacheHooks are optional callbacks used to feed cache metrics.
type CacheHooks struct {
	OnHit   func()
	OnMiss  func()
	OnEvict func()
}

// CacheService is a process-local key/value cache bounded both by entry count
// and by entry age. When full, the least recently used entry is evicted first.
// An entry older than the TTL is reported as absent even before it is
// physically removed. Safe for concurrent use.
type CacheService[V any] struct {
	lru   *expirable.LRU[string, V]
	hooks CacheHooks
}

// NewCacheService creates a cache holding at most maxEntries values for ttl
// each. Non-positive arguments fall back to DefaultCacheMaxEntries and
// DefaultCacheTTL.
func NewCacheService[V any](maxEntries int, ttl time.Duration, hooks CacheHooks) *CacheService[V] {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	var onEvict expirable.EvictCallback[string, V]
	if hooks.OnEvict != nil {
		onEvict = func(string, V) { hooks.OnEvict() }
	}

	return &CacheService[V]{
		lru:   expirable.NewLRU[string, V](maxEntries, onEvict, ttl),
		hooks: hooks,
	}
}

// Get returns the value stored under key and marks it as recently used.
func (c *CacheService[V]) Get(key string) (V, bool) {
	v, ok := c.lru.Get(key)
	if ok {
		if c.hooks.OnHit != nil {
			c.hooks.OnHit()
		}
	} else if c.hooks.OnMiss != nil {
		c.hooks.OnMiss()
	}
	return v, ok
}

// Peek is Get without touching recency or metrics.
func (c *CacheService[V]) Peek(key string) (V, bool) {
	return c.lru.Peek(key)
}

// Set stores value under key, evicting the least recently used entry if the
// cache is full.
func (c *CacheService[V]) Set(key string, value V) {
	c.lru.Add(key, value)
}

// Len returns the number of entries held, including expired ones not yet swept.
func (c *CacheService[V]) Len() int {
	return c.lru.Len()
}

// MakeKey joins parts into a deterministic cache key.
func MakeKey(parts ...any) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return strings.Join(s, "::")
}
