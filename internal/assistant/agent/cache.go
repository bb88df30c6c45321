package agent

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache keeps warm executors keyed by user and project scope, so
// repeated turns reuse the same tool loop and conversation binding.
// Entries expire after ttl of no refresh and the least recently used
// entry is dropped when capacity is exceeded.
type Cache struct {
	lru *expirable.LRU[string, *Executor]
}

// NewCache creates an executor cache. capacity <= 0 falls back to
// DefaultCacheCapacity, ttl <= 0 to DefaultCacheTTL.
func NewCache(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{lru: expirable.NewLRU[string, *Executor](capacity, nil, ttl)}
}

// CacheKey builds the cache key for a user and project scope. An
// empty projectCode means the all-projects agent.
func CacheKey(userID, projectCode string) string {
	if projectCode == "" {
		return userID + "|all"
	}
	return userID + "|" + projectCode
}

// GetOrCreate returns the cached executor for the scope, building a
// fresh one with build when absent. forceNew replaces any cached
// executor unconditionally, used when the scope's configuration
// changed underneath it.
func (c *Cache) GetOrCreate(userID, projectCode string, forceNew bool, build func() (*Executor, error)) (*Executor, error) {
	key := CacheKey(userID, projectCode)

	if !forceNew {
		if ex, ok := c.lru.Get(key); ok {
			return ex, nil
		}
	}

	ex, err := build()
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, ex)
	return ex, nil
}

// Evict drops the cached executor for the scope, if any.
func (c *Cache) Evict(userID, projectCode string) {
	c.lru.Remove(CacheKey(userID, projectCode))
}

// EvictUser drops every cached executor belonging to the user.
func (c *Cache) EvictUser(userID string) {
	prefix := userID + "|"
	for _, key := range c.lru.Keys() {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			c.lru.Remove(key)
		}
	}
}

// Purge drops all cached executors.
func (c *Cache) Purge() {
	c.lru.Purge()
}

// Len returns the number of cached executors.
func (c *Cache) Len() int {
	return c.lru.Len()
}
