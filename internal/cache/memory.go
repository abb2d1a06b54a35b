package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL stores an entry with the cache's default expiration
const DefaultTTL time.Duration = gocache.DefaultExpiration

// Memory implements typed in-memory caching with expiry
type Memory[T any] struct {
	cache *gocache.Cache
}

// NewMemory creates a new memory cache
func NewMemory[T any](defaultTTL time.Duration, cleanupInterval time.Duration) *Memory[T] {
	return &Memory[T]{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the cache
func (c *Memory[T]) Get(key string) (T, bool) {
	if val, found := c.cache.Get(key); found {
		if typed, ok := val.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}

// Set stores a value with the given TTL; DefaultTTL uses the cache default
func (c *Memory[T]) Set(key string, value T, ttl time.Duration) {
	c.cache.Set(key, value, ttl)
}

// Delete removes a value from the cache
func (c *Memory[T]) Delete(key string) {
	c.cache.Delete(key)
}

// Clear removes all values from the cache
func (c *Memory[T]) Clear() {
	c.cache.Flush()
}

// Len returns the number of entries, including expired ones not yet cleaned up
func (c *Memory[T]) Len() int {
	return c.cache.ItemCount()
}

// OnEvicted registers a callback run when an entry expires or is deleted
func (c *Memory[T]) OnEvicted(fn func(key string, value T)) {
	c.cache.OnEvicted(func(key string, v interface{}) {
		if typed, ok := v.(T); ok {
			fn(key, typed)
		}
	})
}
