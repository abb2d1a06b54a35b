// Package cache holds process-local, in-memory caches. Nothing is written to
// disk: labels and chat sessions live only as long as the process.
package cache

import (
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T, ttl time.Duration)
	Delete(key string)
	Clear()
	Len() int
}

// Key builds a namespaced cache key, e.g. Key("label", "ru", "Q5")
func Key(parts ...string) string {
	return "persona:v1:" + strings.Join(parts, ":")
}
