// Package cache holds in-memory caches for computed plan results.
package cache

// Cache is the interface satisfied by LRUCache.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	Size() int
}

var _ Cache[int] = (*LRUCache[int])(nil)
