// Package cache provides a small generic LRU cache.
//
//	c := cache.New[int, []float32](64)
//	k := c.GetOrCreate(key, func() []float32 { return build(key) })
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
