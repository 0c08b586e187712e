package cachemanager

import (
	"context"
	"sync"
	"time"
)

// ReadThroughCache loads missing values with fn and caches the result.
// Failed loads are not cached. Concurrent misses on the same cache are
// serialized so fn runs once per key.
type ReadThroughCache[K ~string, V any, I any] struct {
	mu    sync.Mutex
	cache CacheManager[K, V]
	fn    func(ctx context.Context, input I) (V, error)
}

// NewReadThroughCache wraps cache with the loader fn.
func NewReadThroughCache[K ~string, V any, I any](
	cache CacheManager[K, V],
	fn func(ctx context.Context, input I) (V, error),
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{cache: cache, fn: fn}
}

// Get returns the cached value for key, loading it from input on a miss.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	value, err := r.fn(ctx, input)
	if err != nil {
		return value, err
	}
	r.cache.Set(ctx, key, value, ttl)
	return value, nil
}

// Invalidate drops keys so the next Get reloads them. With no keys the
// whole cache is flushed.
func (r *ReadThroughCache[K, V, I]) Invalidate(ctx context.Context, keys ...K) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(keys) == 0 {
		r.cache.Flush(ctx)
		return
	}
	r.cache.Delete(ctx, keys...)
}
