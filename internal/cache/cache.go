// Package cache provides a small in-process read-through cache with a
// sliding expiration policy. It is owned by whichever service constructs
// it and dies with that service; there is no global instance.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader fetches a fresh value on a cache miss.
type Loader[V any] func(ctx context.Context) (V, error)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Sliding caches values under comparable keys with a sliding TTL: every
// hit pushes the entry's expiry forward by the full TTL. Concurrent
// misses on the same key are collapsed into a single load.
type Sliding[K comparable, V any] struct {
	ttl   time.Duration
	group singleflight.Group

	mu      sync.Mutex
	entries map[K]entry[V]

	now func() time.Time // overridable in tests
}

// NewSliding creates a sliding-expiration cache with the given TTL.
func NewSliding[K comparable, V any](ttl time.Duration) *Sliding[K, V] {
	return &Sliding[K, V]{
		ttl:     ttl,
		entries: make(map[K]entry[V]),
		now:     time.Now,
	}
}

// GetOrLoad returns the live cached value for key, refreshing its expiry,
// or invokes load to repopulate the entry before returning it. A failed
// load caches nothing; the next call retries.
func (c *Sliding[K, V]) GetOrLoad(ctx context.Context, key K, load Loader[V]) (V, error) {
	if value, ok := c.get(key); ok {
		return value, nil
	}

	result, err, _ := c.group.Do(fmt.Sprint(key), func() (interface{}, error) {
		// A concurrent caller may have repopulated while we waited.
		if value, ok := c.get(key); ok {
			return value, nil
		}

		value, err := load(ctx)
		if err != nil {
			return nil, err
		}

		c.set(key, value)
		return value, nil
	})

	if err != nil {
		var zero V
		return zero, err
	}

	return result.(V), nil
}

func (c *Sliding[K, V]) get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}

	now := c.now()
	if now.After(e.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}

	e.expiresAt = now.Add(c.ttl)
	c.entries[key] = e
	return e.value, true
}

func (c *Sliding[K, V]) set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}
