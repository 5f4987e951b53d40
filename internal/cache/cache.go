// Package cache is a small read cache keyed by logical resource name.
// Reads within the staleness window are served from memory; concurrent
// fetches for the same key collapse into one in-flight request; a failed
// refresh keeps the previous value around so views can keep rendering.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     any
	fetchedAt time.Time
	gen       uint64
}

// Cache holds cached values with a shared staleness window.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	gens    map[string]uint64
	ttl     time.Duration
	group   singleflight.Group

	// now is swappable for tests
	now func() time.Time
}

// New creates a cache whose entries go stale after ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		gens:    make(map[string]uint64),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Invalidate drops the entry for key. A fetch already in flight for the key
// will have its result discarded rather than resurrecting stale data.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.gens[key]++
}

// Peek returns the cached value for key without fetching.
func (c *Cache) Peek(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// get returns the cached value if it is still fresh.
func (c *Cache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) > c.ttl {
		return nil, false
	}
	return e.value, true
}

// stale returns the cached value regardless of freshness.
func (c *Cache) stale(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[key]
}

func (c *Cache) store(key string, value any, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Key was invalidated while the fetch was in flight; the caller still
	// gets the value, but the cache won't serve it to anyone else.
	if c.gens[key] != gen {
		return
	}
	c.entries[key] = entry{value: value, fetchedAt: c.now(), gen: gen}
}

// fetch runs fn through singleflight, storing the result on success.
func (c *Cache) fetch(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	gen := c.generation(key)
	v, err, _ := c.group.Do(key, func() (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return nil, err
	}
	c.store(key, v, gen)
	return v, nil
}

// Get returns a fresh value for key, fetching through fn when the cached
// copy is missing or stale. On fetch failure the previous value (if any) is
// returned alongside the error, so callers can keep showing what they had.
func Get[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error)) (T, error) {
	if v, ok := c.get(key); ok {
		return v.(T), nil
	}

	v, err := c.fetch(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		if prev, ok := c.stale(key); ok {
			return prev.(T), err
		}
		var zero T
		return zero, err
	}
	return v.(T), nil
}
