// Package query implements a keyed fetch cache. A lookup returns the
// cached value when one is live, and otherwise runs the fetch function,
// retrying once before giving up. Entries can be invalidated individually
// or by key prefix, which is how product mutations force a refetch.
package query

import (
	"context"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value    any
	storedAt time.Time
}

// Cache stores fetch results by key.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	retries int
	now     func() time.Time
}

// Option customizes a Cache.
type Option func(*Cache)

// WithTTL makes entries expire after d. Zero keeps entries until they
// are invalidated.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) { c.ttl = d }
}

// WithRetries sets how many times a failed fetch is retried.
func WithRetries(n int) Option {
	return func(c *Cache) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// New builds a Cache. The default configuration retries a failed fetch
// once and keeps entries until invalidation.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		retries: 1,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the live cached value for key, or runs fetch and caches its
// result. Errors are never cached.
func (c *Cache) Get(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.live(e) {
		c.mu.Unlock()
		return e.value, nil
	}
	c.mu.Unlock()

	value, err := c.run(ctx, fetch)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = entry{value: value, storedAt: c.now()}
	c.mu.Unlock()
	return value, nil
}

// Peek reports the cached value for key without fetching.
func (c *Cache) Peek(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || !c.live(e) {
		return nil, false
	}
	return e.value, true
}

// Invalidate drops a single entry.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidatePrefix drops every entry whose key starts with prefix.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

func (c *Cache) run(ctx context.Context, fetch func(context.Context) (any, error)) (any, error) {
	value, err := fetch(ctx)
	for attempt := 0; err != nil && attempt < c.retries; attempt++ {
		if ctx.Err() != nil {
			return nil, err
		}
		value, err = fetch(ctx)
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (c *Cache) live(e entry) bool {
	if c.ttl <= 0 {
		return true
	}
	return c.now().Sub(e.storedAt) < c.ttl
}
