// Package cache is the server cache layer: it memoizes backend queries by
// composite key, deduplicates concurrent identical fetches, and supports
// prefix invalidation after mutations.
//
// A query key is the operation name plus its serialized parameters, so
// "tasks" with different filters caches independently while a single
// Invalidate("tasks") marks every variant stale. Stale entries are refetched
// on the next read; a failed fetch is never cached.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"
	"sync"
)

// FetchFunc produces a fresh result for a query key.
type FetchFunc func(ctx context.Context) (any, error)

// Cache memoizes query results keyed by operation name + parameters.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	logger  *log.Logger
}

type entry struct {
	ready  chan struct{} // closed once the fetch settles
	result any
	err    error
	stale  bool
}

// New creates an empty Cache.
func New(logger *log.Logger) *Cache {
	if logger == nil {
		logger = log.New(os.Stderr, "[cache] ", log.LstdFlags)
	}
	return &Cache{
		entries: make(map[string]*entry),
		logger:  logger,
	}
}

// Key builds a composite query key from an operation name and its parameters.
// Parameters are serialized with encoding/json, which orders map keys and
// struct fields deterministically, so equal queries always map to the same
// key.
func Key(op string, params any) string {
	if params == nil {
		return op
	}
	data, err := json.Marshal(params)
	if err != nil {
		// Unserializable params cannot be cached stably; fall back to the
		// bare operation so at least invalidation still reaches them.
		return op
	}
	return op + ":" + string(data)
}

// Query returns the cached result for key, fetching it when the key is
// missing or stale. Identical queries issued while a fetch for the same key
// is outstanding do not issue a duplicate request; they wait and share the
// result. Fetch failures are returned but not cached, so the next read
// retries.
func (c *Cache) Query(ctx context.Context, key string, fetch FetchFunc) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && !e.stale {
		c.mu.Unlock()
		select {
		case <-e.ready:
			return e.result, e.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	e := &entry{ready: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	result, err := fetch(ctx)

	c.mu.Lock()
	e.result, e.err = result, err
	if err != nil && c.entries[key] == e {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	close(e.ready)

	return result, err
}

// Invalidate marks every cached query whose key matches the prefix as stale.
// A prefix matches its exact key and every parameterized variant
// ("tasks" invalidates both "tasks" and "tasks:{...}"). The next read of a
// stale key triggers a fresh fetch instead of returning the cached value.
func (c *Cache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key, e := range c.entries {
		if key == prefix || strings.HasPrefix(key, prefix+":") {
			e.stale = true
			n++
		}
	}
	if n > 0 {
		c.logger.Printf("Invalidated %d cached queries for %q", n, prefix)
	}
}

// Mutate runs a fire-once mutation and, only on success, invalidates the
// given key prefixes. On failure the prior cached state is left untouched.
func (c *Cache) Mutate(ctx context.Context, fn func(ctx context.Context) error, prefixes ...string) error {
	if err := fn(ctx); err != nil {
		return err
	}
	for _, prefix := range prefixes {
		c.Invalidate(prefix)
	}
	return nil
}

// Len returns the number of cached entries, stale included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every cached entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}
