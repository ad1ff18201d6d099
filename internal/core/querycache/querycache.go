// Package querycache holds the results of dashboard read queries until a
// change event marks them stale.
//
// Entries never expire on their own. Invalidate is the only way a cached
// result becomes stale; the next Fetch for a stale key runs the query again.
package querycache

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/doable/dashboard/internal/core/domain"
)

// Key identifies one cached query. Invalidation works on Name, so every
// Params variant of a name goes stale together.
type Key struct {
	Name   string
	Params string
}

func (k Key) String() string {
	if k.Params == "" {
		return k.Name
	}
	return k.Name + "/" + k.Params
}

// Rules maps a changed table to the query names that read from it.
type Rules map[domain.Table][]string

type entry struct {
	value any
	stale bool
	gen   uint64
}

// Cache stores query results keyed by Key.
type Cache struct {
	mu      sync.Mutex
	rules   Rules
	entries map[Key]*entry
	// gens counts invalidations per name; a fetch that raced an
	// invalidation stores its result already stale.
	gens  map[string]uint64
	group singleflight.Group
}

// New returns an empty cache that invalidates according to rules.
func New(rules Rules) *Cache {
	return &Cache{
		rules:   rules,
		entries: make(map[Key]*entry),
		gens:    make(map[string]uint64),
	}
}

// Fetch returns the cached value for key, running fn when the key is absent
// or stale. Concurrent callers for the same key share one fn call. Errors are
// returned to every waiting caller and never cached.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && !e.stale {
		v, ok := e.value.(T)
		c.mu.Unlock()
		if !ok {
			return zero, fmt.Errorf("querycache: %s holds %T", key, e.value)
		}
		return v, nil
	}
	gen := c.gens[key.Name]
	c.mu.Unlock()

	res, err, _ := c.group.Do(key.String(), func() (any, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = &entry{value: v, stale: c.gens[key.Name] != gen, gen: gen}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("querycache: %s holds %T", key, res)
	}
	return v, nil
}

// Invalidate marks stale every entry whose name the rules bind to the
// event's table and returns those names. Events for unknown tables are ignored.
func (c *Cache) Invalidate(event domain.ChangeEvent) []string {
	names := c.rules[event.Table]
	if len(names) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, name := range names {
		c.gens[name]++
	}
	for key, e := range c.entries {
		for _, name := range names {
			if key.Name == name {
				e.stale = true
				break
			}
		}
	}
	return names
}

// Stale reports whether key is absent or marked stale.
func (c *Cache) Stale(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return !ok || e.stale
}
