//
//  Copyright © Fieldworks Inc. All rights reserved.
//

// Package cache provides the engine-owned memoization layer for
// permission decisions.
//
// The cache is strictly an optimization: clearing it, disabling it, or
// losing entries to eviction never changes the result of a subsequent
// check. Each engine instance owns its cache; there is no process-global
// table, so unrelated sessions or tenants never share entries.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// Cache memoizes permission decisions keyed by a deterministic
// serialization of (user context, permission, entity context).
//
// Cache is safe for concurrent use. The backing store is a bounded LRU,
// so the oldest entries are evicted under pressure rather than the table
// growing without limit; entries never expire on their own.
type Cache struct {
	entries *lru.Cache[string, bool]
}

// New creates a cache bounded to the given number of entries.
func New(size int) (*Cache, error) {
	entries, err := lru.New[string, bool](size)
	if err != nil {
		return nil, errors.Wrap(err, "error creating decision cache")
	}
	return &Cache{entries: entries}, nil
}

// Get returns the memoized decision for key, and whether one was present.
func (c *Cache) Get(key string) (bool, bool) {
	return c.entries.Get(key)
}

// Set memoizes the decision for key.
func (c *Cache) Set(key string, decision bool) {
	c.entries.Add(key, decision)
}

// Clear drops all entries. Safe to call at any time; only freshness after
// an out-of-band role or membership change depends on it, never
// correctness.
func (c *Cache) Clear() {
	c.entries.Purge()
}

// Len returns the number of memoized decisions.
func (c *Cache) Len() int {
	return c.entries.Len()
}
