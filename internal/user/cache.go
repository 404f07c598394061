package user

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CacheSchemaVersion is the current version of the cached view shape.
// Increment this when InventoryView changes to auto-invalidate old entries.
const CacheSchemaVersion = "1.0"

// cachedViewEntry wraps a view with version metadata for cache invalidation
type cachedViewEntry struct {
	Version  string         `json:"version"`
	View     *InventoryView `json:"view"`
	CachedAt time.Time      `json:"cached_at"`
}

// inventoryCache is an in-memory LRU for inventory reads, keyed by user id,
// with time-based expiration and version-based invalidation. Writers
// invalidate their user's entry after every committed sync.
type inventoryCache struct {
	lru *expirable.LRU[string, *cachedViewEntry]
}

func newInventoryCache(size int, ttl time.Duration) *inventoryCache {
	return &inventoryCache{
		lru: expirable.NewLRU[string, *cachedViewEntry](size, nil, ttl),
	}
}

// Get returns the cached view for a user, or false when absent, expired or
// written by an older schema version.
func (c *inventoryCache) Get(userID string) (*InventoryView, bool) {
	entry, found := c.lru.Get(userID)
	if !found {
		return nil, false
	}
	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(userID)
		return nil, false
	}
	return entry.View, true
}

func (c *inventoryCache) Set(userID string, view *InventoryView) {
	c.lru.Add(userID, &cachedViewEntry{
		Version:  CacheSchemaVersion,
		View:     view,
		CachedAt: time.Now(),
	})
}

func (c *inventoryCache) Invalidate(userID string) {
	c.lru.Remove(userID)
}

func (c *inventoryCache) Clear() {
	c.lru.Purge()
}

// Len reports the number of live entries, for the cache stats endpoint.
func (c *inventoryCache) Len() int {
	return c.lru.Len()
}
