package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryCache(t *testing.T) {
	c := newInventoryCache(2, time.Minute)
	view := &InventoryView{UserID: "a"}

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", view)
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Same(t, view, got)
	assert.Equal(t, 1, c.Len())

	c.Invalidate("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestInventoryCache_TTLExpiry(t *testing.T) {
	c := newInventoryCache(2, 10*time.Millisecond)
	c.Set("a", &InventoryView{UserID: "a"})

	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestInventoryCache_SchemaVersionMismatch(t *testing.T) {
	c := newInventoryCache(2, time.Minute)
	c.lru.Add("a", &cachedViewEntry{
		Version: "0.9",
		View:    &InventoryView{UserID: "a"},
	})

	_, ok := c.Get("a")
	assert.False(t, ok, "stale schema versions are evicted on read")
	assert.Equal(t, 0, c.Len())
}

func TestInventoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newInventoryCache(2, time.Minute)
	c.Set("a", &InventoryView{UserID: "a"})
	c.Set("b", &InventoryView{UserID: "b"})
	c.Set("c", &InventoryView{UserID: "c"})

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())
}
