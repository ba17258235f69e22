package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreSetGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, ok := store.Get(ctx, "missing")
	assert.False(t, ok)

	store.Set(ctx, "key", "value", time.Minute)
	val, ok := store.Get(ctx, "key")
	assert.True(t, ok)
	assert.Equal(t, "value", val)
}

func TestMemoryStoreExpiry(t *testing.T) {
	current := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return current }
	ctx := context.Background()

	store.Set(ctx, "key", "value", 5*time.Minute)

	_, ok := store.Get(ctx, "key")
	assert.True(t, ok)

	// Setelah TTL lewat, entry dianggap hilang
	current = current.Add(6 * time.Minute)
	_, ok = store.Get(ctx, "key")
	assert.False(t, ok)
}

func TestMemoryStoreDel(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Set(ctx, "key", "value", time.Minute)
	store.Del(ctx, "key")

	_, ok := store.Get(ctx, "key")
	assert.False(t, ok)
}

func TestMemoryStoreOverwrite(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Set(ctx, "key", "old", time.Minute)
	store.Set(ctx, "key", "new", time.Minute)

	val, ok := store.Get(ctx, "key")
	assert.True(t, ok)
	assert.Equal(t, "new", val)
}
