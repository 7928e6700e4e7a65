package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(10)

	t.Run("value is retrievable before ttl elapses", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))
		value, ok, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("v"), value)
	})

	t.Run("expired entry reads as a miss and is deleted", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "ttl", []byte("v"), 10*time.Millisecond))
		time.Sleep(20 * time.Millisecond)

		_, ok, err := store.Get(ctx, "ttl")
		require.NoError(t, err)
		assert.False(t, ok)

		has, err := store.Has(ctx, "ttl")
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("delete reports presence", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "d", []byte("v"), time.Minute))
		removed, err := store.Delete(ctx, "d")
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = store.Delete(ctx, "d")
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

func TestMemoryStats(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(10)

	t.Run("hit rate is zero with no requests", func(t *testing.T) {
		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Zero(t, stats.HitRate)
	})

	t.Run("hit rate is hits over total", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "a", []byte("1"), time.Minute))
		_, _, _ = store.Get(ctx, "a")    // hit
		_, _, _ = store.Get(ctx, "a")    // hit
		_, _, _ = store.Get(ctx, "miss") // miss

		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.Hits)
		assert.Equal(t, int64(1), stats.Misses)
		assert.InDelta(t, 2.0/3.0, stats.HitRate, 1e-9)
		assert.Equal(t, 1, stats.Size)
	})
}

func TestMemoryEviction(t *testing.T) {
	ctx := context.Background()

	t.Run("exceeding capacity evicts oldest-inserted first", func(t *testing.T) {
		store := NewMemory(3)
		for i := 0; i < 4; i++ {
			require.NoError(t, store.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), time.Minute))
		}

		has, _ := store.Has(ctx, "k0")
		assert.False(t, has, "oldest entry should be evicted")
		for _, key := range []string{"k1", "k2", "k3"} {
			has, _ := store.Has(ctx, key)
			assert.True(t, has, key)
		}
	})

	t.Run("eviction is FIFO not LRU", func(t *testing.T) {
		store := NewMemory(2)
		require.NoError(t, store.Set(ctx, "old", []byte("v"), time.Minute))
		require.NoError(t, store.Set(ctx, "new", []byte("v"), time.Minute))

		// Touching the oldest entry must not protect it.
		_, _, _ = store.Get(ctx, "old")
		require.NoError(t, store.Set(ctx, "newest", []byte("v"), time.Minute))

		has, _ := store.Has(ctx, "old")
		assert.False(t, has)
	})

	t.Run("overwriting a key keeps its insertion position", func(t *testing.T) {
		store := NewMemory(2)
		require.NoError(t, store.Set(ctx, "a", []byte("1"), time.Minute))
		require.NoError(t, store.Set(ctx, "b", []byte("1"), time.Minute))
		require.NoError(t, store.Set(ctx, "a", []byte("2"), time.Minute))
		require.NoError(t, store.Set(ctx, "c", []byte("1"), time.Minute))

		has, _ := store.Has(ctx, "a")
		assert.False(t, has, "a kept its original slot and was evicted first")

		value, ok, _ := store.Get(ctx, "b")
		assert.True(t, ok)
		assert.Equal(t, []byte("1"), value)
	})
}

func TestMemorySweep(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(10)

	require.NoError(t, store.Set(ctx, "stale1", []byte("v"), time.Millisecond))
	require.NoError(t, store.Set(ctx, "stale2", []byte("v"), time.Millisecond))
	require.NoError(t, store.Set(ctx, "fresh", []byte("v"), time.Minute))
	time.Sleep(5 * time.Millisecond)

	assert.Equal(t, 2, store.Sweep())

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Size)
}

func TestMemoryClear(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(10)
	require.NoError(t, store.Set(ctx, "a", []byte("v"), time.Minute))
	require.NoError(t, store.Clear(ctx))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Size)
}
