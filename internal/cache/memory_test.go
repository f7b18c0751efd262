package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestMemoryStore_TTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryStore().WithClock(clock.Now)
	ctx := context.Background()

	ok, err := store.SetIfGeneration(ctx, "store:1", []byte("x"), 0, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	clock.Advance(59 * time.Second)
	val, _, err := store.Get(ctx, "store:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), val)

	clock.Advance(time.Second)
	_, _, err = store.Get(ctx, "store:1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryStore_InvalidateAdvancesGeneration(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, gen, err := store.Get(ctx, "inventory:all")
	require.ErrorIs(t, err, ErrCacheMiss)
	require.Equal(t, uint64(0), gen)

	require.NoError(t, store.Invalidate(ctx, "inventory:all"))

	ok, err := store.SetIfGeneration(ctx, "inventory:all", []byte("stale"), gen, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	_, gen, _ = store.Get(ctx, "inventory:all")
	assert.Equal(t, uint64(1), gen)
}
