package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inkpress/inkpress/internal/repository"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c := NewCache()
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCacheSetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", []byte("value"), time.Minute))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("value"), got)

	// Mutating the returned slice must not affect the stored value.
	got[0] = 'X'
	again, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("value"), again)
}

func TestCacheExpiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", []byte("v"), 10*time.Millisecond))
	require.NoError(t, c.Set(ctx, "forever", []byte("v"), 0))

	time.Sleep(20 * time.Millisecond)

	_, err := c.Get(ctx, "short")
	require.ErrorIs(t, err, repository.ErrCacheMiss)

	_, err = c.Get(ctx, "forever")
	require.NoError(t, err)
}

func TestCacheSetNX(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	set, err := c.SetNX(ctx, "k", []byte("first"), time.Minute)
	require.NoError(t, err)
	require.True(t, set)

	set, err = c.SetNX(ctx, "k", []byte("second"), time.Minute)
	require.NoError(t, err)
	require.False(t, set)

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("first"), got)
}

func TestCacheDeleteExists(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	exists, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, c.Delete(ctx, "k"))

	exists, err = c.Exists(ctx, "k")
	require.NoError(t, err)
	require.False(t, exists)

	// Deleting a missing key is not an error.
	require.NoError(t, c.Delete(ctx, "k"))
}
