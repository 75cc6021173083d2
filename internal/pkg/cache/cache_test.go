package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCache(mr.Addr(), "", 0, "test:")
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.Set(ctx, "book:7", entry{ID: 7, Title: "Dune"}, time.Minute))
	assert.True(t, mr.Exists("test:book:7"))

	var got entry
	found, err := c.Get(ctx, "book:7", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, entry{ID: 7, Title: "Dune"}, got)
}

func TestRedisCache_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	var got entry
	found, err := c.Get(context.Background(), "book:1", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.Set(ctx, "book:7", entry{ID: 7}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var got entry
	found, err := c.Get(ctx, "book:7", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_Delete(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	require.NoError(t, c.Set(ctx, "a", entry{ID: 1}, 0))
	require.NoError(t, c.Set(ctx, "b", entry{ID: 2}, 0))
	require.NoError(t, c.Delete(ctx, "a", "b"))
	require.NoError(t, c.Delete(ctx))

	var got entry
	found, err := c.Get(ctx, "a", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_Ping(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, c.Ping(context.Background()))

	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}
