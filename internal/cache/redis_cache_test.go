package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeView struct {
	ID      uint64 `json:"id"`
	TimeStr string `json:"time_str"`
}

func setupTestCache(t *testing.T) (*RedisListingCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	c, err := NewRedisListingCache(fmt.Sprintf("redis://%s", mr.Addr()), 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return c, mr
}

func TestRedisListingCache_MissThenHit(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	var got []fakeView
	hit, err := c.Get(ctx, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	views := []fakeView{{ID: 1, TimeStr: "14:30"}, {ID: 2, TimeStr: "13:05"}}
	require.NoError(t, c.Set(ctx, views))

	hit, err = c.Get(ctx, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, views, got)
}

func TestRedisListingCache_Invalidate(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, []fakeView{{ID: 1}}))
	require.NoError(t, c.Invalidate(ctx))

	var got []fakeView
	hit, err := c.Get(ctx, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisListingCache_TTLExpiry(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, []fakeView{{ID: 1}}))

	// miniredis advances TTLs manually
	mr.FastForward(6 * time.Second)

	var got []fakeView
	hit, err := c.Get(ctx, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
