package availability

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisCache(rdb, 5*time.Minute, zap.NewNop())
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	slots := []time.Time{at(9, 0), at(10, 0)}

	t.Run("round trip per duration", func(t *testing.T) {
		c := newTestCache(t)

		_, version, ok := c.Get(ctx, providerID, monday, 60)
		require.False(t, ok)
		require.NotEmpty(t, version)

		c.Set(ctx, providerID, monday, 60, version, slots)
		got, again, ok := c.Get(ctx, providerID, monday, 60)
		require.True(t, ok)
		assert.Equal(t, version, again)
		assert.True(t, slots[0].Equal(got[0]))
		assert.Len(t, got, 2)

		_, _, ok = c.Get(ctx, providerID, monday, 90)
		assert.False(t, ok)
	})

	t.Run("set under an invalidated version is never served", func(t *testing.T) {
		c := newTestCache(t)

		_, version, _ := c.Get(ctx, providerID, monday, 60)
		c.InvalidateDate(ctx, providerID, monday)
		c.Set(ctx, providerID, monday, 60, version, slots)

		_, current, ok := c.Get(ctx, providerID, monday, 60)
		assert.False(t, ok)
		assert.NotEqual(t, version, current)
	})

	t.Run("date invalidation leaves other days alone", func(t *testing.T) {
		c := newTestCache(t)
		tuesday := monday.AddDate(0, 0, 1)

		_, v1, _ := c.Get(ctx, providerID, monday, 60)
		c.Set(ctx, providerID, monday, 60, v1, slots)
		_, v2, _ := c.Get(ctx, providerID, tuesday, 60)
		c.Set(ctx, providerID, tuesday, 60, v2, slots)

		c.InvalidateDate(ctx, providerID, monday)
		_, _, ok := c.Get(ctx, providerID, monday, 60)
		assert.False(t, ok)
		_, _, ok = c.Get(ctx, providerID, tuesday, 60)
		assert.True(t, ok)
	})

	t.Run("provider invalidation drops every day", func(t *testing.T) {
		c := newTestCache(t)
		tuesday := monday.AddDate(0, 0, 1)

		for _, d := range []time.Time{monday, tuesday} {
			_, v, _ := c.Get(ctx, providerID, d, 60)
			c.Set(ctx, providerID, d, 60, v, slots)
		}

		c.InvalidateProvider(ctx, providerID)
		for _, d := range []time.Time{monday, tuesday} {
			_, _, ok := c.Get(ctx, providerID, d, 60)
			assert.False(t, ok, d.Format(time.DateOnly))
		}
	})

	t.Run("empty version is not stored", func(t *testing.T) {
		c := newTestCache(t)
		c.Set(ctx, providerID, monday, 60, "", slots)
		_, _, ok := c.Get(ctx, providerID, monday, 60)
		assert.False(t, ok)
	})
}

func TestNopCacheNeverHits(t *testing.T) {
	ctx := context.Background()
	c := NewNopCache()
	c.Set(ctx, providerID, monday, 60, "0.0", []time.Time{at(9, 0)})
	_, _, ok := c.Get(ctx, providerID, monday, 60)
	assert.False(t, ok)
}
