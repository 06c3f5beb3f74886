package cache

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

type entry struct {
	Revenue float64 `json:"revenue"`
}

func setupRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, zap.NewNop()), mr
}

func TestRedisCache_KeysAreScopedByCompany(t *testing.T) {
	c, mr := setupRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 1, "dashboard", entry{Revenue: 50}, time.Minute))

	var got entry
	found, err := c.Get(ctx, 1, "dashboard", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 50.0, got.Revenue)

	found, err = c.Get(ctx, 2, "dashboard", &got)
	require.NoError(t, err)
	assert.False(t, found)

	assert.True(t, mr.Exists("farm:analytics:1:dashboard"))
}

func TestRedisCache_InvalidateCompany(t *testing.T) {
	c, mr := setupRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 1, "dashboard", entry{Revenue: 1}, time.Minute))
	require.NoError(t, c.Set(ctx, 1, "dashboard:crop=wheat", entry{Revenue: 2}, time.Minute))
	require.NoError(t, c.Set(ctx, 11, "dashboard", entry{Revenue: 3}, time.Minute))

	require.NoError(t, c.InvalidateCompany(ctx, 1))

	assert.False(t, mr.Exists("farm:analytics:1:dashboard"))
	assert.False(t, mr.Exists("farm:analytics:1:dashboard:crop=wheat"))
	assert.True(t, mr.Exists("farm:analytics:11:dashboard"))
}

func TestRedisCache_Expiry(t *testing.T) {
	c, mr := setupRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 1, "dashboard", entry{Revenue: 1}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var got entry
	found, err := c.Get(ctx, 1, "dashboard", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
