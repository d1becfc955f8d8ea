package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/gym-manager/internal/config"
	"github.com/BruksfildServices01/gym-manager/internal/domain/stats"
)

func TestMemoryStatsCache_SetGetInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStatsCache(time.Minute)

	_, ok := c.Get(ctx)
	assert.False(t, ok)

	c.Set(ctx, &stats.GymStats{TotalMembers: 4})
	got, ok := c.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, 4, got.TotalMembers)

	c.Invalidate(ctx)
	_, ok = c.Get(ctx)
	assert.False(t, ok)
}

func TestMemoryStatsCache_Expires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	c := NewMemoryStatsCache(time.Minute)
	c.now = func() time.Time { return now }

	c.Set(ctx, &stats.GymStats{TotalMembers: 1})
	now = now.Add(2 * time.Minute)

	_, ok := c.Get(ctx)
	assert.False(t, ok)
}

func TestNewStatsCache_FallsBackToMemory(t *testing.T) {
	c := NewStatsCache(&config.Config{StatsCacheTTL: time.Minute})
	assert.IsType(t, &MemoryStatsCache{}, c)
}

func TestNewStatsCache_UsesRedisWhenConfigured(t *testing.T) {
	c := NewStatsCache(&config.Config{RedisAddr: "localhost:6379", StatsCacheTTL: time.Minute})
	require.IsType(t, &RedisStatsCache{}, c)
	assert.NoError(t, c.(*RedisStatsCache).Close())
}
