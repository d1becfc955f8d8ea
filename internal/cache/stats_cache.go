package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/gym-manager/internal/config"
	"github.com/BruksfildServices01/gym-manager/internal/domain/stats"
	"github.com/BruksfildServices01/gym-manager/internal/logger"
)

const statsKey = "gym:stats:v1"

type StatsCache interface {
	Get(ctx context.Context) (*stats.GymStats, bool)
	Set(ctx context.Context, s *stats.GymStats)
	Invalidate(ctx context.Context)
}

// NewStatsCache uses Redis when REDIS_ADDR is set and process memory otherwise.
func NewStatsCache(cfg *config.Config) StatsCache {
	if cfg.RedisAddr == "" {
		return NewMemoryStatsCache(cfg.StatsCacheTTL)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return NewRedisStatsCache(client, cfg.StatsCacheTTL)
}

// ======================================================
// REDIS
// ======================================================

type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStatsCache(client *redis.Client, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, ttl: ttl}
}

func (c *RedisStatsCache) Get(ctx context.Context) (*stats.GymStats, bool) {
	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.FromContext(ctx).Warn("stats cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var s stats.GymStats
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false
	}
	return &s, true
}

func (c *RedisStatsCache) Set(ctx context.Context, s *stats.GymStats) {
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statsKey, raw, c.ttl).Err(); err != nil {
		logger.FromContext(ctx).Warn("stats cache write failed", zap.Error(err))
	}
}

func (c *RedisStatsCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, statsKey).Err(); err != nil {
		logger.FromContext(ctx).Warn("stats cache invalidate failed", zap.Error(err))
	}
}

func (c *RedisStatsCache) Close() error {
	return c.client.Close()
}

// ======================================================
// IN PROCESS
// ======================================================

type MemoryStatsCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	value   *stats.GymStats
	expires time.Time
	now     func() time.Time
}

func NewMemoryStatsCache(ttl time.Duration) *MemoryStatsCache {
	return &MemoryStatsCache{ttl: ttl, now: time.Now}
}

func (c *MemoryStatsCache) Get(context.Context) (*stats.GymStats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.value == nil || !c.now().Before(c.expires) {
		return nil, false
	}
	cp := *c.value
	return &cp, true
}

func (c *MemoryStatsCache) Set(_ context.Context, s *stats.GymStats) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cp := *s
	c.value = &cp
	c.expires = c.now().Add(c.ttl)
}

func (c *MemoryStatsCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = nil
}
