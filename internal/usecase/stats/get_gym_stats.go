package stats

import (
	"context"
	"time"

	"github.com/BruksfildServices01/gym-manager/internal/cache"
	domain "github.com/BruksfildServices01/gym-manager/internal/domain/stats"
	"github.com/BruksfildServices01/gym-manager/internal/timezone"
)

type GetGymStats struct {
	repo  domain.Repository
	cache cache.StatsCache
	now   func() time.Time
}

func NewGetGymStats(
	repo domain.Repository,
	c cache.StatsCache,
) *GetGymStats {
	return &GetGymStats{
		repo:  repo,
		cache: c,
		now:   timezone.Now,
	}
}

// Execute returns the cached statistics unless fresh is set or the cache is empty.
func (uc *GetGymStats) Execute(
	ctx context.Context,
	fresh bool,
) (*domain.GymStats, error) {

	if !fresh {
		if s, ok := uc.cache.Get(ctx); ok {
			return s, nil
		}
	}

	now := uc.now()
	from, to := domain.UsageWindow(now)

	in, err := uc.repo.LoadInputs(ctx, from, to)
	if err != nil {
		return nil, err
	}

	s := domain.Compute(now, in)
	uc.cache.Set(ctx, &s)

	return &s, nil
}

// Invalidate drops the cached statistics.
func (uc *GetGymStats) Invalidate(ctx context.Context) {
	uc.cache.Invalidate(ctx)
}
