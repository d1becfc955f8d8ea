package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/gym-manager/internal/cache"
	domain "github.com/BruksfildServices01/gym-manager/internal/domain/stats"
)

type stubRepo struct {
	calls    int
	from, to time.Time
	inputs   domain.Inputs
	err      error
}

func (r *stubRepo) LoadInputs(_ context.Context, from, to time.Time) (domain.Inputs, error) {
	r.calls++
	r.from, r.to = from, to
	return r.inputs, r.err
}

func newUseCase(repo domain.Repository, now time.Time) *GetGymStats {
	uc := NewGetGymStats(repo, cache.NewMemoryStatsCache(time.Minute))
	uc.now = func() time.Time { return now }
	return uc
}

func TestGetGymStats_ComputesAndCaches(t *testing.T) {
	now := time.Date(2026, 5, 15, 10, 0, 0, 0, time.UTC)
	repo := &stubRepo{inputs: domain.Inputs{
		Members: []domain.MemberRow{{IsActive: true, DateJoined: now}},
		Sales:   []domain.SaleRow{{StartDate: now, Price: 30}},
	}}
	uc := newUseCase(repo, now)

	first, err := uc.Execute(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalMembers)
	assert.InDelta(t, 30.0, first.MonthlyRevenue, 1e-9)

	_, err = uc.Execute(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)

	assert.Equal(t, time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), repo.from)
	assert.Equal(t, time.Date(2026, 5, 16, 0, 0, 0, 0, time.UTC), repo.to)
}

func TestGetGymStats_FreshAndInvalidateBypassCache(t *testing.T) {
	now := time.Date(2026, 5, 15, 10, 0, 0, 0, time.UTC)
	repo := &stubRepo{}
	uc := newUseCase(repo, now)

	_, err := uc.Execute(context.Background(), false)
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)

	uc.Invalidate(context.Background())
	_, err = uc.Execute(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 3, repo.calls)
}

func TestGetGymStats_RepositoryError(t *testing.T) {
	repo := &stubRepo{err: errors.New("db down")}
	uc := newUseCase(repo, time.Now())

	_, err := uc.Execute(context.Background(), false)
	assert.EqualError(t, err, "db down")
}
