package repository

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/gym-manager/internal/domain/schedule"
	"github.com/BruksfildServices01/gym-manager/internal/domain/stats"
	"github.com/BruksfildServices01/gym-manager/internal/models"
)

type StatsGormRepository struct {
	db *gorm.DB
}

func NewStatsGormRepository(db *gorm.DB) *StatsGormRepository {
	return &StatsGormRepository{db: db}
}

// LoadInputs runs the three reads concurrently.
func (r *StatsGormRepository) LoadInputs(
	ctx context.Context,
	visitsFrom time.Time,
	visitsTo time.Time,
) (stats.Inputs, error) {

	var in stats.Inputs
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.db.WithContext(gctx).
			Model(&models.User{}).
			Select("is_active", "date_joined").
			Where("role = ?", models.RoleMember).
			Scan(&in.Members).Error
	})

	g.Go(func() error {
		return r.db.WithContext(gctx).
			Table("member_packages").
			Select("member_packages.start_date AS start_date, packages.price AS price").
			Joins("JOIN packages ON packages.id = member_packages.package_id").
			Scan(&in.Sales).Error
	})

	g.Go(func() error {
		return r.db.WithContext(gctx).
			Model(&models.Schedule{}).
			Select("start_time").
			Where("status IN ? AND start_time >= ? AND start_time < ?",
				domain.UsageStatuses, visitsFrom, visitsTo).
			Scan(&in.Visits).Error
	})

	if err := g.Wait(); err != nil {
		return stats.Inputs{}, err
	}
	return in, nil
}

var _ stats.Repository = (*StatsGormRepository)(nil)
