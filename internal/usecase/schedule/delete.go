package schedule

import (
	"context"

	"github.com/BruksfildServices01/gym-manager/internal/audit"
	"github.com/BruksfildServices01/gym-manager/internal/domain/access"
	domain "github.com/BruksfildServices01/gym-manager/internal/domain/schedule"
)

type DeleteSchedule struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	stats StatsInvalidator
}

func NewDeleteSchedule(
	repo domain.Repository,
	audit *audit.Dispatcher,
	stats StatsInvalidator,
) *DeleteSchedule {
	return &DeleteSchedule{
		repo:  repo,
		audit: audit,
		stats: orNoopInvalidator(stats),
	}
}

func (uc *DeleteSchedule) Execute(
	ctx context.Context,
	actor access.Actor,
	scheduleID uint,
) error {

	if err := access.CanDeleteSchedule(actor); err != nil {
		return err
	}

	s, err := uc.repo.GetScheduleForActor(ctx, scheduleID, actor)
	if err != nil {
		return err
	}

	if err := uc.repo.DeleteSchedule(ctx, s.ID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "schedule_deleted",
		Entity:   "schedule",
		EntityID: &s.ID,
	})

	uc.stats.Invalidate(ctx)

	return nil
}
