package schedule

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/gym-manager/internal/audit"
	"github.com/BruksfildServices01/gym-manager/internal/domain/access"
	domain "github.com/BruksfildServices01/gym-manager/internal/domain/schedule"
	"github.com/BruksfildServices01/gym-manager/internal/httperr"
	"github.com/BruksfildServices01/gym-manager/internal/models"
	"github.com/BruksfildServices01/gym-manager/internal/timezone"
)

var ErrTrainerDecision = httperr.ErrForbidden(
	"pt_only_action",
	"Only the assigned personal trainer can do this.",
)

// TransitionSchedule handles approve, reject, complete and cancel.
type TransitionSchedule struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier Notifier
	stats    StatsInvalidator
}

func NewTransitionSchedule(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier Notifier,
	stats StatsInvalidator,
) *TransitionSchedule {
	return &TransitionSchedule{
		repo:     repo,
		audit:    audit,
		notifier: orNoopNotifier(notifier),
		stats:    orNoopInvalidator(stats),
	}
}

func (uc *TransitionSchedule) Execute(
	ctx context.Context,
	actor access.Actor,
	scheduleID uint,
	action domain.Action,
) (*models.Schedule, error) {

	s, err := uc.repo.GetScheduleForActor(ctx, scheduleID, actor)
	if err != nil {
		return nil, err
	}

	isTrainer := s.PTID != nil && *s.PTID == actor.UserID
	if action != domain.ActionCancel && !actor.IsAdmin && !isTrainer {
		return nil, ErrTrainerDecision
	}

	if err := domain.Apply(s, action); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateSchedule(ctx, s); err != nil {
		return nil, err
	}

	if action == domain.ActionComplete && s.MemberPackageID != nil {
		if err := uc.repo.ConsumePTSession(ctx, *s.MemberPackageID); err != nil {
			return nil, err
		}
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "schedule_" + s.Status,
		Entity:   "schedule",
		EntityID: &s.ID,
	})

	when := s.StartTime.In(timezone.Gym()).Format("2006-01-02 15:04")
	msg := fmt.Sprintf("Your session on %s is now %s.", when, s.Status)
	if actor.UserID != s.UserID {
		uc.notifier.NotifyQuietly(ctx, s.UserID, models.NotificationSchedule, "Session "+s.Status, msg)
	} else if s.PTID != nil {
		uc.notifier.NotifyQuietly(ctx, *s.PTID, models.NotificationSchedule, "Session "+s.Status,
			fmt.Sprintf("The session on %s was %s by the member.", when, s.Status))
	}

	uc.stats.Invalidate(ctx)

	return s, nil
}
