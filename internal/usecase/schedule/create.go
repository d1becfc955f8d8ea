package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/gym-manager/internal/audit"
	"github.com/BruksfildServices01/gym-manager/internal/domain/access"
	domain "github.com/BruksfildServices01/gym-manager/internal/domain/schedule"
	"github.com/BruksfildServices01/gym-manager/internal/httperr"
	"github.com/BruksfildServices01/gym-manager/internal/models"
	"github.com/BruksfildServices01/gym-manager/internal/timezone"
)

var (
	ErrInvalidTrainer = httperr.ErrRule("invalid_pt", "The selected user is not a personal trainer.")
	ErrMemberRequired = httperr.ErrRule("member_required", "Sessions are booked for a member.")
)

// ======================================================
// INPUT
// ======================================================

type CreateScheduleInput struct {
	Actor access.Actor

	// UserID is the member the session is for. Ignored when a member books
	// for themselves.
	UserID          uint
	PTID            *uint
	MemberPackageID *uint

	StartTime time.Time
	EndTime   time.Time
	Note      string
}

// ======================================================
// USE CASE
// ======================================================

type CreateSchedule struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier Notifier
	stats    StatsInvalidator
}

func NewCreateSchedule(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier Notifier,
	stats StatsInvalidator,
) *CreateSchedule {
	return &CreateSchedule{
		repo:     repo,
		audit:    audit,
		notifier: orNoopNotifier(notifier),
		stats:    orNoopInvalidator(stats),
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateSchedule) Execute(
	ctx context.Context,
	in CreateScheduleInput,
) (*models.Schedule, error) {

	if err := domain.ValidateWindow(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Who is booking for whom
	// --------------------------------------------------
	memberID := in.UserID
	trainerID := in.PTID

	switch {
	case in.Actor.IsAdmin:
	case in.Actor.IsTrainer():
		id := in.Actor.UserID
		trainerID = &id
	default:
		memberID = in.Actor.UserID
	}

	if memberID == 0 {
		return nil, httperr.ErrRule("member_required", "user_id is required.")
	}

	member, err := uc.repo.GetUser(ctx, memberID)
	if err != nil {
		return nil, notFoundAs(err, "member_not_found", "Member not found.")
	}
	if member.Role != models.RoleMember {
		return nil, ErrMemberRequired
	}

	var trainer *models.User
	if trainerID != nil {
		t, err := uc.repo.GetUser(ctx, *trainerID)
		if err != nil {
			return nil, notFoundAs(err, "pt_not_found", "Personal trainer not found.")
		}
		if t.Role != models.RoleTrainer {
			return nil, ErrInvalidTrainer
		}
		trainer = t
	}

	// --------------------------------------------------
	// Package
	// --------------------------------------------------
	if in.MemberPackageID != nil {
		if err := uc.checkMemberPackage(ctx, *in.MemberPackageID, memberID); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// Trainer availability
	// --------------------------------------------------
	if trainerID != nil {
		if err := uc.repo.AssertNoTimeConflict(ctx, *trainerID, in.StartTime, in.EndTime, 0); err != nil {
			return nil, err
		}
	}

	s := &models.Schedule{
		UserID:          memberID,
		PTID:            trainerID,
		MemberPackageID: in.MemberPackageID,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		Status:          string(domain.InitialStatus()),
		Note:            in.Note,
	}

	if err := uc.repo.CreateSchedule(ctx, s); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.Actor.UserID,
		Action:   "schedule_created",
		Entity:   "schedule",
		EntityID: &s.ID,
		Metadata: map[string]any{"start": s.StartTime, "end": s.EndTime},
	})

	when := s.StartTime.In(timezone.Gym()).Format("2006-01-02 15:04")
	switch {
	case trainer != nil && in.Actor.UserID != trainer.ID:
		uc.notifier.NotifyQuietly(ctx, trainer.ID, models.NotificationSchedule,
			"New session request",
			fmt.Sprintf("A session on %s is waiting for your approval.", when))
	case in.Actor.UserID != memberID:
		uc.notifier.NotifyQuietly(ctx, memberID, models.NotificationSchedule,
			"New session",
			fmt.Sprintf("A session was booked for you on %s.", when))
	}

	uc.stats.Invalidate(ctx)

	return s, nil
}

func (uc *CreateSchedule) checkMemberPackage(ctx context.Context, id, memberID uint) error {
	mp, err := uc.repo.GetMemberPackage(ctx, id)
	if err != nil {
		return notFoundAs(err, "member_package_not_found", "Member package not found.")
	}
	if mp.UserID != memberID {
		return httperr.ErrRule("member_package_mismatch", "The package does not belong to this member.")
	}
	if mp.Status != models.MemberPackageActive {
		return httperr.ErrRule("member_package_inactive", "The package is not active.")
	}
	return nil
}

func notFoundAs(err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrRule(code, message)
	}
	return err
}
