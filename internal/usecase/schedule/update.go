package schedule

import (
	"context"
	"time"

	"github.com/BruksfildServices01/gym-manager/internal/audit"
	"github.com/BruksfildServices01/gym-manager/internal/domain/access"
	domain "github.com/BruksfildServices01/gym-manager/internal/domain/schedule"
	"github.com/BruksfildServices01/gym-manager/internal/httperr"
	"github.com/BruksfildServices01/gym-manager/internal/models"
)

// UpdateScheduleInput carries the fields to change. Nil fields are left as is.
type UpdateScheduleInput struct {
	Actor access.Actor
	ID    uint

	UserID          *uint
	PTID            *uint
	MemberPackageID *uint

	StartTime *time.Time
	EndTime   *time.Time
	Status    *string
	Note      *string
}

type UpdateSchedule struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	stats StatsInvalidator
}

func NewUpdateSchedule(
	repo domain.Repository,
	audit *audit.Dispatcher,
	stats StatsInvalidator,
) *UpdateSchedule {
	return &UpdateSchedule{
		repo:  repo,
		audit: audit,
		stats: orNoopInvalidator(stats),
	}
}

func (uc *UpdateSchedule) Execute(
	ctx context.Context,
	in UpdateScheduleInput,
) (*models.Schedule, error) {

	s, err := uc.repo.GetScheduleForActor(ctx, in.ID, in.Actor)
	if err != nil {
		return nil, err
	}

	policy, err := access.CanUpdateSchedule(in.Actor, s.UserID, s.PTID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Member side fields
	// --------------------------------------------------
	if !policy.LockMemberFields {
		if in.UserID != nil && *in.UserID != s.UserID {
			if !in.Actor.IsAdmin {
				return nil, httperr.ErrRule("user_locked", "The member of a schedule cannot be changed.")
			}
			if _, err := uc.repo.GetUser(ctx, *in.UserID); err != nil {
				return nil, notFoundAs(err, "member_not_found", "Member not found.")
			}
			s.UserID = *in.UserID
		}
		if in.MemberPackageID != nil {
			mp, err := uc.repo.GetMemberPackage(ctx, *in.MemberPackageID)
			if err != nil {
				return nil, notFoundAs(err, "member_package_not_found", "Member package not found.")
			}
			if mp.UserID != s.UserID {
				return nil, httperr.ErrRule("member_package_mismatch", "The package does not belong to this member.")
			}
			s.MemberPackageID = in.MemberPackageID
		}
	}

	// --------------------------------------------------
	// Trainer
	// --------------------------------------------------
	if in.PTID != nil && (s.PTID == nil || *s.PTID != *in.PTID) {
		t, err := uc.repo.GetUser(ctx, *in.PTID)
		if err != nil {
			return nil, notFoundAs(err, "pt_not_found", "Personal trainer not found.")
		}
		if t.Role != models.RoleTrainer {
			return nil, httperr.ErrRule("invalid_pt", "The selected user is not a personal trainer.")
		}
		s.PTID = in.PTID
		s.PT = nil
	}

	if in.StartTime != nil {
		s.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		s.EndTime = *in.EndTime
	}
	if in.Note != nil {
		s.Note = *in.Note
	}

	if in.Status != nil {
		st := domain.Status(*in.Status)
		if !st.IsValid() {
			return nil, httperr.ErrRule("invalid_status", "Unknown schedule status.")
		}
		s.Status = string(st)
	}

	if policy.ForcePending {
		s.Status = string(domain.StatusPending)
	}

	if err := domain.ValidateWindow(s.StartTime, s.EndTime); err != nil {
		return nil, err
	}

	if s.PTID != nil && isBlocking(s.Status) {
		if err := uc.repo.AssertNoTimeConflict(ctx, *s.PTID, s.StartTime, s.EndTime, s.ID); err != nil {
			return nil, err
		}
	}

	if err := uc.repo.UpdateSchedule(ctx, s); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.Actor.UserID,
		Action:   "schedule_updated",
		Entity:   "schedule",
		EntityID: &s.ID,
		Metadata: map[string]any{"status": s.Status},
	})

	uc.stats.Invalidate(ctx)

	return s, nil
}

func isBlocking(status string) bool {
	for _, b := range domain.BlockingStatuses {
		if b == status {
			return true
		}
	}
	return false
}
