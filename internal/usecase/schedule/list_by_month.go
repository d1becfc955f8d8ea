package schedule

import (
	"context"
	"time"

	"github.com/BruksfildServices01/gym-manager/internal/domain/access"
	domain "github.com/BruksfildServices01/gym-manager/internal/domain/schedule"
	"github.com/BruksfildServices01/gym-manager/internal/dto"
	"github.com/BruksfildServices01/gym-manager/internal/timezone"
)

type ListSchedulesByMonth struct {
	repo domain.Repository
}

func NewListSchedulesByMonth(
	repo domain.Repository,
) *ListSchedulesByMonth {
	return &ListSchedulesByMonth{
		repo: repo,
	}
}

func (uc *ListSchedulesByMonth) Execute(
	ctx context.Context,
	actor access.Actor,
	year int,
	month int,
) ([]dto.ScheduleListDTO, error) {

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, timezone.Gym())
	end := start.AddDate(0, 1, 0)

	schedules, err := uc.repo.ListSchedulesForPeriod(ctx, actor, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ScheduleListDTO, 0, len(schedules))
	for _, s := range schedules {
		item := dto.ScheduleListDTO{
			ID:         s.ID,
			StartTime:  s.StartTime,
			EndTime:    s.EndTime,
			Status:     s.Status,
			MemberID:   s.UserID,
			MemberName: s.User.FullName(),
			PTID:       s.PTID,
			Note:       s.Note,
		}
		if s.PT != nil {
			item.PTName = s.PT.FullName()
		}
		out = append(out, item)
	}

	return out, nil
}
