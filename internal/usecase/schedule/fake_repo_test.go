package schedule

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/gym-manager/internal/domain/access"
	domain "github.com/BruksfildServices01/gym-manager/internal/domain/schedule"
	"github.com/BruksfildServices01/gym-manager/internal/httperr"
	"github.com/BruksfildServices01/gym-manager/internal/models"
)

// memRepo is an in-memory domain.Repository used by the use case tests.
type memRepo struct {
	users     map[uint]*models.User
	packages  map[uint]*models.MemberPackage
	schedules map[uint]*models.Schedule
	nextID    uint
	consumed  []uint
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:     map[uint]*models.User{},
		packages:  map[uint]*models.MemberPackage{},
		schedules: map[uint]*models.Schedule{},
		nextID:    1,
	}
}

func (r *memRepo) addUser(id uint, role string) *models.User {
	u := &models.User{ID: id, Username: "u", Role: role, IsActive: true}
	r.users[id] = u
	return u
}

func (r *memRepo) GetUser(_ context.Context, id uint) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRepo) GetMemberPackage(_ context.Context, id uint) (*models.MemberPackage, error) {
	if mp, ok := r.packages[id]; ok {
		return mp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRepo) CreateSchedule(_ context.Context, s *models.Schedule) error {
	s.ID = r.nextID
	r.nextID++
	cp := *s
	r.schedules[s.ID] = &cp
	return nil
}

func (r *memRepo) AssertNoTimeConflict(_ context.Context, trainerID uint, start, end time.Time, excludeID uint) error {
	for _, s := range r.schedules {
		if s.ID == excludeID || s.PTID == nil || *s.PTID != trainerID {
			continue
		}
		if !isBlocking(s.Status) {
			continue
		}
		if s.StartTime.Before(end) && s.EndTime.After(start) {
			return httperr.ErrRule("time_conflict", "conflict")
		}
	}
	return nil
}

func (r *memRepo) GetScheduleForActor(_ context.Context, id uint, a access.Actor) (*models.Schedule, error) {
	s, ok := r.schedules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	switch {
	case a.IsAdmin:
	case a.IsTrainer():
		if s.PTID == nil || *s.PTID != a.UserID {
			return nil, gorm.ErrRecordNotFound
		}
	default:
		if s.UserID != a.UserID {
			return nil, gorm.ErrRecordNotFound
		}
	}
	cp := *s
	return &cp, nil
}

func (r *memRepo) UpdateSchedule(_ context.Context, s *models.Schedule) error {
	cp := *s
	r.schedules[s.ID] = &cp
	return nil
}

func (r *memRepo) DeleteSchedule(_ context.Context, id uint) error {
	delete(r.schedules, id)
	return nil
}

func (r *memRepo) ConsumePTSession(_ context.Context, id uint) error {
	r.consumed = append(r.consumed, id)
	return nil
}

func (r *memRepo) ListSchedulesForPeriod(ctx context.Context, a access.Actor, start, end time.Time) ([]models.Schedule, error) {
	var out []models.Schedule
	for id := range r.schedules {
		s, err := r.GetScheduleForActor(ctx, id, a)
		if err != nil {
			continue
		}
		if !s.StartTime.Before(start) && s.StartTime.Before(end) {
			out = append(out, *s)
		}
	}
	return out, nil
}

var _ domain.Repository = (*memRepo)(nil)

type sentNotification struct {
	UserID uint
	Title  string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *fakeNotifier) NotifyQuietly(_ context.Context, userID uint, _, title, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{UserID: userID, Title: title})
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }

func ptr[T any](v T) *T { return &v }
