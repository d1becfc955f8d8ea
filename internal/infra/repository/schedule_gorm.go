package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/gym-manager/internal/domain/access"
	domain "github.com/BruksfildServices01/gym-manager/internal/domain/schedule"
	"github.com/BruksfildServices01/gym-manager/internal/httperr"
	"github.com/BruksfildServices01/gym-manager/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *ScheduleGormRepository) GetUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// --------------------------------------------------
// Member package
// --------------------------------------------------

func (r *ScheduleGormRepository) GetMemberPackage(
	ctx context.Context,
	id uint,
) (*models.MemberPackage, error) {

	var mp models.MemberPackage
	if err := r.db.WithContext(ctx).First(&mp, id).Error; err != nil {
		return nil, err
	}
	return &mp, nil
}

// --------------------------------------------------
// Schedule
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateSchedule(
	ctx context.Context,
	s *models.Schedule,
) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// AssertNoTimeConflict fails when the trainer already holds an overlapping
// pending or approved session. excludeID skips the schedule being edited.
func (r *ScheduleGormRepository) AssertNoTimeConflict(
	ctx context.Context,
	trainerID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) error {

	q := r.db.WithContext(ctx).
		Model(&models.Schedule{}).
		Where(
			"pt_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			trainerID,
			domain.BlockingStatuses,
			end,
			start,
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return httperr.ErrRule("time_conflict", "The trainer already has a session in this time range.")
	}

	return nil
}

func (r *ScheduleGormRepository) GetScheduleForActor(
	ctx context.Context,
	scheduleID uint,
	actor access.Actor,
) (*models.Schedule, error) {

	var s models.Schedule
	q := access.Scope(r.db.WithContext(ctx), actor, "user_id", "pt_id")
	if err := q.
		Preload("User").
		Preload("PT").
		Where("id = ?", scheduleID).
		First(&s).Error; err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *ScheduleGormRepository) UpdateSchedule(
	ctx context.Context,
	s *models.Schedule,
) error {
	return r.db.WithContext(ctx).
		Omit("User", "PT", "MemberPackage").
		Save(s).Error
}

func (r *ScheduleGormRepository) DeleteSchedule(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.Schedule{}, id).Error
}

func (r *ScheduleGormRepository) ConsumePTSession(
	ctx context.Context,
	memberPackageID uint,
) error {
	return r.db.WithContext(ctx).
		Model(&models.MemberPackage{}).
		Where("id = ? AND remaining_pt_sessions > 0", memberPackageID).
		UpdateColumn("remaining_pt_sessions", gorm.Expr("remaining_pt_sessions - 1")).Error
}

func (r *ScheduleGormRepository) ListSchedulesForPeriod(
	ctx context.Context,
	actor access.Actor,
	start time.Time,
	end time.Time,
) ([]models.Schedule, error) {

	var out []models.Schedule

	q := access.Scope(r.db.WithContext(ctx), actor, "user_id", "pt_id")
	err := q.
		Preload("User").
		Preload("PT").
		Where("start_time >= ? AND start_time < ?", start, end).
		Order("start_time ASC").
		Find(&out).Error

	if err != nil {
		return nil, err
	}

	return out, nil
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
