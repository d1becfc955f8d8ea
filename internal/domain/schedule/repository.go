package schedule

import (
	"context"
	"time"

	"github.com/BruksfildServices01/gym-manager/internal/domain/access"
	"github.com/BruksfildServices01/gym-manager/internal/models"
)

type Repository interface {
	// -------- Users --------
	GetUser(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	// -------- Member package --------
	GetMemberPackage(
		ctx context.Context,
		id uint,
	) (*models.MemberPackage, error)

	// -------- Schedule (create / conflict) --------
	CreateSchedule(
		ctx context.Context,
		s *models.Schedule,
	) error

	AssertNoTimeConflict(
		ctx context.Context,
		trainerID uint,
		start time.Time,
		end time.Time,
		excludeID uint,
	) error

	// -------- Schedule (read / change) --------
	GetScheduleForActor(
		ctx context.Context,
		scheduleID uint,
		actor access.Actor,
	) (*models.Schedule, error)

	UpdateSchedule(
		ctx context.Context,
		s *models.Schedule,
	) error

	DeleteSchedule(
		ctx context.Context,
		id uint,
	) error

	// ConsumePTSession decrements the package's remaining trainer sessions
	// without going below zero.
	ConsumePTSession(
		ctx context.Context,
		memberPackageID uint,
	) error

	ListSchedulesForPeriod(
		ctx context.Context,
		actor access.Actor,
		start time.Time,
		end time.Time,
	) ([]models.Schedule, error)
}
