package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/gym-manager/internal/domain/schedule"
	"github.com/BruksfildServices01/gym-manager/internal/logger"
	"github.com/BruksfildServices01/gym-manager/internal/models"
	"github.com/BruksfildServices01/gym-manager/internal/timezone"
)

// Notifier is the part of the notification service the jobs need.
type Notifier interface {
	NotifyQuietly(ctx context.Context, userID uint, kind, title, message string)
}

type Runner struct {
	db       *gorm.DB
	notifier Notifier
	cron     *cron.Cron
	now      func() time.Time
}

func NewRunner(db *gorm.DB, notifier Notifier) *Runner {
	return &Runner{
		db:       db,
		notifier: notifier,
		cron:     cron.New(cron.WithLocation(timezone.Gym())),
		now:      timezone.Now,
	}
}

// Start registers the expiry and reminder jobs and starts the scheduler.
func (r *Runner) Start(expireSpec, reminderSpec string) error {
	if _, err := r.cron.AddFunc(expireSpec, r.runExpire); err != nil {
		return fmt.Errorf("expire job: %w", err)
	}
	if _, err := r.cron.AddFunc(reminderSpec, r.runReminders); err != nil {
		return fmt.Errorf("reminder job: %w", err)
	}

	r.cron.Start()
	return nil
}

// Stop waits for running jobs to finish or ctx to end.
func (r *Runner) Stop(ctx context.Context) {
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (r *Runner) runExpire() {
	n, err := ExpireMemberPackages(context.Background(), r.db, r.now())
	if err != nil {
		logger.L().Error("expire member packages", zap.Error(err))
		return
	}
	if n > 0 {
		logger.L().Info("member packages expired", zap.Int64("count", n))
	}
}

func (r *Runner) runReminders() {
	n, err := SendScheduleReminders(context.Background(), r.db, r.notifier, r.now())
	if err != nil {
		logger.L().Error("schedule reminders", zap.Error(err))
		return
	}
	logger.L().Info("schedule reminders sent", zap.Int("count", n))
}

// ======================================================
// JOBS
// ======================================================

// ExpireMemberPackages marks active packages whose end date has passed as expired.
func ExpireMemberPackages(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&models.MemberPackage{}).
		Where("status = ? AND end_date < ?", models.MemberPackageActive, now).
		Updates(map[string]any{
			"status":     models.MemberPackageExpired,
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}

// SendScheduleReminders notifies members of approved sessions starting in the next 24 hours.
func SendScheduleReminders(ctx context.Context, db *gorm.DB, notifier Notifier, now time.Time) (int, error) {
	var upcoming []models.Schedule
	err := db.WithContext(ctx).
		Where("status = ? AND start_time >= ? AND start_time < ?",
			string(domain.StatusApproved), now, now.Add(24*time.Hour)).
		Order("start_time ASC").
		Find(&upcoming).Error
	if err != nil {
		return 0, err
	}

	for _, s := range upcoming {
		when := s.StartTime.In(timezone.Gym()).Format("2006-01-02 15:04")
		notifier.NotifyQuietly(ctx, s.UserID, models.NotificationReminder,
			"Upcoming session",
			fmt.Sprintf("Reminder: you have a session on %s.", when))
	}

	return len(upcoming), nil
}
