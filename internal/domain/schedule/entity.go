package schedule

import (
	"time"

	"github.com/BruksfildServices01/gym-manager/internal/httperr"
	"github.com/BruksfildServices01/gym-manager/internal/models"
)

// ===============================
// Domain Actions
// ===============================

type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// Apply moves s to the status implied by action.
func Apply(s *models.Schedule, action Action) error {
	current := Status(s.Status)

	var (
		next Status
		err  error
	)
	switch action {
	case ActionApprove:
		next, err = StatusApproved, CanApprove(current)
	case ActionReject:
		next, err = StatusRejected, CanReject(current)
	case ActionComplete:
		next, err = StatusCompleted, CanComplete(current)
	case ActionCancel:
		next, err = StatusCancelled, CanCancel(current)
	default:
		return httperr.ErrRule("invalid_action", "Unknown schedule action.")
	}
	if err != nil {
		return err
	}

	s.Status = string(next)
	return nil
}

// ValidateWindow checks that a session ends after it starts and lasts at most a day.
func ValidateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return httperr.ErrRule("invalid_time", "start_time and end_time are required.")
	}
	if !end.After(start) {
		return httperr.ErrRule("invalid_time", "end_time must be after start_time.")
	}
	if end.Sub(start) > 24*time.Hour {
		return httperr.ErrRule("invalid_time", "A session cannot last more than 24 hours.")
	}
	return nil
}
