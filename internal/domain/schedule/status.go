package schedule

import "github.com/BruksfildServices01/gym-manager/internal/httperr"

// ===============================
// Schedule Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// UsageStatuses are the statuses that count as a gym visit in statistics.
var UsageStatuses = []string{string(StatusApproved), string(StatusCompleted)}

// BlockingStatuses hold a trainer's time slot.
var BlockingStatuses = []string{string(StatusPending), string(StatusApproved)}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func InitialStatus() Status {
	return StatusPending
}

// ===============================
// Validations
// ===============================

func CanApprove(current Status) error {
	if current != StatusPending {
		return httperr.ErrRule("invalid_state", "Only pending schedules can be approved.")
	}
	return nil
}

func CanReject(current Status) error {
	if current != StatusPending {
		return httperr.ErrRule("invalid_state", "Only pending schedules can be rejected.")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusApproved {
		return httperr.ErrRule("invalid_state", "Only approved schedules can be completed.")
	}
	return nil
}

func CanCancel(current Status) error {
	if current != StatusPending && current != StatusApproved {
		return httperr.ErrRule("invalid_state", "Only pending or approved schedules can be cancelled.")
	}
	return nil
}
