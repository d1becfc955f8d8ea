package access

import "github.com/BruksfildServices01/gym-manager/internal/httperr"

var (
	ErrAdminOnly = httperr.ErrForbidden("admin_only", "Only administrators can perform this action.")

	ErrReviewMembersOnly = httperr.ErrRule("members_only", "Only members can create reviews.")
	ErrReviewNotAuthor   = httperr.ErrRule("not_review_author", "You can only update your own reviews.")

	ErrProgressTrainersOnly = httperr.ErrRule("pts_only", "Only PTs can create progress records.")
	ErrProgressNotCreator   = httperr.ErrRule("not_progress_creator", "You can only update progress records you created.")

	ErrScheduleUpdateDenied = httperr.ErrRule("schedule_update_denied", "You do not have permission to update this schedule.")
	ErrScheduleDeleteByPT   = httperr.ErrForbidden("pt_cannot_delete", "Personal trainers cannot delete schedules.")

	ErrNotChatParticipant = httperr.ErrForbidden("not_chat_participant", "You are not a participant of this chat.")
	ErrNotMessageSender   = httperr.ErrRule("not_message_sender", "You can only change your own messages.")
)

func RequireAdmin(a Actor) error {
	if !a.IsAdmin {
		return ErrAdminOnly
	}
	return nil
}

func CanCreateReview(a Actor) error {
	if !a.IsMember() {
		return ErrReviewMembersOnly
	}
	return nil
}

func CanUpdateReview(a Actor, authorID uint) error {
	if a.UserID != authorID {
		return ErrReviewNotAuthor
	}
	return nil
}

func CanCreateProgress(a Actor) error {
	if !a.IsTrainer() {
		return ErrProgressTrainersOnly
	}
	return nil
}

func CanUpdateProgress(a Actor, trainerID uint) error {
	if !a.IsTrainer() || a.UserID != trainerID {
		return ErrProgressNotCreator
	}
	return nil
}

// ScheduleUpdate describes how a schedule change by the actor is applied.
type ScheduleUpdate struct {
	// ForcePending resets the status so the trainer re-approves the change.
	ForcePending bool
	// LockMemberFields keeps user and member package untouched.
	LockMemberFields bool
}

// CanUpdateSchedule decides whether the actor may change a schedule owned by
// ownerID and assigned to trainerID (nil when unassigned).
func CanUpdateSchedule(a Actor, ownerID uint, trainerID *uint) (ScheduleUpdate, error) {
	switch {
	case a.IsAdmin:
		return ScheduleUpdate{}, nil
	case a.IsTrainer() && trainerID != nil && *trainerID == a.UserID:
		return ScheduleUpdate{LockMemberFields: true}, nil
	case a.UserID == ownerID:
		return ScheduleUpdate{ForcePending: true}, nil
	}
	return ScheduleUpdate{}, ErrScheduleUpdateDenied
}

func CanDeleteSchedule(a Actor) error {
	if a.IsTrainer() && !a.IsAdmin {
		return ErrScheduleDeleteByPT
	}
	return nil
}

func CanChangeMessage(a Actor, senderID uint) error {
	if a.IsAdmin || a.UserID == senderID {
		return nil
	}
	return ErrNotMessageSender
}
