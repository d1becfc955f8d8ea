package access

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/gym-manager/internal/httperr"
	"github.com/BruksfildServices01/gym-manager/internal/models"
)

var (
	member  = Actor{UserID: 1, Role: models.RoleMember}
	other   = Actor{UserID: 2, Role: models.RoleMember}
	trainer = Actor{UserID: 10, Role: models.RoleTrainer}
	admin   = Actor{UserID: 99, Role: models.RoleMember, IsAdmin: true}
)

func uintPtr(v uint) *uint { return &v }

func TestOnlyMembersCreateReviews(t *testing.T) {
	assert.NoError(t, CanCreateReview(member))
	assert.ErrorIs(t, CanCreateReview(trainer), ErrReviewMembersOnly)
}

func TestOnlyAuthorUpdatesReview(t *testing.T) {
	assert.NoError(t, CanUpdateReview(member, member.UserID))
	assert.ErrorIs(t, CanUpdateReview(other, member.UserID), ErrReviewNotAuthor)
	assert.ErrorIs(t, CanUpdateReview(admin, member.UserID), ErrReviewNotAuthor)
}

func TestProgressRules(t *testing.T) {
	assert.NoError(t, CanCreateProgress(trainer))
	assert.ErrorIs(t, CanCreateProgress(member), ErrProgressTrainersOnly)

	assert.NoError(t, CanUpdateProgress(trainer, trainer.UserID))
	assert.ErrorIs(t, CanUpdateProgress(Actor{UserID: 11, Role: models.RoleTrainer}, trainer.UserID), ErrProgressNotCreator)
	assert.ErrorIs(t, CanUpdateProgress(member, trainer.UserID), ErrProgressNotCreator)
}

func TestScheduleUpdateModes(t *testing.T) {
	mode, err := CanUpdateSchedule(trainer, member.UserID, uintPtr(trainer.UserID))
	require.NoError(t, err)
	assert.False(t, mode.ForcePending)
	assert.True(t, mode.LockMemberFields)

	mode, err = CanUpdateSchedule(member, member.UserID, uintPtr(trainer.UserID))
	require.NoError(t, err)
	assert.True(t, mode.ForcePending)

	mode, err = CanUpdateSchedule(admin, member.UserID, nil)
	require.NoError(t, err)
	assert.Equal(t, ScheduleUpdate{}, mode)

	_, err = CanUpdateSchedule(other, member.UserID, uintPtr(trainer.UserID))
	assert.ErrorIs(t, err, ErrScheduleUpdateDenied)

	_, err = CanUpdateSchedule(Actor{UserID: 12, Role: models.RoleTrainer}, member.UserID, uintPtr(trainer.UserID))
	assert.ErrorIs(t, err, ErrScheduleUpdateDenied)
}

func TestTrainerCannotDeleteSchedule(t *testing.T) {
	err := CanDeleteSchedule(trainer)
	require.Error(t, err)

	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, be.HTTPStatus())

	assert.NoError(t, CanDeleteSchedule(member))
	assert.NoError(t, CanDeleteSchedule(admin))
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, RequireAdmin(admin))
	assert.ErrorIs(t, RequireAdmin(trainer), ErrAdminOnly)
}
