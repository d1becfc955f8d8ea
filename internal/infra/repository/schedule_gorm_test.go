package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gym-manager/internal/domain/access"
	"github.com/BruksfildServices01/gym-manager/internal/httperr"
	"github.com/BruksfildServices01/gym-manager/internal/models"
	"github.com/BruksfildServices01/gym-manager/internal/testutil"
)

func TestScheduleGormRepository_ConflictAndScope(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewScheduleGormRepository(db)
	ctx := context.Background()

	member := testutil.CreateUser(t, db, "m1", models.RoleMember)
	other := testutil.CreateUser(t, db, "m2", models.RoleMember)
	trainer := testutil.CreateUser(t, db, "pt1", models.RoleTrainer)

	start := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	s := &models.Schedule{UserID: member.ID, PTID: &trainer.ID, StartTime: start, EndTime: start.Add(time.Hour), Status: "approved"}
	require.NoError(t, repo.CreateSchedule(ctx, s))

	err := repo.AssertNoTimeConflict(ctx, trainer.ID, start.Add(30*time.Minute), start.Add(90*time.Minute), 0)
	assert.True(t, httperr.IsBusiness(err, "time_conflict"))

	assert.NoError(t, repo.AssertNoTimeConflict(ctx, trainer.ID, start, start.Add(time.Hour), s.ID))
	assert.NoError(t, repo.AssertNoTimeConflict(ctx, trainer.ID, start.Add(time.Hour), start.Add(2*time.Hour), 0))

	_, err = repo.GetScheduleForActor(ctx, s.ID, access.Actor{UserID: other.ID, Role: models.RoleMember})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	got, err := repo.GetScheduleForActor(ctx, s.ID, access.Actor{UserID: trainer.ID, Role: models.RoleTrainer})
	require.NoError(t, err)
	assert.Equal(t, member.ID, got.User.ID)
}

func TestScheduleGormRepository_ConsumePTSessionStopsAtZero(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewScheduleGormRepository(db)
	ctx := context.Background()

	member := testutil.CreateUser(t, db, "m1", models.RoleMember)
	pkg := testutil.CreatePackage(t, db, "PT", 100, 30)
	mp := &models.MemberPackage{UserID: member.ID, PackageID: pkg.ID, Status: models.MemberPackageActive, RemainingPTSessions: 1}
	require.NoError(t, db.Create(mp).Error)

	require.NoError(t, repo.ConsumePTSession(ctx, mp.ID))
	require.NoError(t, repo.ConsumePTSession(ctx, mp.ID))

	var got models.MemberPackage
	require.NoError(t, db.First(&got, mp.ID).Error)
	assert.Equal(t, 0, got.RemainingPTSessions)
}
