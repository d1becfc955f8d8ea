package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gym-manager/internal/models"
	"github.com/BruksfildServices01/gym-manager/internal/testutil"
)

type recordingNotifier struct {
	mu    sync.Mutex
	users []uint
}

func (n *recordingNotifier) NotifyQuietly(_ context.Context, userID uint, _, _, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, userID)
}

func TestExpireMemberPackages_IssuesSingleUpdate(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE "member_packages" SET .* WHERE status = \$\d+ AND end_date < \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := ExpireMemberPackages(context.Background(), gdb, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpireMemberPackages_OnlyPastActivePackages(t *testing.T) {
	db := testutil.NewDB(t)
	member := testutil.CreateUser(t, db, "m1", models.RoleMember)
	pkg := testutil.CreatePackage(t, db, "Monthly", 10, 30)

	now := time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)
	past := &models.MemberPackage{UserID: member.ID, PackageID: pkg.ID, EndDate: now.AddDate(0, 0, -1), Status: models.MemberPackageActive}
	future := &models.MemberPackage{UserID: member.ID, PackageID: pkg.ID, EndDate: now.AddDate(0, 0, 1), Status: models.MemberPackageActive}
	cancelled := &models.MemberPackage{UserID: member.ID, PackageID: pkg.ID, EndDate: now.AddDate(0, 0, -3), Status: models.MemberPackageCancelled}
	require.NoError(t, db.Create(past).Error)
	require.NoError(t, db.Create(future).Error)
	require.NoError(t, db.Create(cancelled).Error)

	n, err := ExpireMemberPackages(context.Background(), db, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var gotPast, gotFuture, gotCancelled models.MemberPackage
	require.NoError(t, db.First(&gotPast, past.ID).Error)
	assert.Equal(t, models.MemberPackageExpired, gotPast.Status)
	require.NoError(t, db.First(&gotFuture, future.ID).Error)
	assert.Equal(t, models.MemberPackageActive, gotFuture.Status)
	require.NoError(t, db.First(&gotCancelled, cancelled.ID).Error)
	assert.Equal(t, models.MemberPackageCancelled, gotCancelled.Status)
}

func TestSendScheduleReminders_NextDayApprovedOnly(t *testing.T) {
	db := testutil.NewDB(t)
	a := testutil.CreateUser(t, db, "a", models.RoleMember)
	b := testutil.CreateUser(t, db, "b", models.RoleMember)

	now := time.Date(2026, 5, 15, 7, 0, 0, 0, time.UTC)
	rows := []models.Schedule{
		{UserID: a.ID, StartTime: now.Add(3 * time.Hour), EndTime: now.Add(4 * time.Hour), Status: "approved"},
		{UserID: b.ID, StartTime: now.Add(5 * time.Hour), EndTime: now.Add(6 * time.Hour), Status: "pending"},
		{UserID: b.ID, StartTime: now.Add(30 * time.Hour), EndTime: now.Add(31 * time.Hour), Status: "approved"},
	}
	require.NoError(t, db.Create(&rows).Error)

	notifier := &recordingNotifier{}
	n, err := SendScheduleReminders(context.Background(), db, notifier, now)
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.Equal(t, []uint{a.ID}, notifier.users)
}

func TestRunner_RejectsBadSpec(t *testing.T) {
	r := NewRunner(nil, &recordingNotifier{})
	assert.Error(t, r.Start("not a spec", "@daily"))
}
