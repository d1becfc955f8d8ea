package notify

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/gym-manager/internal/mailer"
	"github.com/BruksfildServices01/gym-manager/internal/models"
	"github.com/BruksfildServices01/gym-manager/internal/testutil"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func TestNotify_StoresRowAndSendsMail(t *testing.T) {
	db := testutil.NewDB(t)

	u := models.User{Username: "anna", Email: "anna@gym.local", Role: models.RoleMember}
	require.NoError(t, db.Create(&u).Error)

	m := &recordingMailer{}
	svc := NewService(db, m)

	n, err := svc.Notify(context.Background(), u.ID, models.NotificationSchedule, "Approved", "Your session was approved.")
	require.NoError(t, err)
	svc.Close()

	assert.NotZero(t, n.ID)
	assert.False(t, n.IsRead)

	require.Len(t, m.sent, 1)
	assert.Equal(t, "anna@gym.local", m.sent[0].To)
	assert.Equal(t, "Approved", m.sent[0].Subject)
}

func TestNotify_NilServiceIsNoop(t *testing.T) {
	var svc *Service
	n, err := svc.Notify(context.Background(), 1, models.NotificationSystem, "t", "m")
	assert.NoError(t, err)
	assert.Nil(t, n)
}

func TestNotify_AfterCloseStoresRowWithoutMail(t *testing.T) {
	db := testutil.NewDB(t)

	u := models.User{Username: "anna", Email: "anna@gym.local", Role: models.RoleMember}
	require.NoError(t, db.Create(&u).Error)

	m := &recordingMailer{}
	svc := NewService(db, m)
	svc.Close()

	assert.NotPanics(t, func() {
		svc.NotifyQuietly(context.Background(), u.ID, models.NotificationSchedule, "Reminder", "You have a session tomorrow.")
	})
	assert.NotPanics(t, svc.Close)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Empty(t, m.sent)
}
