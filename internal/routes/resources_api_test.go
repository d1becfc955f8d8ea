package routes

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/gym-manager/internal/models"
	"github.com/BruksfildServices01/gym-manager/internal/testutil"
	"github.com/BruksfildServices01/gym-manager/internal/timezone"
)

// ======================================================
// MEMBER PROFILES
// ======================================================

func TestMemberProfile_BMIIsAlwaysDerived(t *testing.T) {
	h := newHarness(t)
	member := h.user("anna", models.RoleMember)

	w := h.do(http.MethodPost, "/api/member-profiles", map[string]any{
		"height": 170,
		"weight": 65,
		"bmi":    99,
		"goal":   "run a marathon",
	}, member)
	requireStatus(t, http.StatusCreated, w)

	p := decode[models.MemberProfile](t, w)
	assert.Equal(t, member.ID, p.UserID)
	assert.InDelta(t, 22.49, p.BMI, 0.001)

	w = h.do(http.MethodPatch, fmt.Sprintf("/api/member-profiles/%d", p.ID), map[string]any{"weight": 80}, member)
	requireStatus(t, http.StatusOK, w)
	assert.InDelta(t, 27.68, decode[models.MemberProfile](t, w).BMI, 0.001)

	w = h.do(http.MethodGet, "/api/member-profiles/me", nil, member)
	requireStatus(t, http.StatusOK, w)
	assert.Equal(t, p.ID, decode[models.MemberProfile](t, w).ID)
}

func TestMemberProfile_MeWithoutProfile(t *testing.T) {
	h := newHarness(t)
	member := h.user("anna", models.RoleMember)

	w := h.do(http.MethodGet, "/api/member-profiles/me", nil, member)
	requireStatus(t, http.StatusNotFound, w)
	assert.Equal(t, "profile_not_found", errorCode(t, w))
}

func TestMemberProfile_TrainerCannotOwnProfile(t *testing.T) {
	h := newHarness(t)
	trainer := h.user("coach", models.RoleTrainer)

	w := h.do(http.MethodPost, "/api/member-profiles", map[string]any{"height": 180}, trainer)
	requireStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "member_required", errorCode(t, w))
}

// ======================================================
// PACKAGES
// ======================================================

func TestPackages_WritesAreAdminOnly(t *testing.T) {
	h := newHarness(t)
	member := h.user("anna", models.RoleMember)
	root := h.admin("root")

	body := map[string]any{"name": "Gold", "price": 500000, "duration_days": 30, "pt_sessions": 4, "package_type": "pt"}

	w := h.do(http.MethodPost, "/api/packages", body, member)
	requireStatus(t, http.StatusForbidden, w)
	assert.Equal(t, "admin_only", errorCode(t, w))

	w = h.do(http.MethodPost, "/api/packages", body, root)
	requireStatus(t, http.StatusCreated, w)
	pkg := decode[models.Package](t, w)
	assert.True(t, pkg.IsActive)

	w = h.do(http.MethodGet, "/api/packages?package_type=pt", nil, member)
	requireStatus(t, http.StatusOK, w)
	assert.Len(t, decode[listBody[models.Package]](t, w).Data, 1)
}

func TestMemberPackage_PeriodAndSessionsFollowPackage(t *testing.T) {
	h := newHarness(t)
	member := h.user("anna", models.RoleMember)
	pkg := testutil.CreatePackage(t, h.db, "Gold", 500000, 30)
	require.NoError(t, h.db.Model(pkg).Update("pt_sessions", 8).Error)

	w := h.do(http.MethodPost, "/api/member-packages", map[string]any{
		"package_id": pkg.ID,
		"start_date": "2030-01-01",
	}, member)
	requireStatus(t, http.StatusCreated, w)

	mp := decode[models.MemberPackage](t, w)
	assert.Equal(t, member.ID, mp.UserID)
	assert.Equal(t, 8, mp.RemainingPTSessions)
	assert.Equal(t, 30, int(mp.EndDate.Sub(mp.StartDate).Hours()/24))
	assert.Equal(t, models.MemberPackageActive, mp.Status)
}

// ======================================================
// REVIEWS
// ======================================================

func TestReviews_OnlyMembersCreateAndAuthorIsCaller(t *testing.T) {
	h := newHarness(t)
	member := h.user("anna", models.RoleMember)
	other := h.user("bob", models.RoleMember)
	trainer := h.user("coach", models.RoleTrainer)

	w := h.do(http.MethodPost, "/api/reviews", map[string]any{"gym_rating": 4}, trainer)
	requireStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "members_only", errorCode(t, w))

	w = h.do(http.MethodPost, "/api/reviews", map[string]any{
		"user_id":    other.ID,
		"pt_id":      trainer.ID,
		"gym_rating": 5,
		"pt_rating":  4,
	}, member)
	requireStatus(t, http.StatusCreated, w)
	r := decode[models.Review](t, w)
	assert.Equal(t, member.ID, r.UserID)

	w = h.do(http.MethodPatch, fmt.Sprintf("/api/reviews/%d", r.ID), map[string]any{"comment": "great"}, other)
	requireStatus(t, http.StatusNotFound, w)

	// the reviewed trainer sees it but cannot edit it
	w = h.do(http.MethodGet, "/api/reviews", nil, trainer)
	requireStatus(t, http.StatusOK, w)
	assert.Len(t, decode[listBody[models.Review]](t, w).Data, 1)

	w = h.do(http.MethodPatch, fmt.Sprintf("/api/reviews/%d", r.ID), map[string]any{"comment": "great"}, trainer)
	requireStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "not_review_author", errorCode(t, w))

	var n int64
	require.NoError(t, h.db.Model(&models.Notification{}).Where("user_id = ?", trainer.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestReviews_TrainerRatingNeedsTrainer(t *testing.T) {
	h := newHarness(t)
	member := h.user("anna", models.RoleMember)
	other := h.user("bob", models.RoleMember)

	w := h.do(http.MethodPost, "/api/reviews", map[string]any{"gym_rating": 5, "pt_rating": 3}, member)
	requireStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "pt_required", errorCode(t, w))

	w = h.do(http.MethodPost, "/api/reviews", map[string]any{"gym_rating": 5, "pt_id": other.ID, "pt_rating": 3}, member)
	requireStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "invalid_pt", errorCode(t, w))
}

// ======================================================
// PROGRESS
// ======================================================

func TestProgress_OnlyCreatingTrainerEdits(t *testing.T) {
	h := newHarness(t)
	member := h.user("anna", models.RoleMember)
	trainer := h.user("coach", models.RoleTrainer)
	otherTrainer := h.user("coach2", models.RoleTrainer)

	body := map[string]any{"user_id": member.ID, "weight": 70.5, "body_fat": 18}

	w := h.do(http.MethodPost, "/api/progress", body, member)
	requireStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "pts_only", errorCode(t, w))

	w = h.do(http.MethodPost, "/api/progress", map[string]any{"user_id": otherTrainer.ID, "weight": 70}, trainer)
	requireStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "member_required", errorCode(t, w))

	w = h.do(http.MethodPost, "/api/progress", body, trainer)
	requireStatus(t, http.StatusCreated, w)
	p := decode[models.Progress](t, w)
	assert.Equal(t, trainer.ID, p.PTID)
	assert.False(t, p.RecordedAt.IsZero())

	w = h.do(http.MethodGet, "/api/progress", nil, member)
	requireStatus(t, http.StatusOK, w)
	assert.Len(t, decode[listBody[models.Progress]](t, w).Data, 1)

	w = h.do(http.MethodPatch, fmt.Sprintf("/api/progress/%d", p.ID), map[string]any{"weight": 69}, otherTrainer)
	requireStatus(t, http.StatusNotFound, w)

	w = h.do(http.MethodPatch, fmt.Sprintf("/api/progress/%d", p.ID), map[string]any{"weight": 69}, trainer)
	requireStatus(t, http.StatusOK, w)
	assert.InDelta(t, 69, decode[models.Progress](t, w).Weight, 0.001)
}

// ======================================================
// SCHEDULES
// ======================================================

func TestSchedules_MemberBooksAndTrainerApproves(t *testing.T) {
	h := newHarness(t)
	member := h.user("anna", models.RoleMember)
	other := h.user("bob", models.RoleMember)
	trainer := h.user("coach", models.RoleTrainer)

	start, end := sessionAt(9)
	w := h.do(http.MethodPost, "/api/schedules", map[string]any{
		"user_id":    other.ID,
		"pt_id":      trainer.ID,
		"start_time": start,
		"end_time":   end,
	}, member)
	requireStatus(t, http.StatusCreated, w)
	s := decode[models.Schedule](t, w)
	assert.Equal(t, member.ID, s.UserID)
	assert.Equal(t, "pending", s.Status)

	w = h.do(http.MethodPatch, fmt.Sprintf("/api/schedules/%d/approve", s.ID), nil, member)
	requireStatus(t, http.StatusForbidden, w)

	w = h.do(http.MethodPatch, fmt.Sprintf("/api/schedules/%d/approve", s.ID), nil, trainer)
	requireStatus(t, http.StatusOK, w)
	assert.Equal(t, "approved", decode[models.Schedule](t, w).Status)

	// a member edit sends the session back for approval
	newStart, newEnd := sessionAt(10)
	w = h.do(http.MethodPatch, fmt.Sprintf("/api/schedules/%d", s.ID), map[string]any{
		"start_time": newStart,
		"end_time":   newEnd,
	}, member)
	requireStatus(t, http.StatusOK, w)
	assert.Equal(t, "pending", decode[models.Schedule](t, w).Status)

	w = h.do(http.MethodGet, fmt.Sprintf("/api/schedules/%d", s.ID), nil, other)
	requireStatus(t, http.StatusNotFound, w)

	w = h.do(http.MethodGet, "/api/schedules", nil, trainer)
	requireStatus(t, http.StatusOK, w)
	assert.Len(t, decode[listBody[models.Schedule]](t, w).Data, 1)

	w = h.do(http.MethodGet, "/api/schedules", nil, other)
	requireStatus(t, http.StatusOK, w)
	assert.Empty(t, decode[listBody[models.Schedule]](t, w).Data)
}

func TestSchedules_TrainerConflictAndDelete(t *testing.T) {
	h := newHarness(t)
	member := h.user("anna", models.RoleMember)
	trainer := h.user("coach", models.RoleTrainer)
	otherTrainer := h.user("coach2", models.RoleTrainer)

	start, end := sessionAt(9)
	w := h.do(http.MethodPost, "/api/schedules", map[string]any{"user_id": otherTrainer.ID, "start_time": start, "end_time": end}, trainer)
	requireStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "member_required", errorCode(t, w))

	w = h.do(http.MethodPost, "/api/schedules", map[string]any{"user_id": member.ID, "start_time": start, "end_time": end}, trainer)
	requireStatus(t, http.StatusCreated, w)
	s := decode[models.Schedule](t, w)
	require.NotNil(t, s.PTID)
	assert.Equal(t, trainer.ID, *s.PTID)

	w = h.do(http.MethodPost, "/api/schedules", map[string]any{"pt_id": trainer.ID, "start_time": start, "end_time": end}, member)
	requireStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "time_conflict", errorCode(t, w))

	w = h.do(http.MethodDelete, fmt.Sprintf("/api/schedules/%d", s.ID), nil, trainer)
	requireStatus(t, http.StatusForbidden, w)
	assert.Equal(t, "pt_cannot_delete", errorCode(t, w))

	w = h.do(http.MethodDelete, fmt.Sprintf("/api/schedules/%d", s.ID), nil, member)
	requireStatus(t, http.StatusNoContent, w)
}

func TestSchedules_RejectsBackwardsWindow(t *testing.T) {
	h := newHarness(t)
	member := h.user("anna", models.RoleMember)

	start, end := sessionAt(9)
	w := h.do(http.MethodPost, "/api/schedules", map[string]any{"start_time": end, "end_time": start}, member)
	requireStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "invalid_time", errorCode(t, w))

	w = h.do(http.MethodPost, "/api/schedules", map[string]any{"start_time": "soon", "end_time": end}, member)
	requireStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "invalid_start_time", errorCode(t, w))
}

// ======================================================
// NOTIFICATIONS
// ======================================================

func TestNotifications_AdminCreatesOwnerReads(t *testing.T) {
	h := newHarness(t)
	member := h.user("anna", models.RoleMember)
	root := h.admin("root")

	body := map[string]any{"user_id": member.ID, "title": "Closed", "message": "The gym is closed on Monday."}

	w := h.do(http.MethodPost, "/api/notifications", body, member)
	requireStatus(t, http.StatusForbidden, w)

	for i := 0; i < 2; i++ {
		w = h.do(http.MethodPost, "/api/notifications", body, root)
		requireStatus(t, http.StatusCreated, w)
	}

	w = h.do(http.MethodGet, "/api/notifications", nil, member)
	requireStatus(t, http.StatusOK, w)
	list := decode[listBody[models.Notification]](t, w)
	require.Len(t, list.Data, 2)

	w = h.do(http.MethodPatch, fmt.Sprintf("/api/notifications/%d/read", list.Data[0].ID), nil, member)
	requireStatus(t, http.StatusOK, w)
	assert.True(t, decode[models.Notification](t, w).IsRead)

	w = h.do(http.MethodPost, "/api/notifications/read-all", nil, member)
	requireStatus(t, http.StatusOK, w)
	assert.Equal(t, 1, decode[struct {
		Updated int `json:"updated"`
	}](t, w).Updated)
}

// ======================================================
// PAYMENTS
// ======================================================

func TestPayments_MemberPaysPackagePrice(t *testing.T) {
	h := newHarness(t)
	member := h.user("anna", models.RoleMember)
	other := h.user("bob", models.RoleMember)
	pkg := testutil.CreatePackage(t, h.db, "Gold", 500000, 30)

	w := h.do(http.MethodPost, "/api/member-packages", map[string]any{"package_id": pkg.ID}, member)
	requireStatus(t, http.StatusCreated, w)
	mp := decode[models.MemberPackage](t, w)

	w = h.do(http.MethodPost, "/api/payments", map[string]any{
		"member_package_id": mp.ID,
		"amount":            1,
		"status":            "completed",
		"method":            "card",
	}, member)
	requireStatus(t, http.StatusCreated, w)
	p := decode[models.Payment](t, w)
	assert.InDelta(t, 500000, p.Amount, 0.001)
	assert.Equal(t, models.PaymentPending, p.Status)

	w = h.do(http.MethodGet, "/api/payments", nil, other)
	requireStatus(t, http.StatusOK, w)
	assert.Empty(t, decode[listBody[models.Payment]](t, w).Data)

	w = h.do(http.MethodPost, "/api/payments", map[string]any{"member_package_id": mp.ID}, other)
	requireStatus(t, http.StatusNotFound, w)

	// no gateway configured
	w = h.do(http.MethodPost, fmt.Sprintf("/api/payments/%d/checkout", p.ID), nil, member)
	requireStatus(t, http.StatusServiceUnavailable, w)
}

// ======================================================
// CHATS
// ======================================================

func TestChats_MessagesUpdateChatAndStayPrivate(t *testing.T) {
	h := newHarness(t)
	member := h.user("anna", models.RoleMember)
	trainer := h.user("coach", models.RoleTrainer)
	outsider := h.user("bob", models.RoleMember)

	w := h.do(http.MethodPost, "/api/chats", map[string]any{"participant_ids": []uint{trainer.ID, outsider.ID}}, member)
	requireStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "invalid_participants", errorCode(t, w))

	w = h.do(http.MethodPost, "/api/chats", map[string]any{"participant_ids": []uint{trainer.ID}}, member)
	requireStatus(t, http.StatusCreated, w)
	chat := decode[models.Chat](t, w)
	assert.Len(t, chat.Participants, 2)

	for _, text := range []string{"hello", "see you at nine"} {
		w = h.do(http.MethodPost, "/api/messages", map[string]any{"chat_id": chat.ID, "content": text}, member)
		requireStatus(t, http.StatusCreated, w)
	}

	w = h.do(http.MethodGet, fmt.Sprintf("/api/chats/%d", chat.ID), nil, trainer)
	requireStatus(t, http.StatusOK, w)
	assert.Equal(t, "see you at nine", decode[models.Chat](t, w).LastMessage)

	w = h.do(http.MethodGet, fmt.Sprintf("/api/chats/%d/messages", chat.ID), nil, trainer)
	requireStatus(t, http.StatusOK, w)
	msgs := decode[listBody[models.Message]](t, w).Data
	require.Len(t, msgs, 2)
	assert.Equal(t, "see you at nine", msgs[0].Content)

	w = h.do(http.MethodGet, fmt.Sprintf("/api/chats/%d/messages", chat.ID), nil, outsider)
	requireStatus(t, http.StatusNotFound, w)

	w = h.do(http.MethodPost, "/api/messages", map[string]any{"chat_id": chat.ID, "content": "hi"}, outsider)
	requireStatus(t, http.StatusForbidden, w)
	assert.Equal(t, "not_chat_participant", errorCode(t, w))

	w = h.do(http.MethodPatch, fmt.Sprintf("/api/messages/%d", msgs[0].ID), map[string]any{"content": "edited"}, trainer)
	requireStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "not_message_sender", errorCode(t, w))

	w = h.do(http.MethodGet, fmt.Sprintf("/api/chats/%d/ws", chat.ID), nil, member)
	requireStatus(t, http.StatusServiceUnavailable, w)
}

// ======================================================
// ADMIN
// ======================================================

func TestAdmin_ResourcesAreScoped(t *testing.T) {
	h := newHarness(t)
	member := h.user("anna", models.RoleMember)
	trainer := h.user("coach", models.RoleTrainer)
	otherTrainer := h.user("coach2", models.RoleTrainer)
	root := h.admin("root")

	for _, pt := range []*models.User{trainer, otherTrainer} {
		start, end := sessionAt(int(8 + pt.ID))
		w := h.do(http.MethodPost, "/api/schedules", map[string]any{"user_id": member.ID, "start_time": start, "end_time": end}, pt)
		requireStatus(t, http.StatusCreated, w)
	}

	w := h.do(http.MethodGet, "/api/admin/resources", nil, trainer)
	requireStatus(t, http.StatusForbidden, w)

	w = h.do(http.MethodGet, "/api/admin/resources", nil, root)
	requireStatus(t, http.StatusOK, w)

	w = h.do(http.MethodGet, "/api/admin/resources/schedules", nil, trainer)
	requireStatus(t, http.StatusOK, w)
	assert.Equal(t, 1, decode[listBody[models.Schedule]](t, w).Total)

	w = h.do(http.MethodGet, "/api/admin/resources/schedules", nil, root)
	requireStatus(t, http.StatusOK, w)
	assert.Equal(t, 2, decode[listBody[models.Schedule]](t, w).Total)

	w = h.do(http.MethodGet, "/api/admin/resources/payments", nil, trainer)
	requireStatus(t, http.StatusForbidden, w)

	w = h.do(http.MethodGet, "/api/admin/resources/schedules", nil, member)
	requireStatus(t, http.StatusForbidden, w)
	assert.Equal(t, "staff_only", errorCode(t, w))

	w = h.do(http.MethodGet, "/api/admin/resources/nope", nil, member)
	requireStatus(t, http.StatusForbidden, w)
	assert.Equal(t, "staff_only", errorCode(t, w))

	w = h.do(http.MethodGet, "/api/admin/resources/users?q=coach&limit=1", nil, root)
	requireStatus(t, http.StatusOK, w)
	users := decode[listBody[models.User]](t, w)
	assert.Equal(t, 2, users.Total)
	assert.Len(t, users.Data, 1)

	w = h.do(http.MethodGet, "/api/admin/resources/nope", nil, root)
	requireStatus(t, http.StatusNotFound, w)
	assert.Equal(t, "unknown_resource", errorCode(t, w))
}

type gymStatsBody struct {
	TotalMembers int      `json:"total_members"`
	TotalRevenue float64  `json:"total_revenue"`
	HourlyLabels []string `json:"hourly_labels"`
	HourlyData   []int    `json:"hourly_data"`
}

func TestAdmin_GymStats(t *testing.T) {
	h := newHarness(t)
	member := h.user("anna", models.RoleMember)
	trainer := h.user("coach", models.RoleTrainer)
	root := h.admin("root")

	pkg := testutil.CreatePackage(t, h.db, "Monthly", 500, 30)
	today := timezone.StartOfDay(timezone.Now())
	require.NoError(t, h.db.Create(&models.MemberPackage{
		UserID: member.ID, PackageID: pkg.ID, StartDate: today, EndDate: today.AddDate(0, 0, 30),
		Status: models.MemberPackageActive,
	}).Error)

	visit := time.Date(today.Year(), today.Month(), today.Day(), 10, 0, 0, 0, today.Location())
	for _, status := range []string{"approved", "pending"} {
		require.NoError(t, h.db.Create(&models.Schedule{
			UserID: member.ID, PTID: &trainer.ID, StartTime: visit, EndTime: visit.Add(time.Hour), Status: status,
		}).Error)
	}

	w := h.do(http.MethodGet, "/api/admin/gym-stats?refresh=true", nil, root)
	requireStatus(t, http.StatusOK, w)

	body := decode[gymStatsBody](t, w)
	require.Len(t, body.HourlyData, len(body.HourlyLabels))
	assert.Equal(t, 2, body.TotalMembers)
	assert.InDelta(t, 500.0, body.TotalRevenue, 1e-9)

	idx := -1
	for i, label := range body.HourlyLabels {
		if label == "10:00-11:00" {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	for i, n := range body.HourlyData {
		if i == idx {
			assert.Equal(t, 1, n, body.HourlyLabels[i])
		} else {
			assert.Zero(t, n, body.HourlyLabels[i])
		}
	}
}

func TestAdmin_GymStatsFollowRegistration(t *testing.T) {
	h := newHarness(t)
	h.user("anna", models.RoleMember)
	root := h.admin("root")

	w := h.do(http.MethodGet, "/api/admin/gym-stats", nil, root)
	requireStatus(t, http.StatusOK, w)
	before := decode[gymStatsBody](t, w).TotalMembers

	w = h.do(http.MethodPost, "/api/users", map[string]any{
		"username": "newbie",
		"email":    "newbie@gym.local",
		"password": "secret123",
	}, nil)
	requireStatus(t, http.StatusCreated, w)

	w = h.do(http.MethodGet, "/api/admin/gym-stats", nil, root)
	requireStatus(t, http.StatusOK, w)
	assert.Equal(t, before+1, decode[gymStatsBody](t, w).TotalMembers)
}

func TestAdmin_AuditLogsFilterAndPage(t *testing.T) {
	h := newHarness(t)
	member := h.user("anna", models.RoleMember)
	root := h.admin("root")

	for _, action := range []string{"schedule_created", "schedule_created", "payment_created"} {
		require.NoError(t, h.db.Create(&models.AuditLog{UserID: &member.ID, Action: action, Entity: "schedule"}).Error)
	}

	w := h.do(http.MethodGet, "/api/admin/audit-logs", nil, member)
	requireStatus(t, http.StatusForbidden, w)

	w = h.do(http.MethodGet, "/api/admin/audit-logs?action=schedule_created&limit=1", nil, root)
	requireStatus(t, http.StatusOK, w)

	body := decode[struct {
		Total int               `json:"total"`
		Limit int               `json:"limit"`
		Logs  []models.AuditLog `json:"logs"`
	}](t, w)
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, 1, body.Limit)
	assert.Len(t, body.Logs, 1)
}
