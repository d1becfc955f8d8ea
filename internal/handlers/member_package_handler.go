package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gym-manager/internal/audit"
	"github.com/BruksfildServices01/gym-manager/internal/domain/access"
	"github.com/BruksfildServices01/gym-manager/internal/httperr"
	"github.com/BruksfildServices01/gym-manager/internal/httpresp"
	"github.com/BruksfildServices01/gym-manager/internal/middleware"
	"github.com/BruksfildServices01/gym-manager/internal/models"
	"github.com/BruksfildServices01/gym-manager/internal/timezone"
)

var (
	ErrPackageInactive = httperr.ErrRule("package_inactive", "This package is no longer offered.")
	ErrInvalidPeriod   = httperr.ErrRule("invalid_period", "end_date must be after start_date.")
)

type MemberPackageHandler struct {
	db       *gorm.DB
	audit    *audit.Dispatcher
	notifier Notifier
	stats    StatsInvalidator
}

func NewMemberPackageHandler(
	db *gorm.DB,
	audit *audit.Dispatcher,
	notifier Notifier,
	stats StatsInvalidator,
) *MemberPackageHandler {
	return &MemberPackageHandler{
		db:       db,
		audit:    audit,
		notifier: orNoopNotifier(notifier),
		stats:    orNoopInvalidator(stats),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateMemberPackageRequest struct {
	UserID    *uint  `json:"user_id"`
	PackageID uint   `json:"package_id" binding:"required"`
	StartDate string `json:"start_date"`
}

type UpdateMemberPackageRequest struct {
	StartDate           *string `json:"start_date"`
	EndDate             *string `json:"end_date"`
	Status              *string `json:"status" binding:"omitempty,oneof=active expired cancelled"`
	RemainingPTSessions *int    `json:"remaining_pt_sessions" binding:"omitempty,gte=0"`
}

func (h *MemberPackageHandler) scoped(c *gin.Context) *gorm.DB {
	q := h.db.WithContext(c.Request.Context()).Model(&models.MemberPackage{})
	return access.ScopeOwner(q, middleware.Actor(c), "user_id")
}

// ======================================================
// READ
// ======================================================

func (h *MemberPackageHandler) List(c *gin.Context) {
	q := h.scoped(c)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var items []models.MemberPackage
	if err := q.Preload("Package").Order("start_date DESC, id DESC").Find(&items).Error; err != nil {
		httperr.Respond(c, err, "failed_to_list_member_packages")
		return
	}
	httpresp.List(c, items)
}

func (h *MemberPackageHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var mp models.MemberPackage
	if err := h.scoped(c).Preload("Package").Preload("User").First(&mp, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_member_package")
		return
	}
	httpresp.OK(c, mp)
}

// ======================================================
// CREATE
// ======================================================

func (h *MemberPackageHandler) Create(c *gin.Context) {
	actor := middleware.Actor(c)
	ctx := c.Request.Context()

	var req CreateMemberPackageRequest
	if !bindJSON(c, &req) {
		return
	}

	userID := actor.UserID
	if actor.IsAdmin && req.UserID != nil {
		userID = *req.UserID
	}

	start := timezone.StartOfDay(timezone.Now())
	if req.StartDate != "" {
		t, err := parseTimestamp(req.StartDate)
		if err != nil {
			invalidTime(c, "start_date")
			return
		}
		start = t
	}

	db := h.db.WithContext(ctx)

	var pkg models.Package
	if err := db.First(&pkg, req.PackageID).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_package")
		return
	}
	if !pkg.IsActive {
		httperr.Respond(c, ErrPackageInactive, "")
		return
	}

	var owner models.User
	if err := db.First(&owner, userID).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_user")
		return
	}

	mp := models.MemberPackage{
		UserID:              userID,
		PackageID:           pkg.ID,
		StartDate:           start,
		EndDate:             start.AddDate(0, 0, pkg.DurationDays),
		Status:              models.MemberPackageActive,
		RemainingPTSessions: pkg.PTSessions,
	}

	if err := db.Omit("User", "Package").Create(&mp).Error; err != nil {
		httperr.Respond(c, err, "failed_to_create_member_package")
		return
	}
	mp.Package = pkg
	mp.User = owner

	writeAudit(h.audit, actor, "member_package_created", "member_package", mp.ID, gin.H{
		"user_id":    userID,
		"package_id": pkg.ID,
		"price":      pkg.Price,
	})
	h.notifier.NotifyQuietly(ctx, userID, models.NotificationPayment,
		"Package activated",
		fmt.Sprintf("Your %s package is active until %s.", pkg.Name, mp.EndDate.In(timezone.Gym()).Format("2006-01-02")),
	)
	h.stats.Invalidate(ctx)

	httpresp.Created(c, mp)
}

// ======================================================
// UPDATE / DELETE (ADMIN)
// ======================================================

func (h *MemberPackageHandler) Update(c *gin.Context) {
	actor := middleware.Actor(c)
	if err := access.RequireAdmin(actor); err != nil {
		httperr.Respond(c, err, "")
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateMemberPackageRequest
	if !bindJSON(c, &req) {
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var mp models.MemberPackage
	if err := db.First(&mp, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_member_package")
		return
	}

	if req.StartDate != nil {
		t, err := parseTimestamp(*req.StartDate)
		if err != nil {
			invalidTime(c, "start_date")
			return
		}
		mp.StartDate = t
	}
	if req.EndDate != nil {
		t, err := parseTimestamp(*req.EndDate)
		if err != nil {
			invalidTime(c, "end_date")
			return
		}
		mp.EndDate = t
	}
	if !mp.EndDate.After(mp.StartDate) {
		httperr.Respond(c, ErrInvalidPeriod, "")
		return
	}
	if req.Status != nil {
		mp.Status = *req.Status
	}
	if req.RemainingPTSessions != nil {
		mp.RemainingPTSessions = *req.RemainingPTSessions
	}

	if err := db.Omit("User", "Package").Save(&mp).Error; err != nil {
		httperr.Respond(c, err, "failed_to_update_member_package")
		return
	}

	writeAudit(h.audit, actor, "member_package_updated", "member_package", mp.ID, req)
	h.stats.Invalidate(c.Request.Context())

	httpresp.OK(c, mp)
}

func (h *MemberPackageHandler) Delete(c *gin.Context) {
	actor := middleware.Actor(c)
	if err := access.RequireAdmin(actor); err != nil {
		httperr.Respond(c, err, "")
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.MemberPackage{}, id)
	if res.Error != nil {
		httperr.Respond(c, res.Error, "failed_to_delete_member_package")
		return
	}
	if res.RowsAffected == 0 {
		httperr.Respond(c, gorm.ErrRecordNotFound, "")
		return
	}

	writeAudit(h.audit, actor, "member_package_deleted", "member_package", id, nil)
	h.stats.Invalidate(c.Request.Context())

	c.Status(http.StatusNoContent)
}
