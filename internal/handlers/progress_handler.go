package handlers

import (
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
	ErrProgressMemberRequired = httperr.ErrRule("member_required", "Progress records belong to a member.")
	ErrProgressDeleteDenied   = httperr.ErrRule("not_progress_creator", "You can only delete progress records you created.")
)

type ProgressHandler struct {
	db       *gorm.DB
	audit    *audit.Dispatcher
	notifier Notifier
}

func NewProgressHandler(db *gorm.DB, audit *audit.Dispatcher, notifier Notifier) *ProgressHandler {
	return &ProgressHandler{db: db, audit: audit, notifier: orNoopNotifier(notifier)}
}

// --------- Requests ---------

type CreateProgressRequest struct {
	UserID     uint    `json:"user_id" binding:"required"`
	Weight     float64 `json:"weight" binding:"gte=0"`
	BodyFat    float64 `json:"body_fat" binding:"gte=0,lte=100"`
	MuscleMass float64 `json:"muscle_mass" binding:"gte=0"`
	Note       string  `json:"note"`
	RecordedAt string  `json:"recorded_at"`
}

type UpdateProgressRequest struct {
	Weight     *float64 `json:"weight" binding:"omitempty,gte=0"`
	BodyFat    *float64 `json:"body_fat" binding:"omitempty,gte=0,lte=100"`
	MuscleMass *float64 `json:"muscle_mass" binding:"omitempty,gte=0"`
	Note       *string  `json:"note"`
	RecordedAt *string  `json:"recorded_at"`
}

func (h *ProgressHandler) scoped(c *gin.Context) *gorm.DB {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Progress{})
	return access.Scope(q, middleware.Actor(c), "user_id", "pt_id")
}

// --------- Handlers ---------

func (h *ProgressHandler) List(c *gin.Context) {
	q := h.scoped(c)
	if userID := c.Query("user_id"); userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	var records []models.Progress
	if err := q.
		Preload("User").
		Preload("PT").
		Order("recorded_at DESC").
		Find(&records).Error; err != nil {
		httperr.Respond(c, err, "failed_to_list_progress")
		return
	}
	httpresp.List(c, records)
}

func (h *ProgressHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var p models.Progress
	if err := h.scoped(c).Preload("User").Preload("PT").First(&p, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_progress")
		return
	}
	httpresp.OK(c, p)
}

func (h *ProgressHandler) Create(c *gin.Context) {
	actor := middleware.Actor(c)
	ctx := c.Request.Context()

	if err := access.CanCreateProgress(actor); err != nil {
		httperr.Respond(c, err, "")
		return
	}

	var req CreateProgressRequest
	if !bindJSON(c, &req) {
		return
	}

	recordedAt := timezone.Now()
	if t, err := parseOptionalTimestamp(req.RecordedAt); err != nil {
		invalidTime(c, "recorded_at")
		return
	} else if t != nil {
		recordedAt = *t
	}

	if err := requireRole(h.db.WithContext(ctx), req.UserID, models.RoleMember, ErrProgressMemberRequired); err != nil {
		httperr.Respond(c, err, "failed_to_create_progress")
		return
	}

	p := models.Progress{
		UserID:     req.UserID,
		PTID:       actor.UserID,
		Weight:     req.Weight,
		BodyFat:    req.BodyFat,
		MuscleMass: req.MuscleMass,
		Note:       req.Note,
		RecordedAt: recordedAt,
	}

	if err := h.db.WithContext(ctx).Omit("User", "PT").Create(&p).Error; err != nil {
		httperr.Respond(c, err, "failed_to_create_progress")
		return
	}

	writeAudit(h.audit, actor, "progress_created", "progress", p.ID, gin.H{"user_id": p.UserID})
	h.notifier.NotifyQuietly(ctx, p.UserID, models.NotificationSystem,
		"Progress recorded",
		"Your trainer added a new progress record.",
	)

	httpresp.Created(c, p)
}

func (h *ProgressHandler) Update(c *gin.Context) {
	actor := middleware.Actor(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateProgressRequest
	if !bindJSON(c, &req) {
		return
	}

	var p models.Progress
	if err := h.scoped(c).First(&p, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_progress")
		return
	}

	if err := access.CanUpdateProgress(actor, p.PTID); err != nil {
		httperr.Respond(c, err, "")
		return
	}

	if req.Weight != nil {
		p.Weight = *req.Weight
	}
	if req.BodyFat != nil {
		p.BodyFat = *req.BodyFat
	}
	if req.MuscleMass != nil {
		p.MuscleMass = *req.MuscleMass
	}
	if req.Note != nil {
		p.Note = *req.Note
	}
	if req.RecordedAt != nil {
		t, err := parseTimestamp(*req.RecordedAt)
		if err != nil {
			invalidTime(c, "recorded_at")
			return
		}
		p.RecordedAt = t
	}

	if err := h.db.WithContext(c.Request.Context()).Omit("User", "PT").Save(&p).Error; err != nil {
		httperr.Respond(c, err, "failed_to_update_progress")
		return
	}

	writeAudit(h.audit, actor, "progress_updated", "progress", p.ID, req)

	httpresp.OK(c, p)
}

func (h *ProgressHandler) Delete(c *gin.Context) {
	actor := middleware.Actor(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	var p models.Progress
	if err := h.scoped(c).First(&p, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_progress")
		return
	}

	if !actor.IsAdmin && actor.UserID != p.PTID {
		httperr.Respond(c, ErrProgressDeleteDenied, "")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&p).Error; err != nil {
		httperr.Respond(c, err, "failed_to_delete_progress")
		return
	}

	writeAudit(h.audit, actor, "progress_deleted", "progress", p.ID, nil)

	c.Status(http.StatusNoContent)
}
