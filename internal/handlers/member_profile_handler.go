package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gym-manager/internal/audit"
	"github.com/BruksfildServices01/gym-manager/internal/domain/access"
	"github.com/BruksfildServices01/gym-manager/internal/httperr"
	"github.com/BruksfildServices01/gym-manager/internal/httpresp"
	"github.com/BruksfildServices01/gym-manager/internal/middleware"
	"github.com/BruksfildServices01/gym-manager/internal/models"
)

var ErrProfileMemberOnly = httperr.ErrRule("member_required", "Profiles can only be attached to members.")

type MemberProfileHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewMemberProfileHandler(db *gorm.DB, audit *audit.Dispatcher) *MemberProfileHandler {
	return &MemberProfileHandler{db: db, audit: audit}
}

// MemberProfileRequest has no bmi field; it is always derived.
type MemberProfileRequest struct {
	UserID *uint    `json:"user_id"`
	Height *float64 `json:"height" binding:"omitempty,gte=0,lte=300"`
	Weight *float64 `json:"weight" binding:"omitempty,gte=0,lte=500"`
	Goal   *string  `json:"goal" binding:"omitempty,max=255"`
}

func (h *MemberProfileHandler) scoped(c *gin.Context) *gorm.DB {
	q := h.db.WithContext(c.Request.Context()).Model(&models.MemberProfile{})
	return access.ScopeOwner(q, middleware.Actor(c), "user_id")
}

func (h *MemberProfileHandler) List(c *gin.Context) {
	var profiles []models.MemberProfile
	if err := h.scoped(c).Preload("User").Order("id").Find(&profiles).Error; err != nil {
		httperr.Respond(c, err, "failed_to_list_profiles")
		return
	}
	httpresp.List(c, profiles)
}

func (h *MemberProfileHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var p models.MemberProfile
	if err := h.scoped(c).Preload("User").First(&p, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_profile")
		return
	}
	httpresp.OK(c, p)
}

// Me returns the caller's own profile, 404 when none exists yet.
func (h *MemberProfileHandler) Me(c *gin.Context) {
	actor := middleware.Actor(c)

	var p models.MemberProfile
	err := h.db.WithContext(c.Request.Context()).
		Preload("User").
		Where("user_id = ?", actor.UserID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "profile_not_found", "You do not have a member profile yet.")
		return
	}
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_profile")
		return
	}
	httpresp.OK(c, p)
}

func (h *MemberProfileHandler) Create(c *gin.Context) {
	actor := middleware.Actor(c)
	ctx := c.Request.Context()

	var req MemberProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	userID := actor.UserID
	if actor.IsAdmin && req.UserID != nil {
		userID = *req.UserID
	}

	var owner models.User
	if err := h.db.WithContext(ctx).First(&owner, userID).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_user")
		return
	}
	if owner.Role != models.RoleMember {
		httperr.Respond(c, ErrProfileMemberOnly, "")
		return
	}

	p := models.MemberProfile{UserID: userID}
	applyProfile(&p, req)

	if err := h.db.WithContext(ctx).Omit("User").Create(&p).Error; err != nil {
		httperr.Respond(c, err, "failed_to_create_profile")
		return
	}

	writeAudit(h.audit, actor, "member_profile_created", "member_profile", p.ID, nil)

	p.User = owner
	httpresp.Created(c, p)
}

func (h *MemberProfileHandler) Update(c *gin.Context) {
	actor := middleware.Actor(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req MemberProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	var p models.MemberProfile
	if err := h.scoped(c).First(&p, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_profile")
		return
	}

	applyProfile(&p, req)

	if err := h.db.WithContext(c.Request.Context()).Omit("User").Save(&p).Error; err != nil {
		httperr.Respond(c, err, "failed_to_update_profile")
		return
	}

	writeAudit(h.audit, actor, "member_profile_updated", "member_profile", p.ID, nil)

	httpresp.OK(c, p)
}

func (h *MemberProfileHandler) Delete(c *gin.Context) {
	actor := middleware.Actor(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	var p models.MemberProfile
	if err := h.scoped(c).First(&p, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_profile")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&p).Error; err != nil {
		httperr.Respond(c, err, "failed_to_delete_profile")
		return
	}

	writeAudit(h.audit, actor, "member_profile_deleted", "member_profile", p.ID, nil)

	c.Status(http.StatusNoContent)
}

func applyProfile(p *models.MemberProfile, req MemberProfileRequest) {
	if req.Height != nil {
		p.Height = *req.Height
	}
	if req.Weight != nil {
		p.Weight = *req.Weight
	}
	if req.Goal != nil {
		p.Goal = *req.Goal
	}
}
