package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gym-manager/internal/audit"
	"github.com/BruksfildServices01/gym-manager/internal/config"
	"github.com/BruksfildServices01/gym-manager/internal/domain/access"
	"github.com/BruksfildServices01/gym-manager/internal/dto"
	"github.com/BruksfildServices01/gym-manager/internal/httperr"
	"github.com/BruksfildServices01/gym-manager/internal/httpresp"
	"github.com/BruksfildServices01/gym-manager/internal/middleware"
	"github.com/BruksfildServices01/gym-manager/internal/models"
	"github.com/BruksfildServices01/gym-manager/internal/timezone"
	"github.com/BruksfildServices01/gym-manager/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type UserHandler struct {
	db      *gorm.DB
	config  *config.Config
	avatars *AvatarUploader
	audit   *audit.Dispatcher
	stats   StatsInvalidator
}

func NewUserHandler(
	db *gorm.DB,
	cfg *config.Config,
	avatars *AvatarUploader,
	audit *audit.Dispatcher,
	stats StatsInvalidator,
) *UserHandler {
	return &UserHandler{
		db:      db,
		config:  cfg,
		avatars: avatars,
		audit:   audit,
		stats:   orNoopInvalidator(stats),
	}
}

// ======================================================
// REQUESTS
// ======================================================

// RegisterRequest binds from JSON or multipart form data.
type RegisterRequest struct {
	Username       string `json:"username" form:"username" binding:"required,max=150"`
	Email          string `json:"email" form:"email" binding:"required,email"`
	Password       string `json:"password" form:"password" binding:"required,min=6"`
	FirstName      string `json:"first_name" form:"first_name" binding:"max=150"`
	LastName       string `json:"last_name" form:"last_name" binding:"max=150"`
	Phone          string `json:"phone" form:"phone"`
	Role           string `json:"role" form:"role" binding:"omitempty,oneof=member pt"`
	Specialization string `json:"specialization" form:"specialization" binding:"max=100"`
}

// UpdateCurrentUserRequest lists the only fields a user may change on themselves.
type UpdateCurrentUserRequest struct {
	FirstName *string `json:"first_name" form:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" form:"last_name" binding:"omitempty,max=150"`
	Password  *string `json:"password" form:"password" binding:"omitempty,min=6"`
	Phone     *string `json:"phone" form:"phone"`
}

// ======================================================
// REGISTER
// ======================================================

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	username := strings.TrimSpace(req.Username)
	if !validators.IsUsernameValid(username) {
		httperr.BadRequest(c, "invalid_username", "Username may contain only letters, digits and @/./+/-/_.")
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if h.config.CheckEmailDomain && !validators.IsEmailDomainValid(c.Request.Context(), email) {
		httperr.BadRequest(c, "invalid_email_domain", "The e-mail domain does not look valid.")
		return
	}

	if !validators.IsPhoneValid(req.Phone) {
		httperr.BadRequest(c, "invalid_phone", "Invalid phone number.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not store the password.")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleMember
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
		IsActive:     true,
		DateJoined:   timezone.Now(),
	}
	if role == models.RoleTrainer {
		user.Specialization = strings.TrimSpace(req.Specialization)
	}

	if fh, err := c.FormFile("avatar"); err == nil {
		url, err := h.avatars.Upload(c.Request.Context(), fh)
		if err != nil {
			httperr.Respond(c, err, "avatar_upload_failed")
			return
		}
		user.Avatar = url
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		httperr.Respond(c, err, "failed_to_create_user")
		return
	}

	writeAudit(h.audit, access.Actor{UserID: user.ID, Role: user.Role}, "user_registered", "user", user.ID, gin.H{"role": user.Role})
	h.stats.Invalidate(c.Request.Context())

	httpresp.Created(c, user)
}

// ======================================================
// CURRENT USER
// ======================================================

func (h *UserHandler) CurrentUser(c *gin.Context) {
	actor := middleware.Actor(c)

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, actor.UserID).Error; err != nil {
		httperr.Respond(c, err, "user_lookup_failed")
		return
	}

	httpresp.OK(c, user)
}

func (h *UserHandler) UpdateCurrentUser(c *gin.Context) {
	actor := middleware.Actor(c)
	ctx := c.Request.Context()

	var req UpdateCurrentUserRequest
	if err := c.ShouldBind(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var user models.User
	if err := h.db.WithContext(ctx).First(&user, actor.UserID).Error; err != nil {
		httperr.Respond(c, err, "user_lookup_failed")
		return
	}

	changed := []string{}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
		changed = append(changed, "first_name")
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
		changed = append(changed, "last_name")
	}
	if req.Phone != nil {
		if !validators.IsPhoneValid(*req.Phone) {
			httperr.BadRequest(c, "invalid_phone", "Invalid phone number.")
			return
		}
		user.Phone = strings.TrimSpace(*req.Phone)
		changed = append(changed, "phone")
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			httperr.Internal(c, "failed_to_hash_password", "Could not store the password.")
			return
		}
		user.PasswordHash = string(hashed)
		changed = append(changed, "password")
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if fh, err := c.FormFile("avatar"); err == nil {
			url, err := h.avatars.Upload(ctx, fh)
			if err != nil {
				httperr.Respond(c, err, "avatar_upload_failed")
				return
			}
			user.Avatar = url
			changed = append(changed, "avatar")
		}
	}

	if err := h.db.WithContext(ctx).Save(&user).Error; err != nil {
		httperr.Respond(c, err, "failed_to_update_user")
		return
	}

	writeAudit(h.audit, actor, "user_updated", "user", user.ID, gin.H{"fields": changed})

	httpresp.OK(c, user)
}

// ======================================================
// PERSONAL TRAINERS
// ======================================================

func (h *UserHandler) PersonalTrainers(c *gin.Context) {
	var trainers []models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("role = ? AND is_active = ?", models.RoleTrainer, true).
		Order("first_name, last_name, id").
		Find(&trainers).Error; err != nil {
		httperr.Respond(c, err, "failed_to_list_trainers")
		return
	}

	out := make([]dto.TrainerDTO, 0, len(trainers))
	for _, t := range trainers {
		out = append(out, dto.TrainerDTO{
			ID:             t.ID,
			FirstName:      t.FirstName,
			LastName:       t.LastName,
			Email:          t.Email,
			Phone:          t.Phone,
			Specialization: t.Specialization,
			Role:           t.Role,
		})
	}

	httpresp.List(c, out)
}
