package handlers

import (
	"errors"
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
)

var (
	ErrReviewTrainerRequired = httperr.ErrRule("pt_required", "A PT rating needs the reviewed PT.")
	ErrInvalidTrainer        = httperr.ErrRule("invalid_pt", "The selected user is not a personal trainer.")
	ErrReviewDeleteDenied    = httperr.ErrRule("not_review_author", "You can only delete your own reviews.")
)

type ReviewHandler struct {
	db       *gorm.DB
	audit    *audit.Dispatcher
	notifier Notifier
}

func NewReviewHandler(db *gorm.DB, audit *audit.Dispatcher, notifier Notifier) *ReviewHandler {
	return &ReviewHandler{db: db, audit: audit, notifier: orNoopNotifier(notifier)}
}

// --------- Requests ---------

type CreateReviewRequest struct {
	PTID      *uint  `json:"pt_id"`
	GymRating int    `json:"gym_rating" binding:"required,min=1,max=5"`
	PTRating  int    `json:"pt_rating" binding:"min=0,max=5"`
	Comment   string `json:"comment"`
}

type UpdateReviewRequest struct {
	PTID      *uint   `json:"pt_id"`
	GymRating *int    `json:"gym_rating" binding:"omitempty,min=1,max=5"`
	PTRating  *int    `json:"pt_rating" binding:"omitempty,min=0,max=5"`
	Comment   *string `json:"comment"`
}

func (h *ReviewHandler) scoped(c *gin.Context) *gorm.DB {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Review{})
	return access.Scope(q, middleware.Actor(c), "user_id", "pt_id")
}

// --------- Handlers ---------

func (h *ReviewHandler) List(c *gin.Context) {
	var reviews []models.Review
	if err := h.scoped(c).
		Preload("User").
		Preload("PT").
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		httperr.Respond(c, err, "failed_to_list_reviews")
		return
	}
	httpresp.List(c, reviews)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var r models.Review
	if err := h.scoped(c).Preload("User").Preload("PT").First(&r, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_review")
		return
	}
	httpresp.OK(c, r)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	actor := middleware.Actor(c)
	ctx := c.Request.Context()

	if err := access.CanCreateReview(actor); err != nil {
		httperr.Respond(c, err, "")
		return
	}

	var req CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.checkTrainer(c, req.PTID, req.PTRating); err != nil {
		httperr.Respond(c, err, "failed_to_create_review")
		return
	}

	r := models.Review{
		UserID:    actor.UserID,
		PTID:      req.PTID,
		GymRating: req.GymRating,
		PTRating:  req.PTRating,
		Comment:   req.Comment,
	}

	if err := h.db.WithContext(ctx).Omit("User", "PT").Create(&r).Error; err != nil {
		httperr.Respond(c, err, "failed_to_create_review")
		return
	}

	writeAudit(h.audit, actor, "review_created", "review", r.ID, gin.H{"gym_rating": r.GymRating, "pt_rating": r.PTRating})

	if r.PTID != nil {
		h.notifier.NotifyQuietly(ctx, *r.PTID, models.NotificationSystem,
			"New review",
			fmt.Sprintf("You received a new review rated %d/5.", r.PTRating),
		)
	}

	httpresp.Created(c, r)
}

func (h *ReviewHandler) Update(c *gin.Context) {
	actor := middleware.Actor(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	var r models.Review
	if err := h.scoped(c).First(&r, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_review")
		return
	}

	if err := access.CanUpdateReview(actor, r.UserID); err != nil {
		httperr.Respond(c, err, "")
		return
	}

	if req.PTID != nil {
		r.PTID = req.PTID
	}
	if req.GymRating != nil {
		r.GymRating = *req.GymRating
	}
	if req.PTRating != nil {
		r.PTRating = *req.PTRating
	}
	if req.Comment != nil {
		r.Comment = *req.Comment
	}

	if err := h.checkTrainer(c, r.PTID, r.PTRating); err != nil {
		httperr.Respond(c, err, "failed_to_update_review")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Omit("User", "PT").Save(&r).Error; err != nil {
		httperr.Respond(c, err, "failed_to_update_review")
		return
	}

	writeAudit(h.audit, actor, "review_updated", "review", r.ID, req)

	httpresp.OK(c, r)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	actor := middleware.Actor(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	var r models.Review
	if err := h.scoped(c).First(&r, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_review")
		return
	}

	if !actor.IsAdmin && actor.UserID != r.UserID {
		httperr.Respond(c, ErrReviewDeleteDenied, "")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&r).Error; err != nil {
		httperr.Respond(c, err, "failed_to_delete_review")
		return
	}

	writeAudit(h.audit, actor, "review_deleted", "review", r.ID, nil)

	c.Status(http.StatusNoContent)
}

func (h *ReviewHandler) checkTrainer(c *gin.Context, ptID *uint, ptRating int) error {
	if ptID == nil {
		if ptRating > 0 {
			return ErrReviewTrainerRequired
		}
		return nil
	}
	return requireRole(h.db.WithContext(c.Request.Context()), *ptID, models.RoleTrainer, ErrInvalidTrainer)
}

// requireRole loads the user and returns notRole unless it has the given role.
func requireRole(db *gorm.DB, userID uint, role string, notRole error) error {
	var u models.User
	if err := db.Select("id", "role").First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notRole
		}
		return err
	}
	if u.Role != role {
		return notRole
	}
	return nil
}
