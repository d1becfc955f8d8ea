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
	"github.com/BruksfildServices01/gym-manager/internal/notify"
)

type NotificationHandler struct {
	db     *gorm.DB
	notify *notify.Service
	audit  *audit.Dispatcher
}

func NewNotificationHandler(db *gorm.DB, svc *notify.Service, audit *audit.Dispatcher) *NotificationHandler {
	return &NotificationHandler{db: db, notify: svc, audit: audit}
}

// --------- Requests ---------

type CreateNotificationRequest struct {
	UserID  uint   `json:"user_id" binding:"required"`
	Title   string `json:"title" binding:"required,max=200"`
	Message string `json:"message"`
	Type    string `json:"type" binding:"omitempty,oneof=system schedule payment reminder promotion"`
}

// UpdateNotificationRequest: owners may only change is_read.
type UpdateNotificationRequest struct {
	Title   *string `json:"title" binding:"omitempty,max=200"`
	Message *string `json:"message"`
	Type    *string `json:"type" binding:"omitempty,oneof=system schedule payment reminder promotion"`
	IsRead  *bool   `json:"is_read"`
}

func (h *NotificationHandler) scoped(c *gin.Context) *gorm.DB {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Notification{})
	return access.ScopeOwner(q, middleware.Actor(c), "user_id")
}

// --------- Handlers ---------

func (h *NotificationHandler) List(c *gin.Context) {
	q := h.scoped(c)

	switch c.Query("is_read") {
	case "true":
		q = q.Where("is_read = ?", true)
	case "false":
		q = q.Where("is_read = ?", false)
	}
	if kind := c.Query("type"); kind != "" {
		q = q.Where("type = ?", kind)
	}

	var items []models.Notification
	if err := q.Order("sent_at DESC, id DESC").Find(&items).Error; err != nil {
		httperr.Respond(c, err, "failed_to_list_notifications")
		return
	}
	httpresp.List(c, items)
}

func (h *NotificationHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var n models.Notification
	if err := h.scoped(c).First(&n, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_notification")
		return
	}
	httpresp.OK(c, n)
}

func (h *NotificationHandler) Create(c *gin.Context) {
	actor := middleware.Actor(c)
	if err := access.RequireAdmin(actor); err != nil {
		httperr.Respond(c, err, "")
		return
	}

	var req CreateNotificationRequest
	if !bindJSON(c, &req) {
		return
	}

	kind := req.Type
	if kind == "" {
		kind = models.NotificationSystem
	}

	var target models.User
	if err := h.db.WithContext(c.Request.Context()).Select("id").First(&target, req.UserID).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_user")
		return
	}

	n, err := h.notify.Notify(c.Request.Context(), target.ID, kind, req.Title, req.Message)
	if err != nil {
		httperr.Respond(c, err, "failed_to_create_notification")
		return
	}

	writeAudit(h.audit, actor, "notification_created", "notification", n.ID, gin.H{"user_id": n.UserID, "type": n.Type})

	httpresp.Created(c, n)
}

func (h *NotificationHandler) Update(c *gin.Context) {
	actor := middleware.Actor(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateNotificationRequest
	if !bindJSON(c, &req) {
		return
	}

	var n models.Notification
	if err := h.scoped(c).First(&n, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_notification")
		return
	}

	if actor.IsAdmin {
		if req.Title != nil {
			n.Title = *req.Title
		}
		if req.Message != nil {
			n.Message = *req.Message
		}
		if req.Type != nil {
			n.Type = *req.Type
		}
	}
	if req.IsRead != nil {
		n.IsRead = *req.IsRead
	}

	if err := h.db.WithContext(c.Request.Context()).Omit("User").Save(&n).Error; err != nil {
		httperr.Respond(c, err, "failed_to_update_notification")
		return
	}

	httpresp.OK(c, n)
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	actor := middleware.Actor(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	var n models.Notification
	if err := h.scoped(c).First(&n, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_notification")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&n).Error; err != nil {
		httperr.Respond(c, err, "failed_to_delete_notification")
		return
	}

	writeAudit(h.audit, actor, "notification_deleted", "notification", n.ID, nil)

	c.Status(http.StatusNoContent)
}

// MarkRead flags one notification of the caller as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var n models.Notification
	if err := h.scoped(c).First(&n, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_notification")
		return
	}

	if !n.IsRead {
		if err := h.db.WithContext(c.Request.Context()).Model(&n).Update("is_read", true).Error; err != nil {
			httperr.Respond(c, err, "failed_to_update_notification")
			return
		}
		n.IsRead = true
	}

	httpresp.OK(c, n)
}

// ReadAll marks every unread notification of the caller as read.
func (h *NotificationHandler) ReadAll(c *gin.Context) {
	actor := middleware.Actor(c)

	res := h.db.WithContext(c.Request.Context()).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", actor.UserID, false).
		Update("is_read", true)
	if res.Error != nil {
		httperr.Respond(c, res.Error, "failed_to_update_notifications")
		return
	}

	httpresp.OK(c, gin.H{"updated": res.RowsAffected})
}
