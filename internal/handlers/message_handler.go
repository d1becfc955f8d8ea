package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gym-manager/internal/audit"
	"github.com/BruksfildServices01/gym-manager/internal/chatws"
	"github.com/BruksfildServices01/gym-manager/internal/domain/access"
	"github.com/BruksfildServices01/gym-manager/internal/httperr"
	"github.com/BruksfildServices01/gym-manager/internal/httpresp"
	"github.com/BruksfildServices01/gym-manager/internal/middleware"
	"github.com/BruksfildServices01/gym-manager/internal/models"
	"github.com/BruksfildServices01/gym-manager/internal/timezone"
)

const (
	EventMessageCreated = "message.created"
	EventMessageUpdated = "message.updated"
	EventMessageDeleted = "message.deleted"
)

type MessageHandler struct {
	db    *gorm.DB
	hub   *chatws.Hub
	audit *audit.Dispatcher
}

func NewMessageHandler(db *gorm.DB, hub *chatws.Hub, audit *audit.Dispatcher) *MessageHandler {
	return &MessageHandler{db: db, hub: hub, audit: audit}
}

// --------- Requests ---------

type CreateMessageRequest struct {
	ChatID  uint   `json:"chat_id" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type UpdateMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *MessageHandler) scoped(c *gin.Context) *gorm.DB {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Message{})
	return access.ScopeChats(q, middleware.Actor(c), "chat_id")
}

// --------- Handlers ---------

func (h *MessageHandler) List(c *gin.Context) {
	q := h.scoped(c)
	if chatID := c.Query("chat_id"); chatID != "" {
		id, err := strconv.ParseUint(chatID, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_chat_id", "Invalid chat_id.")
			return
		}
		q = q.Where("chat_id = ?", id)
	}

	var msgs []models.Message
	if err := q.Preload("Sender").Order("timestamp DESC, id DESC").Find(&msgs).Error; err != nil {
		httperr.Respond(c, err, "failed_to_list_messages")
		return
	}
	httpresp.List(c, msgs)
}

func (h *MessageHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var m models.Message
	if err := h.scoped(c).Preload("Sender").First(&m, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_message")
		return
	}
	httpresp.OK(c, m)
}

// Create posts a message as the caller, who must take part in the chat.
func (h *MessageHandler) Create(c *gin.Context) {
	actor := middleware.Actor(c)
	ctx := c.Request.Context()

	var req CreateMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	db := h.db.WithContext(ctx)

	var participant int64
	if err := db.Model(&models.ChatParticipant{}).
		Where("chat_id = ? AND user_id = ?", req.ChatID, actor.UserID).
		Count(&participant).Error; err != nil {
		httperr.Respond(c, err, "failed_to_create_message")
		return
	}
	if participant == 0 {
		httperr.Respond(c, access.ErrNotChatParticipant, "")
		return
	}

	msg := models.Message{
		ChatID:    req.ChatID,
		SenderID:  actor.UserID,
		Content:   req.Content,
		Timestamp: timezone.Now(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Chat", "Sender").Create(&msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Chat{}).
			Where("id = ?", msg.ChatID).
			Updates(map[string]any{
				"last_message": msg.Content,
				"last_updated": msg.Timestamp,
			}).Error
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_create_message")
		return
	}

	if err := db.First(&msg.Sender, actor.UserID).Error; err != nil {
		httperr.Respond(c, err, "failed_to_create_message")
		return
	}

	h.hub.Publish(msg.ChatID, chatws.Event{Type: EventMessageCreated, Data: msg})

	httpresp.Created(c, msg)
}

func (h *MessageHandler) Update(c *gin.Context) {
	actor := middleware.Actor(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	var m models.Message
	if err := h.scoped(c).First(&m, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_message")
		return
	}

	if err := access.CanChangeMessage(actor, m.SenderID); err != nil {
		httperr.Respond(c, err, "")
		return
	}

	m.Content = req.Content
	if err := h.db.WithContext(c.Request.Context()).Model(&m).Update("content", m.Content).Error; err != nil {
		httperr.Respond(c, err, "failed_to_update_message")
		return
	}

	h.hub.Publish(m.ChatID, chatws.Event{Type: EventMessageUpdated, Data: m})

	httpresp.OK(c, m)
}

func (h *MessageHandler) Delete(c *gin.Context) {
	actor := middleware.Actor(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	var m models.Message
	if err := h.scoped(c).First(&m, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_message")
		return
	}

	if err := access.CanChangeMessage(actor, m.SenderID); err != nil {
		httperr.Respond(c, err, "")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&m).Error; err != nil {
		httperr.Respond(c, err, "failed_to_delete_message")
		return
	}

	writeAudit(h.audit, actor, "message_deleted", "message", m.ID, gin.H{"chat_id": m.ChatID})
	h.hub.Publish(m.ChatID, chatws.Event{Type: EventMessageDeleted, Data: gin.H{"id": m.ID}})

	c.Status(http.StatusNoContent)
}
