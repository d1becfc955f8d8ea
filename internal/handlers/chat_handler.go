package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gym-manager/internal/audit"
	"github.com/BruksfildServices01/gym-manager/internal/chatws"
	"github.com/BruksfildServices01/gym-manager/internal/domain/access"
	"github.com/BruksfildServices01/gym-manager/internal/httperr"
	"github.com/BruksfildServices01/gym-manager/internal/httpresp"
	"github.com/BruksfildServices01/gym-manager/internal/logger"
	"github.com/BruksfildServices01/gym-manager/internal/middleware"
	"github.com/BruksfildServices01/gym-manager/internal/models"
	"github.com/BruksfildServices01/gym-manager/internal/timezone"
)

var (
	ErrDirectChatSize     = httperr.ErrRule("invalid_participants", "A direct chat needs exactly one other participant.")
	ErrUnknownParticipant = httperr.ErrRule("invalid_participants", "Some participants do not exist.")
	ErrChatUnavailable    = httperr.BusinessError{
		Code:    "chat_push_unavailable",
		Message: "Live chat updates are not available.",
		Status:  http.StatusServiceUnavailable,
	}
)

// ======================================================
// HANDLER
// ======================================================

type ChatHandler struct {
	db    *gorm.DB
	hub   *chatws.Hub
	audit *audit.Dispatcher
}

func NewChatHandler(db *gorm.DB, hub *chatws.Hub, audit *audit.Dispatcher) *ChatHandler {
	return &ChatHandler{db: db, hub: hub, audit: audit}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateChatRequest struct {
	ChatName       string `json:"chat_name" binding:"max=100"`
	IsGroup        bool   `json:"is_group"`
	ParticipantIDs []uint `json:"participant_ids" binding:"required,min=1"`
}

type UpdateChatRequest struct {
	ChatName *string `json:"chat_name" binding:"omitempty,max=100"`
}

func (h *ChatHandler) scoped(c *gin.Context) *gorm.DB {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Chat{})
	return access.ScopeChats(q, middleware.Actor(c), "id")
}

// ======================================================
// CHATS
// ======================================================

func (h *ChatHandler) List(c *gin.Context) {
	var chats []models.Chat
	if err := h.scoped(c).
		Preload("Participants.User").
		Order("last_updated DESC, id DESC").
		Find(&chats).Error; err != nil {
		httperr.Respond(c, err, "failed_to_list_chats")
		return
	}
	httpresp.List(c, chats)
}

func (h *ChatHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var chat models.Chat
	if err := h.scoped(c).Preload("Participants.User").First(&chat, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_chat")
		return
	}
	httpresp.OK(c, chat)
}

// Create opens a chat between the caller and participant_ids.
func (h *ChatHandler) Create(c *gin.Context) {
	actor := middleware.Actor(c)

	var req CreateChatRequest
	if !bindJSON(c, &req) {
		return
	}

	others := uniqueOthers(req.ParticipantIDs, actor.UserID)
	if !req.IsGroup && len(others) != 1 {
		httperr.Respond(c, ErrDirectChatSize, "")
		return
	}
	if len(others) == 0 {
		httperr.Respond(c, ErrUnknownParticipant, "")
		return
	}

	now := timezone.Now()
	chat := models.Chat{
		ChatName:    strings.TrimSpace(req.ChatName),
		IsGroup:     req.IsGroup,
		LastUpdated: now,
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var found int64
		if err := tx.Model(&models.User{}).Where("id IN ?", others).Count(&found).Error; err != nil {
			return err
		}
		if int(found) != len(others) {
			return ErrUnknownParticipant
		}

		if err := tx.Create(&chat).Error; err != nil {
			return err
		}

		members := make([]models.ChatParticipant, 0, len(others)+1)
		for _, uid := range append([]uint{actor.UserID}, others...) {
			members = append(members, models.ChatParticipant{ChatID: chat.ID, UserID: uid, JoinedAt: now})
		}
		return tx.Omit("Chat", "User").Create(&members).Error
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_create_chat")
		return
	}

	writeAudit(h.audit, actor, "chat_created", "chat", chat.ID, gin.H{"participants": len(others) + 1})

	if err := h.db.WithContext(c.Request.Context()).Preload("Participants.User").First(&chat, chat.ID).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_chat")
		return
	}
	httpresp.Created(c, chat)
}

func (h *ChatHandler) Update(c *gin.Context) {
	actor := middleware.Actor(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateChatRequest
	if !bindJSON(c, &req) {
		return
	}

	var chat models.Chat
	if err := h.scoped(c).First(&chat, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_chat")
		return
	}

	if req.ChatName != nil {
		chat.ChatName = strings.TrimSpace(*req.ChatName)
		if err := h.db.WithContext(c.Request.Context()).Model(&chat).Update("chat_name", chat.ChatName).Error; err != nil {
			httperr.Respond(c, err, "failed_to_update_chat")
			return
		}
		writeAudit(h.audit, actor, "chat_renamed", "chat", chat.ID, gin.H{"chat_name": chat.ChatName})
	}

	httpresp.OK(c, chat)
}

func (h *ChatHandler) Delete(c *gin.Context) {
	actor := middleware.Actor(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	var chat models.Chat
	if err := h.scoped(c).First(&chat, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_chat")
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", chat.ID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chat_id = ?", chat.ID).Delete(&models.ChatParticipant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&chat).Error
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_delete_chat")
		return
	}

	writeAudit(h.audit, actor, "chat_deleted", "chat", chat.ID, nil)

	c.Status(http.StatusNoContent)
}

// ======================================================
// MESSAGES OF A CHAT
// ======================================================

// Messages lists the chat's messages, newest first.
func (h *ChatHandler) Messages(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var chat models.Chat
	if err := h.scoped(c).Select("id").First(&chat, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_chat")
		return
	}

	var msgs []models.Message
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Sender").
		Where("chat_id = ?", chat.ID).
		Order("timestamp DESC, id DESC").
		Find(&msgs).Error; err != nil {
		httperr.Respond(c, err, "failed_to_list_messages")
		return
	}

	httpresp.List(c, msgs)
}

// Subscribe upgrades to a websocket that receives the chat's message events.
func (h *ChatHandler) Subscribe(c *gin.Context) {
	actor := middleware.Actor(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	if h.hub == nil {
		httperr.Respond(c, ErrChatUnavailable, "")
		return
	}

	var chat models.Chat
	if err := h.scoped(c).Select("id").First(&chat, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_chat")
		return
	}

	if err := h.hub.Serve(c.Writer, c.Request, chat.ID, actor.UserID); err != nil {
		// the upgrader already wrote the HTTP error
		logger.FromContext(c.Request.Context()).Warn("websocket upgrade failed", zap.Error(err))
	}
}

func uniqueOthers(ids []uint, self uint) []uint {
	seen := map[uint]bool{self: true}
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
