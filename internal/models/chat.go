package models

import "time"

type Chat struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChatName    string    `gorm:"size:100" json:"chat_name"`
	IsGroup     bool      `gorm:"default:false" json:"is_group"`
	LastMessage string    `gorm:"type:text" json:"last_message"`
	LastUpdated time.Time `json:"last_updated"`

	Participants []ChatParticipant `json:"participants,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatParticipant struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ChatID uint `gorm:"uniqueIndex:idx_chat_user;not null" json:"chat_id"`
	Chat   Chat `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	UserID uint `gorm:"uniqueIndex:idx_chat_user;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	JoinedAt time.Time `json:"joined_at"`
}

type Message struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ChatID uint `gorm:"index;not null" json:"chat_id"`
	Chat   Chat `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	SenderID uint `gorm:"index;not null" json:"sender_id"`
	Sender   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sender"`

	Content   string    `gorm:"type:text;not null" json:"content"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
}
