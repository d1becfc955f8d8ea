package models

import "time"

const (
	NotificationSystem    = "system"
	NotificationSchedule  = "schedule"
	NotificationPayment   = "payment"
	NotificationReminder  = "reminder"
	NotificationPromotion = "promotion"
)

type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Title   string `gorm:"size:200;not null" json:"title"`
	Message string `gorm:"type:text" json:"message"`
	Type    string `gorm:"size:20;default:'system'" json:"type"`

	SentAt time.Time `gorm:"index" json:"sent_at"`
	IsRead bool      `gorm:"default:false" json:"is_read"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
