package models

import "time"

type Review struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	PTID *uint `gorm:"column:pt_id;index" json:"pt_id"`
	PT   *User `gorm:"foreignKey:PTID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"pt,omitempty"`

	GymRating int    `json:"gym_rating"`
	PTRating  int    `gorm:"column:pt_rating" json:"pt_rating"`
	Comment   string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
