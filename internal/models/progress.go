package models

import "time"

type Progress struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	PTID uint `gorm:"column:pt_id;index;not null" json:"pt_id"`
	PT   User `gorm:"foreignKey:PTID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"pt"`

	Weight     float64 `json:"weight"`
	BodyFat    float64 `json:"body_fat"`
	MuscleMass float64 `json:"muscle_mass"`
	Note       string  `gorm:"type:text" json:"note"`

	RecordedAt time.Time `gorm:"index" json:"recorded_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Progress) TableName() string {
	return "progress"
}
