package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

type MemberProfile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
	BMI    float64 `json:"bmi"`
	Goal   string  `gorm:"size:255" json:"goal"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ComputeBMI returns weight(kg) / height(m)^2 rounded to two decimals.
// Height is stored in centimetres.
func ComputeBMI(heightCm, weightKg float64) float64 {
	if heightCm <= 0 || weightKg <= 0 {
		return 0
	}
	m := heightCm / 100
	return math.Round(weightKg/(m*m)*100) / 100
}

func (p *MemberProfile) BeforeSave(*gorm.DB) error {
	p.BMI = ComputeBMI(p.Height, p.Weight)
	return nil
}
