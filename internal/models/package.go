package models

import "time"

const (
	PackageTypeBasic = "basic"
	PackageTypePT    = "pt"
	PackageTypeVIP   = "vip"
)

type Package struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	Price       float64 `json:"price"`

	DurationDays int    `gorm:"default:30" json:"duration_days"`
	PTSessions   int    `gorm:"default:0" json:"pt_sessions"`
	PackageType  string `gorm:"size:20;default:'basic'" json:"package_type"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`

	CreatedByID *uint `json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
