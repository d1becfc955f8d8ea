package models

import "time"

const (
	MemberPackageActive    = "active"
	MemberPackageExpired   = "expired"
	MemberPackageCancelled = "cancelled"
)

type MemberPackage struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	PackageID uint    `gorm:"index;not null" json:"package_id"`
	Package   Package `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"package"`

	StartDate time.Time `gorm:"index" json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `gorm:"size:20;default:'active';index" json:"status"`

	RemainingPTSessions int `json:"remaining_pt_sessions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
