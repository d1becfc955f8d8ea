package models

import "time"

type Schedule struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	PTID *uint `gorm:"column:pt_id;index" json:"pt_id"`
	PT   *User `gorm:"foreignKey:PTID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"pt,omitempty"`

	MemberPackageID *uint          `json:"member_package_id"`
	MemberPackage   *MemberPackage `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"member_package,omitempty"`

	StartTime time.Time `gorm:"index" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'pending';index" json:"status"`
	Note   string `gorm:"size:255" json:"note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
