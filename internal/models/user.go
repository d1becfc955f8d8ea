package models

import "time"

const (
	RoleMember  = "member"
	RoleTrainer = "pt"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email    string `gorm:"size:100;uniqueIndex;not null" json:"email"`

	PasswordHash string `gorm:"size:255;not null" json:"-"`

	FirstName      string `gorm:"size:150" json:"first_name"`
	LastName       string `gorm:"size:150" json:"last_name"`
	Phone          string `gorm:"size:20" json:"phone"`
	Role           string `gorm:"size:20;default:'member';index" json:"role"`
	Specialization string `gorm:"size:100" json:"specialization"`
	Avatar         string `gorm:"size:255" json:"avatar"`

	IsActive    bool `gorm:"default:true" json:"is_active"`
	IsStaff     bool `gorm:"default:false" json:"is_staff"`
	IsSuperuser bool `gorm:"default:false" json:"is_superuser"`

	DateJoined time.Time `json:"date_joined"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u *User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Username
	case u.LastName == "":
		return u.FirstName
	case u.FirstName == "":
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}
