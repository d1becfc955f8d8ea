package access

import (
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gym-manager/internal/models"
)

// Actor is the authenticated caller of a request.
type Actor struct {
	UserID  uint
	Role    string
	IsAdmin bool
}

func (a Actor) IsTrainer() bool {
	return a.Role == models.RoleTrainer
}

func (a Actor) IsMember() bool {
	return a.Role == models.RoleMember
}

// Scope narrows q to the rows the actor may see.
//
// Admins see everything. Trainers see rows where trainerColumn is their id
// when the resource has a trainer column; everybody else sees rows where
// ownerColumn is their id.
func Scope(q *gorm.DB, a Actor, ownerColumn, trainerColumn string) *gorm.DB {
	if a.IsAdmin {
		return q
	}
	if a.IsTrainer() && trainerColumn != "" {
		return q.Where(trainerColumn+" = ?", a.UserID)
	}
	return q.Where(ownerColumn+" = ?", a.UserID)
}

// ScopeOwner is Scope for resources that only have an owner column.
func ScopeOwner(q *gorm.DB, a Actor, ownerColumn string) *gorm.DB {
	return Scope(q, a, ownerColumn, "")
}

// ScopePayments keeps payments whose member package belongs to the actor.
func ScopePayments(q *gorm.DB, a Actor) *gorm.DB {
	if a.IsAdmin {
		return q
	}
	return q.Where(
		"member_package_id IN (?)",
		q.Session(&gorm.Session{NewDB: true}).
			Model(&models.MemberPackage{}).
			Select("id").
			Where("user_id = ?", a.UserID),
	)
}

// ScopeChats keeps chats the actor participates in.
func ScopeChats(q *gorm.DB, a Actor, chatIDColumn string) *gorm.DB {
	if a.IsAdmin {
		return q
	}
	return q.Where(
		chatIDColumn+" IN (?)",
		q.Session(&gorm.Session{NewDB: true}).
			Model(&models.ChatParticipant{}).
			Select("chat_id").
			Where("user_id = ?", a.UserID),
	)
}
