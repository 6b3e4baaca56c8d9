package entity

import (
	"time"

	"anoa.com/jornalufc/internal/policy"
)

type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Name         string      `gorm:"size:120;not null" json:"name"`
	Email        string      `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"size:255;not null" json:"-"`
	Role         policy.Role `gorm:"size:20;not null;index" json:"role"`
	IsActive     bool        `gorm:"not null" json:"is_active"`
	// OrientadorID points at the professor supervising a scholarship student.
	// It is resolved by lookup, never preloaded.
	OrientadorID *uint     `gorm:"index" json:"orientador_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Actor returns the facts the authorization policy needs about u.
func (u *User) Actor() policy.Actor {
	return policy.Actor{ID: u.ID, Role: u.Role, OrientorID: u.OrientadorID}
}
