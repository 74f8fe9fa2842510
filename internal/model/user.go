package model

import (
	"time"

	"teamboard/internal/auth"
)

// User represents an account that can sign in.
// Users are never hard-deleted; admins toggle Active and Approved instead.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         auth.Role `json:"role" gorm:"type:varchar(20);not null;default:'member';index"`
	Active       bool      `json:"active" gorm:"default:true;index"`
	Approved     bool      `json:"approved" gorm:"default:false;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity returns the token identity for u.
func (u *User) Identity() auth.Identity {
	return auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}
