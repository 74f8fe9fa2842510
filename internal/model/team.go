package model

import (
	"time"

	"gorm.io/gorm"
)

// Team groups users that work on projects together.
type Team struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"uniqueIndex;size:255;not null"`
	Description string         `json:"description" gorm:"type:text"`
	LeadID      *uint          `json:"lead_id,omitempty" gorm:"index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Lead    *User  `json:"lead,omitempty" gorm:"foreignKey:LeadID"`
	Members []User `json:"members,omitempty" gorm:"many2many:team_members;"`
}
