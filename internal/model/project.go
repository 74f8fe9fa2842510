package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusPlanned   ProjectStatus = "planned"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

// Project is a unit of work owned by a user and optionally assigned to a team.
type Project struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:255;not null;index"`
	Description string          `json:"description" gorm:"type:text"`
	Status      ProjectStatus   `json:"status" gorm:"type:varchar(20);not null;default:'planned';index"`
	OwnerID     uint            `json:"owner_id" gorm:"not null;index"`
	TeamID      *uint           `json:"team_id,omitempty" gorm:"index"`
	StartDate   *time.Time      `json:"start_date,omitempty"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Budget      decimal.Decimal `json:"budget" gorm:"type:decimal(20,2);not null;default:0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relations
	Owner User  `json:"-" gorm:"foreignKey:OwnerID"`
	Team  *Team `json:"-" gorm:"foreignKey:TeamID"`
}
