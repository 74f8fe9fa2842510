package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
)

// TaskPriority represents how urgent a task is.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Task is a piece of work inside a project.
type Task struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	ProjectID     uint            `json:"project_id" gorm:"not null;index"`
	Title         string          `json:"title" gorm:"size:255;not null"`
	Description   string          `json:"description" gorm:"type:text"`
	Status        TaskStatus      `json:"status" gorm:"type:varchar(20);not null;default:'todo';index"`
	Priority      TaskPriority    `json:"priority" gorm:"type:varchar(20);not null;default:'medium'"`
	AssigneeID    *uint           `json:"assignee_id,omitempty" gorm:"index"`
	CreatorID     uint            `json:"creator_id" gorm:"not null"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	EstimateHours decimal.Decimal `json:"estimate_hours" gorm:"type:decimal(8,2);not null;default:0"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relations
	Project  Project `json:"-" gorm:"foreignKey:ProjectID"`
	Assignee *User   `json:"-" gorm:"foreignKey:AssigneeID"`
}
