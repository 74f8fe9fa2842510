package model

import "time"

// NotificationType classifies a notification.
type NotificationType string

const (
	NotificationTaskAssigned    NotificationType = "task_assigned"
	NotificationTaskStatus      NotificationType = "task_status"
	NotificationTeamAdded       NotificationType = "team_added"
	NotificationAccountApproved NotificationType = "account_approved"
	NotificationMessage         NotificationType = "message"
)

// Notification is an in-app notice for a single user.
type Notification struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	UserID    uint             `json:"user_id" gorm:"not null;index"`
	Type      NotificationType `json:"type" gorm:"type:varchar(30);not null"`
	Title     string           `json:"title" gorm:"size:255;not null"`
	Body      string           `json:"body" gorm:"type:text"`
	Read      bool             `json:"read" gorm:"column:is_read;default:false;index"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
