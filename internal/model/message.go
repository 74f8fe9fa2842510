package model

import "time"

// Message is a direct message between two users.
type Message struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	SenderID    uint       `json:"sender_id" gorm:"not null;index"`
	RecipientID uint       `json:"recipient_id" gorm:"not null;index"`
	Body        string     `json:"body" gorm:"type:text;not null"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	// Relations
	Sender    User `json:"-" gorm:"foreignKey:SenderID"`
	Recipient User `json:"-" gorm:"foreignKey:RecipientID"`
}
