package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an in-app message telling a reader that followed content was published
type Notification struct {
	BaseModel
	RecipientID uuid.UUID   `json:"recipient_id" gorm:"type:uuid;not null;index"`
	Recipient   *User       `json:"-" gorm:"foreignKey:RecipientID"`
	ContentKind ContentKind `json:"content_kind" gorm:"type:varchar(20);not null"`
	ContentID   uuid.UUID   `json:"content_id" gorm:"type:uuid;not null;index"`
	Title       string      `json:"title" gorm:"size:200;not null"`
	Message     string      `json:"message" gorm:"type:text"`
	Link        string      `json:"link" gorm:"size:500"`
	ReadAt      *time.Time  `json:"read_at,omitempty"`
}

// TableName returns the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
