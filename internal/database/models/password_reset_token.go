package models

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetTokenTTL is how long a reset link stays valid
const PasswordResetTokenTTL = 24 * time.Hour

// PasswordResetToken is a single-use token emailed to a user who forgot their password
type PasswordResetToken struct {
	BaseModel
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	User      *User     `json:"-" gorm:"foreignKey:UserID"`
	Token     string    `json:"-" gorm:"uniqueIndex;not null;size:100"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	Used      bool      `json:"used" gorm:"not null;default:false"`
}

// TableName returns the table name for PasswordResetToken
func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// IsValid reports whether the token is unused and not expired at now
func (t *PasswordResetToken) IsValid(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}
