package models

import (
	"strings"

	"github.com/google/uuid"
)

// User is an account of the site. Journalists, editors and publisher owners belong to
// at most one publisher; once PublisherID is set it is never moved to another publisher.
type User struct {
	BaseModel
	Username     string     `json:"username" gorm:"uniqueIndex;not null;size:150" validate:"required,min=3,max=150"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null;size:254" validate:"required,email,max=254"`
	FirstName    string     `json:"first_name" gorm:"size:150" validate:"max=150"`
	LastName     string     `json:"last_name" gorm:"size:150" validate:"max=150"`
	PasswordHash string     `json:"-" gorm:"not null;size:100"`
	Role         Role       `json:"role" gorm:"type:varchar(20);not null;default:'reader';index"`
	IsStaff      bool       `json:"is_staff" gorm:"not null;default:false"`
	IsActive     bool       `json:"is_active" gorm:"not null;default:true"`
	PublisherID  *uuid.UUID `json:"publisher_id,omitempty" gorm:"type:uuid;index"`
	Publisher    *Publisher `json:"publisher,omitempty" gorm:"foreignKey:PublisherID"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// FullName returns "First Last", or the username when no name is set
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// BelongsTo reports whether the user is attached to the given publisher
func (u *User) BelongsTo(publisherID uuid.UUID) bool {
	return u != nil && u.PublisherID != nil && *u.PublisherID == publisherID
}
