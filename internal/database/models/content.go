package models

import (
	"time"

	"github.com/google/uuid"
)

// Editorial holds the fields shared by articles and newsletters: ownership and workflow state
type Editorial struct {
	Title           string        `json:"title" gorm:"size:200;not null"`
	Body            string        `json:"body" gorm:"type:text;not null"`
	PublisherID     uuid.UUID     `json:"publisher_id" gorm:"type:uuid;not null;index"`
	Publisher       *Publisher    `json:"publisher,omitempty" gorm:"foreignKey:PublisherID"`
	AuthorID        uuid.UUID     `json:"author_id" gorm:"type:uuid;not null;index"`
	Author          *User         `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Status          ContentStatus `json:"status" gorm:"type:varchar(20);not null;default:'draft';index"`
	RejectionReason string        `json:"rejection_reason,omitempty" gorm:"type:text"`
	ReviewedByID    *uuid.UUID    `json:"reviewed_by_id,omitempty" gorm:"type:uuid"`
	ReviewedAt      *time.Time    `json:"reviewed_at,omitempty"`
	PublishedAt     *time.Time    `json:"published_at,omitempty" gorm:"index"`
	Version         int           `json:"version" gorm:"not null;default:1"`
}

// ImageAttachment describes an uploaded image stored by the media backend
type ImageAttachment struct {
	Key         string `json:"-" gorm:"size:300"`
	URL         string `json:"url,omitempty" gorm:"size:500"`
	ContentType string `json:"content_type,omitempty" gorm:"size:50"`
	Size        int64  `json:"size,omitempty"`
}

// IsZero reports whether no image is attached
func (a ImageAttachment) IsZero() bool {
	return a.Key == "" && a.URL == ""
}

// Content is implemented by every kind of publishable item
type Content interface {
	Kind() ContentKind
	GetID() uuid.UUID
	Core() *Editorial
	Attachments() []ImageAttachment
}
