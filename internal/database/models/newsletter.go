package models

import "github.com/google/uuid"

// Newsletter is a longer periodic issue; it follows the same workflow as articles
type Newsletter struct {
	BaseModel
	Editorial
	CoverImage       ImageAttachment `json:"cover_image" gorm:"embedded;embeddedPrefix:cover_image_"`
	ShareSlug        *string         `json:"share_slug,omitempty" gorm:"size:255;uniqueIndex"`
	ShareTitle       string          `json:"share_title,omitempty" gorm:"size:255"`
	ShareDescription string          `json:"share_description,omitempty" gorm:"type:text"`
}

// TableName returns the table name for Newsletter
func (Newsletter) TableName() string {
	return "newsletters"
}

func (n *Newsletter) Kind() ContentKind { return KindNewsletter }

func (n *Newsletter) GetID() uuid.UUID { return n.ID }

func (n *Newsletter) Core() *Editorial { return &n.Editorial }

func (n *Newsletter) Attachments() []ImageAttachment {
	if n.CoverImage.IsZero() {
		return nil
	}
	return []ImageAttachment{n.CoverImage}
}
