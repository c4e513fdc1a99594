package models

import "github.com/google/uuid"

// Article is a single news piece written by a journalist for a publisher
type Article struct {
	BaseModel
	Editorial
	Summary    string          `json:"summary" gorm:"size:500"`
	CategoryID *uuid.UUID      `json:"category_id,omitempty" gorm:"type:uuid;index"`
	Category   *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	HeroImage  ImageAttachment `json:"hero_image" gorm:"embedded;embeddedPrefix:hero_image_"`
}

// TableName returns the table name for Article
func (Article) TableName() string {
	return "articles"
}

func (a *Article) Kind() ContentKind { return KindArticle }

func (a *Article) GetID() uuid.UUID { return a.ID }

func (a *Article) Core() *Editorial { return &a.Editorial }

func (a *Article) Attachments() []ImageAttachment {
	if a.HeroImage.IsZero() {
		return nil
	}
	return []ImageAttachment{a.HeroImage}
}
