package testutils

import (
	"time"

	"burst-backend/internal/database/models"

	"github.com/google/uuid"
)

// PublisherFactory provides methods to create test Publisher data
type PublisherFactory struct{}

// NewPublisherFactory creates a new PublisherFactory
func NewPublisherFactory() *PublisherFactory {
	return &PublisherFactory{}
}

// Create creates a test Publisher with default values
func (f *PublisherFactory) Create() *models.Publisher {
	id := uuid.New()
	return &models.Publisher{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:        "Daily Planet " + id.String()[:6],
		Description: "Metropolis news",
		Website:     "https://dailyplanet.test",
	}
}

// WithName sets a custom name for the publisher
func (f *PublisherFactory) WithName(name string) *models.Publisher {
	p := f.Create()
	p.Name = name
	return p
}

// UserFactory provides methods to create test User data
type UserFactory struct{}

// NewUserFactory creates a new UserFactory
func NewUserFactory() *UserFactory {
	return &UserFactory{}
}

// Create creates an active reader with a unique username and email
func (f *UserFactory) Create() *models.User {
	id := uuid.New()
	suffix := id.String()[:8]
	return &models.User{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Username:     "user_" + suffix,
		Email:        "user_" + suffix + "@burst.test",
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z1pV9o5bG0uQ2yQ6bq5pG1qS",
		Role:         models.RoleReader,
		IsActive:     true,
	}
}

// WithRole creates a user of the given role, attached to publisherID when it is not nil
func (f *UserFactory) WithRole(role models.Role, publisherID *uuid.UUID) *models.User {
	u := f.Create()
	u.Role = role
	u.PublisherID = publisherID
	return u
}

// Reader creates a reader
func (f *UserFactory) Reader() *models.User {
	return f.WithRole(models.RoleReader, nil)
}

// Journalist creates a journalist attached to publisherID
func (f *UserFactory) Journalist(publisherID uuid.UUID) *models.User {
	return f.WithRole(models.RoleJournalist, &publisherID)
}

// Editor creates an editor attached to publisherID
func (f *UserFactory) Editor(publisherID uuid.UUID) *models.User {
	return f.WithRole(models.RoleEditor, &publisherID)
}

// PublisherOwner creates a publisher-role user attached to publisherID
func (f *UserFactory) PublisherOwner(publisherID uuid.UUID) *models.User {
	return f.WithRole(models.RolePublisher, &publisherID)
}

// ArticleFactory provides methods to create test Article data
type ArticleFactory struct{}

// NewArticleFactory creates a new ArticleFactory
func NewArticleFactory() *ArticleFactory {
	return &ArticleFactory{}
}

// Create creates a draft article authored by author for the author's publisher
func (f *ArticleFactory) Create(author *models.User) *models.Article {
	a := &models.Article{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Editorial: models.Editorial{
			Title:    "Breaking news",
			Body:     "Something happened today.",
			AuthorID: author.ID,
			Author:   author,
			Status:   models.StatusDraft,
			Version:  1,
		},
		Summary: "Something happened",
	}
	if author.PublisherID != nil {
		a.PublisherID = *author.PublisherID
	}
	return a
}

// WithStatus creates an article in the given status
func (f *ArticleFactory) WithStatus(author *models.User, status models.ContentStatus) *models.Article {
	a := f.Create(author)
	a.Status = status
	if status == models.StatusPublished {
		now := time.Now()
		a.PublishedAt = &now
	}
	return a
}

// NewsletterFactory provides methods to create test Newsletter data
type NewsletterFactory struct{}

// NewNewsletterFactory creates a new NewsletterFactory
func NewNewsletterFactory() *NewsletterFactory {
	return &NewsletterFactory{}
}

// Create creates a draft newsletter authored by author for the author's publisher
func (f *NewsletterFactory) Create(author *models.User) *models.Newsletter {
	n := &models.Newsletter{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Editorial: models.Editorial{
			Title:    "Weekly digest",
			Body:     "This week in review.",
			AuthorID: author.ID,
			Author:   author,
			Status:   models.StatusDraft,
			Version:  1,
		},
	}
	if author.PublisherID != nil {
		n.PublisherID = *author.PublisherID
	}
	return n
}

// WithStatus creates a newsletter in the given status
func (f *NewsletterFactory) WithStatus(author *models.User, status models.ContentStatus) *models.Newsletter {
	n := f.Create(author)
	n.Status = status
	return n
}

// CategoryFactory provides methods to create test Category data
type CategoryFactory struct{}

// NewCategoryFactory creates a new CategoryFactory
func NewCategoryFactory() *CategoryFactory {
	return &CategoryFactory{}
}

// Create creates a test Category with default values
func (f *CategoryFactory) Create() *models.Category {
	id := uuid.New()
	return &models.Category{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:        "Technology " + id.String()[:4],
		Slug:        "technology-" + id.String()[:4],
		Description: "Tech news",
	}
}

// WithName sets a custom name for the category
func (f *CategoryFactory) WithName(name string) *models.Category {
	c := f.Create()
	c.Name = name
	return c
}

// FactorySet groups every factory for convenient access in suites
type FactorySet struct {
	Publisher  *PublisherFactory
	User       *UserFactory
	Article    *ArticleFactory
	Newsletter *NewsletterFactory
	Category   *CategoryFactory
}

// NewFactorySet creates a new FactorySet
func NewFactorySet() *FactorySet {
	return &FactorySet{
		Publisher:  NewPublisherFactory(),
		User:       NewUserFactory(),
		Article:    NewArticleFactory(),
		Newsletter: NewNewsletterFactory(),
		Category:   NewCategoryFactory(),
	}
}
