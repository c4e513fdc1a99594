package service

import (
	"time"

	"burst-backend/internal/database/models"

	"github.com/google/uuid"
)

// UserSummary is the public view of a user embedded in other responses
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
}

// UserResponse represents a user account in API responses
type UserResponse struct {
	ID          uuid.UUID   `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Role        models.Role `json:"role"`
	IsStaff     bool        `json:"is_staff"`
	PublisherID *uuid.UUID  `json:"publisher_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// PublisherSummary is the short view of a publisher embedded in other responses
type PublisherSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// EditorialResponse holds the fields shared by article and newsletter responses
type EditorialResponse struct {
	ID              uuid.UUID            `json:"id"`
	Title           string               `json:"title"`
	Body            string               `json:"body"`
	Status          models.ContentStatus `json:"status"`
	RejectionReason string               `json:"rejection_reason,omitempty"`
	Author          *UserSummary         `json:"author,omitempty"`
	Publisher       *PublisherSummary    `json:"publisher,omitempty"`
	ReviewedByID    *uuid.UUID           `json:"reviewed_by_id,omitempty"`
	ReviewedAt      *time.Time           `json:"reviewed_at,omitempty"`
	PublishedAt     *time.Time           `json:"published_at,omitempty"`
	Version         int                  `json:"version"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// ArticleResponse represents an article in API responses
type ArticleResponse struct {
	EditorialResponse
	Summary   string            `json:"summary"`
	Category  *CategoryResponse `json:"category,omitempty"`
	HeroImage string            `json:"hero_image,omitempty"`
}

// ArticleListResponse represents a paginated list of articles
type ArticleListResponse struct {
	Articles []ArticleResponse `json:"articles"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// NewsletterResponse represents a newsletter in API responses
type NewsletterResponse struct {
	EditorialResponse
	CoverImage       string `json:"cover_image,omitempty"`
	ShareSlug        string `json:"share_slug,omitempty"`
	ShareTitle       string `json:"share_title,omitempty"`
	ShareDescription string `json:"share_description,omitempty"`
}

// NewsletterListResponse represents a paginated list of newsletters
type NewsletterListResponse struct {
	Newsletters []NewsletterResponse `json:"newsletters"`
	Total       int64                `json:"total"`
	Page        int                  `json:"page"`
	PageSize    int                  `json:"page_size"`
}

// CategoryResponse represents a single category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
}

// CategoryListResponse represents a paginated list of categories
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
}

// PublisherResponse represents a publisher in API responses
type PublisherResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Website     string     `json:"website,omitempty"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// PublisherListResponse represents a paginated list of publishers
type PublisherListResponse struct {
	Publishers []PublisherResponse `json:"publishers"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
}

// DashboardResponse is the publisher owner's overview
type DashboardResponse struct {
	Publisher       PublisherResponse    `json:"publisher"`
	Team            []UserResponse       `json:"team"`
	Articles        []ArticleResponse    `json:"articles"`
	Newsletters     []NewsletterResponse `json:"newsletters"`
	ArticleCount    int64                `json:"article_count"`
	SubscriberCount int64                `json:"subscriber_count"`
}

// SubscriptionResponse represents a subscription in API responses
type SubscriptionResponse struct {
	ID           uuid.UUID  `json:"id"`
	PublisherID  *uuid.UUID `json:"publisher_id,omitempty"`
	JournalistID *uuid.UUID `json:"journalist_id,omitempty"`
	TargetType   string     `json:"target_type"`
	TargetName   string     `json:"target_name"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NotificationResponse represents an in-app notification
type NotificationResponse struct {
	ID          uuid.UUID          `json:"id"`
	ContentKind models.ContentKind `json:"content_kind"`
	ContentID   uuid.UUID          `json:"content_id"`
	Title       string             `json:"title"`
	Message     string             `json:"message"`
	Link        string             `json:"link"`
	Read        bool               `json:"read"`
	ReadAt      *time.Time         `json:"read_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// NotificationListResponse represents a paginated list of notifications
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}

func toUserSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Username: u.Username, FullName: u.FullName()}
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		IsStaff:     u.IsStaff,
		PublisherID: u.PublisherID,
		CreatedAt:   u.CreatedAt,
	}
}

func toPublisherResponse(p *models.Publisher) PublisherResponse {
	return PublisherResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Website:     p.Website,
		OwnerID:     p.OwnerID,
		CreatedAt:   p.CreatedAt,
	}
}

func toCategoryResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description}
}

func toEditorialResponse(id uuid.UUID, e *models.Editorial, createdAt, updatedAt time.Time) EditorialResponse {
	resp := EditorialResponse{
		ID:              id,
		Title:           e.Title,
		Body:            e.Body,
		Status:          e.Status,
		RejectionReason: e.RejectionReason,
		Author:          toUserSummary(e.Author),
		ReviewedByID:    e.ReviewedByID,
		ReviewedAt:      e.ReviewedAt,
		PublishedAt:     e.PublishedAt,
		Version:         e.Version,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
	if e.Publisher != nil {
		resp.Publisher = &PublisherSummary{ID: e.Publisher.ID, Name: e.Publisher.Name}
	}
	return resp
}

// ToArticleResponse converts an Article model to its API response
func ToArticleResponse(a *models.Article) ArticleResponse {
	resp := ArticleResponse{
		EditorialResponse: toEditorialResponse(a.ID, &a.Editorial, a.CreatedAt, a.UpdatedAt),
		Summary:           a.Summary,
		HeroImage:         a.HeroImage.URL,
	}
	if a.Category != nil {
		c := toCategoryResponse(a.Category)
		resp.Category = &c
	}
	return resp
}

// ToNewsletterResponse converts a Newsletter model to its API response
func ToNewsletterResponse(n *models.Newsletter) NewsletterResponse {
	resp := NewsletterResponse{
		EditorialResponse: toEditorialResponse(n.ID, &n.Editorial, n.CreatedAt, n.UpdatedAt),
		CoverImage:        n.CoverImage.URL,
		ShareTitle:        n.ShareTitle,
		ShareDescription:  n.ShareDescription,
	}
	if n.ShareSlug != nil {
		resp.ShareSlug = *n.ShareSlug
	}
	return resp
}

func toSubscriptionResponse(s *models.Subscription) SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:           s.ID,
		PublisherID:  s.PublisherID,
		JournalistID: s.JournalistID,
		TargetName:   s.TargetName(),
		CreatedAt:    s.CreatedAt,
	}
	if s.PublisherID != nil {
		resp.TargetType = "publisher"
	} else {
		resp.TargetType = "journalist"
	}
	return resp
}

func toNotificationResponse(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		ContentKind: n.ContentKind,
		ContentID:   n.ContentID,
		Title:       n.Title,
		Message:     n.Message,
		Link:        n.Link,
		Read:        n.ReadAt != nil,
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
}
