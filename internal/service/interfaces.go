package service

import (
	"context"
	"io"

	"burst-backend/internal/database/models"
	"burst-backend/internal/workflow"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/service_mocks.go -package=mocks

// ArticleServiceInterface defines the interface for article service
type ArticleServiceInterface interface {
	List(actor *models.User, req *ArticleListRequest) (*ArticleListResponse, error)
	GetByID(actor *models.User, id uuid.UUID) (*ArticleResponse, error)
	Create(actor *models.User, req *CreateArticleRequest) (*ArticleResponse, error)
	Update(ctx context.Context, actor *models.User, id uuid.UUID, req *UpdateArticleRequest) (*ArticleResponse, error)
	Delete(ctx context.Context, actor *models.User, id uuid.UUID) error
	Transition(ctx context.Context, actor *models.User, id uuid.UUID, action workflow.Action, reason string) (*ArticleResponse, error)
	AttachImage(ctx context.Context, actor *models.User, id uuid.UUID, image io.Reader) (*ArticleResponse, error)
	LatestPublished(limit int) ([]models.Article, error)
}

// NewsletterServiceInterface defines the interface for newsletter service
type NewsletterServiceInterface interface {
	List(actor *models.User, req *NewsletterListRequest) (*NewsletterListResponse, error)
	GetByID(actor *models.User, id uuid.UUID) (*NewsletterResponse, error)
	Create(actor *models.User, req *CreateNewsletterRequest) (*NewsletterResponse, error)
	Update(ctx context.Context, actor *models.User, id uuid.UUID, req *UpdateNewsletterRequest) (*NewsletterResponse, error)
	Delete(ctx context.Context, actor *models.User, id uuid.UUID) error
	Transition(ctx context.Context, actor *models.User, id uuid.UUID, action workflow.Action, reason string) (*NewsletterResponse, error)
	AttachImage(ctx context.Context, actor *models.User, id uuid.UUID, image io.Reader) (*NewsletterResponse, error)
}

// SubscriptionServiceInterface defines the interface for subscription service
type SubscriptionServiceInterface interface {
	Subscribe(reader *models.User, req *SubscribeRequest) (*SubscriptionResponse, error)
	Unsubscribe(reader *models.User, req *SubscribeRequest) error
	Delete(reader *models.User, id uuid.UUID) error
	List(reader *models.User) ([]SubscriptionResponse, error)
}

// NotificationServiceInterface defines the interface for notification service
type NotificationServiceInterface interface {
	OnPublish(ctx context.Context, content models.Content) (int, error)
	List(recipient *models.User, unreadOnly bool, page, pageSize int) (*NotificationListResponse, error)
	MarkRead(recipient *models.User, id uuid.UUID) (*NotificationResponse, error)
}

// PublisherServiceInterface defines the interface for publisher service
type PublisherServiceInterface interface {
	GetAll(page, pageSize int) (*PublisherListResponse, error)
	GetByID(id uuid.UUID) (*PublisherResponse, error)
	Create(actor *models.User, req *CreatePublisherRequest) (*PublisherResponse, error)
	Update(actor *models.User, id uuid.UUID, req *UpdatePublisherRequest) (*PublisherResponse, error)
	Dashboard(ctx context.Context, owner *models.User) (*DashboardResponse, error)
	AddMember(owner *models.User, req *AddMemberRequest) (*UserResponse, error)
}

// CategoryServiceInterface defines the interface for category service
type CategoryServiceInterface interface {
	GetAll(page, pageSize int) (*CategoryListResponse, error)
}

// AccountServiceInterface defines the interface for registration, login and password resets
type AccountServiceInterface interface {
	Register(req *RegisterRequest) (*UserResponse, error)
	Authenticate(username, password string) (*models.User, error)
	GetUser(id uuid.UUID) (*models.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(token string, req *ResetPasswordRequest) error
}
