package repository

import (
	"time"

	"burst-backend/internal/database/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/repository_mocks.go -package=mocks

// UserRepositoryInterface defines the interface for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByPublisherID(publisherID uuid.UUID) ([]models.User, error)
	ExistsByUsernameOrEmail(username, email string) (bool, error)
	Update(user *models.User) error
}

// PublisherRepositoryInterface defines the interface for publisher repository operations
type PublisherRepositoryInterface interface {
	Create(publisher *models.Publisher) error
	CreateWithOwner(publisher *models.Publisher, owner *models.User) error
	GetByID(id uuid.UUID) (*models.Publisher, error)
	GetByName(name string) (*models.Publisher, error)
	GetAll(limit, offset int) ([]models.Publisher, int64, error)
	GetWithMembers(id uuid.UUID) (*models.Publisher, error)
	Update(publisher *models.Publisher) error
}

// CategoryRepositoryInterface defines the interface for category repository operations
type CategoryRepositoryInterface interface {
	GetAll(limit, offset int) ([]models.Category, int64, error)
	GetByID(id uuid.UUID) (*models.Category, error)
	GetByName(name string) (*models.Category, error)
}

// ArticleRepositoryInterface defines the interface for article repository operations
type ArticleRepositoryInterface interface {
	Create(article *models.Article) error
	GetByID(id uuid.UUID) (*models.Article, error)
	List(filter ArticleFilter) ([]models.Article, int64, error)
	ListPublished(limit int) ([]models.Article, error)
	LatestByPublisher(publisherID uuid.UUID, limit int) ([]models.Article, error)
	CountByPublisher(publisherID uuid.UUID) (int64, error)
	Update(article *models.Article, expectedVersion int) error
	Delete(id uuid.UUID) error
}

// NewsletterRepositoryInterface defines the interface for newsletter repository operations
type NewsletterRepositoryInterface interface {
	Create(newsletter *models.Newsletter) error
	GetByID(id uuid.UUID) (*models.Newsletter, error)
	List(filter ContentFilter) ([]models.Newsletter, int64, error)
	LatestByPublisher(publisherID uuid.UUID, limit int) ([]models.Newsletter, error)
	CountByPublisher(publisherID uuid.UUID) (int64, error)
	Update(newsletter *models.Newsletter, expectedVersion int) error
	Delete(id uuid.UUID) error
}

// SubscriptionRepositoryInterface defines the interface for subscription repository operations
type SubscriptionRepositoryInterface interface {
	Create(subscription *models.Subscription) error
	GetByID(id uuid.UUID) (*models.Subscription, error)
	FindByReaderAndPublisher(readerID, publisherID uuid.UUID) (*models.Subscription, error)
	FindByReaderAndJournalist(readerID, journalistID uuid.UUID) (*models.Subscription, error)
	ListByReader(readerID uuid.UUID) ([]models.Subscription, error)
	SubscribersOf(publisherID, journalistID uuid.UUID) ([]models.User, error)
	CountByPublisher(publisherID uuid.UUID) (int64, error)
	Delete(id uuid.UUID) error
}

// NotificationRepositoryInterface defines the interface for notification repository operations
type NotificationRepositoryInterface interface {
	Create(notification *models.Notification) error
	GetByID(id uuid.UUID) (*models.Notification, error)
	ListByRecipient(recipientID uuid.UUID, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error)
	MarkRead(id uuid.UUID, at time.Time) error
	DeleteReadBefore(cutoff time.Time) (int64, error)
}

// PasswordResetTokenRepositoryInterface defines the interface for password reset token operations
type PasswordResetTokenRepositoryInterface interface {
	Create(token *models.PasswordResetToken) error
	GetByToken(token string) (*models.PasswordResetToken, error)
	MarkUsed(id uuid.UUID) error
	DeleteExpired(now time.Time) (int64, error)
}
