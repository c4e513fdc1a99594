package repository

import (
	"burst-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionRepository handles database operations for subscriptions
type SubscriptionRepository struct {
	db *gorm.DB
}

// Ensure SubscriptionRepository implements SubscriptionRepositoryInterface
var _ SubscriptionRepositoryInterface = (*SubscriptionRepository)(nil)

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create creates a new subscription
func (r *SubscriptionRepository) Create(subscription *models.Subscription) error {
	return r.db.Omit("Reader", "Publisher", "Journalist").Create(subscription).Error
}

// GetByID retrieves a subscription with its target
func (r *SubscriptionRepository) GetByID(id uuid.UUID) (*models.Subscription, error) {
	var subscription models.Subscription
	err := r.db.Preload("Publisher").Preload("Journalist").First(&subscription, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

// FindByReaderAndPublisher retrieves a reader's subscription to a publisher
func (r *SubscriptionRepository) FindByReaderAndPublisher(readerID, publisherID uuid.UUID) (*models.Subscription, error) {
	var subscription models.Subscription
	err := r.db.First(&subscription, "reader_id = ? AND publisher_id = ?", readerID, publisherID).Error
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

// FindByReaderAndJournalist retrieves a reader's subscription to a journalist
func (r *SubscriptionRepository) FindByReaderAndJournalist(readerID, journalistID uuid.UUID) (*models.Subscription, error) {
	var subscription models.Subscription
	err := r.db.First(&subscription, "reader_id = ? AND journalist_id = ?", readerID, journalistID).Error
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

// ListByReader returns a reader's subscriptions, newest first
func (r *SubscriptionRepository) ListByReader(readerID uuid.UUID) ([]models.Subscription, error) {
	var subscriptions []models.Subscription
	err := r.db.Preload("Publisher").Preload("Journalist").
		Where("reader_id = ?", readerID).
		Order("created_at DESC").
		Find(&subscriptions).Error
	if err != nil {
		return nil, err
	}
	return subscriptions, nil
}

// SubscribersOf returns the distinct active readers subscribed to the publisher or to the journalist.
// A reader following both appears once.
func (r *SubscriptionRepository) SubscribersOf(publisherID, journalistID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Where("is_active = ? AND id IN (?)", true,
			r.db.Model(&models.Subscription{}).
				Select("reader_id").
				Where("publisher_id = ? OR journalist_id = ?", publisherID, journalistID),
		).
		Order("username ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// CountByPublisher counts the readers subscribed to a publisher
func (r *SubscriptionRepository) CountByPublisher(publisherID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).Where("publisher_id = ?", publisherID).Count(&count).Error
	return count, err
}

// Delete deletes a subscription
func (r *SubscriptionRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Subscription{}, "id = ?", id).Error
}
