package repository

import (
	"time"

	"burst-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db *gorm.DB
}

// Ensure NotificationRepository implements NotificationRepositoryInterface
var _ NotificationRepositoryInterface = (*NotificationRepository)(nil)

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create creates a new notification
func (r *NotificationRepository) Create(notification *models.Notification) error {
	return r.db.Omit("Recipient").Create(notification).Error
}

// GetByID retrieves a notification by ID
func (r *NotificationRepository) GetByID(id uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.First(&notification, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// ListByRecipient returns a page of a user's notifications, newest first
func (r *NotificationRepository) ListByRecipient(recipientID uuid.UUID, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	build := func() *gorm.DB {
		query := r.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID)
		if unreadOnly {
			query = query.Where("read_at IS NULL")
		}
		return query
	}

	if err := build().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := build().Order("created_at DESC").Limit(limit).Offset(offset).Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// MarkRead sets read_at unless it is already set
func (r *NotificationRepository) MarkRead(id uuid.UUID, at time.Time) error {
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", at).Error
}

// DeleteReadBefore removes notifications read before cutoff
func (r *NotificationRepository) DeleteReadBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("read_at IS NOT NULL AND read_at < ?", cutoff).Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
