package repository

import (
	"burst-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewsletterRepository handles database operations for newsletters
type NewsletterRepository struct {
	db *gorm.DB
}

// Ensure NewsletterRepository implements NewsletterRepositoryInterface
var _ NewsletterRepositoryInterface = (*NewsletterRepository)(nil)

// NewNewsletterRepository creates a new newsletter repository
func NewNewsletterRepository(db *gorm.DB) *NewsletterRepository {
	return &NewsletterRepository{db: db}
}

// Create creates a new newsletter
func (r *NewsletterRepository) Create(newsletter *models.Newsletter) error {
	return r.db.Omit("Author", "Publisher").Create(newsletter).Error
}

// GetByID retrieves a newsletter with its author and publisher
func (r *NewsletterRepository) GetByID(id uuid.UUID) (*models.Newsletter, error) {
	var newsletter models.Newsletter
	err := r.db.Preload("Author").Preload("Publisher").First(&newsletter, "newsletters.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &newsletter, nil
}

// List returns one page of newsletters matching filter, newest first, and the total match count
func (r *NewsletterRepository) List(filter ContentFilter) ([]models.Newsletter, int64, error) {
	var newsletters []models.Newsletter
	var total int64

	build := func() *gorm.DB {
		return applyContentFilter(r.db.Model(&models.Newsletter{}), "newsletters", filter)
	}

	if err := build().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := build().Preload("Author").Preload("Publisher").
		Order("newsletters.created_at DESC").
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&newsletters).Error
	if err != nil {
		return nil, 0, err
	}

	return newsletters, total, nil
}

// LatestByPublisher returns a publisher's most recent newsletters in any state
func (r *NewsletterRepository) LatestByPublisher(publisherID uuid.UUID, limit int) ([]models.Newsletter, error) {
	var newsletters []models.Newsletter
	err := r.db.Preload("Author").
		Where("publisher_id = ?", publisherID).
		Order("created_at DESC").
		Limit(limit).
		Find(&newsletters).Error
	if err != nil {
		return nil, err
	}
	return newsletters, nil
}

// CountByPublisher counts a publisher's newsletters
func (r *NewsletterRepository) CountByPublisher(publisherID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Newsletter{}).Where("publisher_id = ?", publisherID).Count(&count).Error
	return count, err
}

// Update saves newsletter if nobody changed it since expectedVersion was read
func (r *NewsletterRepository) Update(newsletter *models.Newsletter, expectedVersion int) error {
	return updateVersioned(r.db, newsletter, newsletter.ID, expectedVersion)
}

// Delete deletes a newsletter
func (r *NewsletterRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Newsletter{}, "id = ?", id).Error
}
