package repository

import (
	"strings"

	"burst-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PublisherRepository handles database operations for publishers
type PublisherRepository struct {
	db *gorm.DB
}

// Ensure PublisherRepository implements PublisherRepositoryInterface
var _ PublisherRepositoryInterface = (*PublisherRepository)(nil)

// NewPublisherRepository creates a new publisher repository
func NewPublisherRepository(db *gorm.DB) *PublisherRepository {
	return &PublisherRepository{db: db}
}

// Create creates a new publisher
func (r *PublisherRepository) Create(publisher *models.Publisher) error {
	return r.db.Omit("Members").Create(publisher).Error
}

// CreateWithOwner creates the owner account and its publisher in one transaction
// and attaches the owner as a member of the new publisher.
func (r *PublisherRepository) CreateWithOwner(publisher *models.Publisher, owner *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Publisher").Create(owner).Error; err != nil {
			return err
		}
		publisher.OwnerID = &owner.ID
		if err := tx.Omit("Members").Create(publisher).Error; err != nil {
			return err
		}
		owner.PublisherID = &publisher.ID
		return tx.Model(owner).Update("publisher_id", publisher.ID).Error
	})
}

// GetByID retrieves a publisher by ID
func (r *PublisherRepository) GetByID(id uuid.UUID) (*models.Publisher, error) {
	var publisher models.Publisher
	err := r.db.First(&publisher, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &publisher, nil
}

// GetByName retrieves a publisher by name, ignoring case
func (r *PublisherRepository) GetByName(name string) (*models.Publisher, error) {
	var publisher models.Publisher
	err := r.db.First(&publisher, "LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).Error
	if err != nil {
		return nil, err
	}
	return &publisher, nil
}

// GetAll retrieves all publishers with pagination
func (r *PublisherRepository) GetAll(limit, offset int) ([]models.Publisher, int64, error) {
	var publishers []models.Publisher
	var total int64

	// Get total count
	if err := r.db.Model(&models.Publisher{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Get paginated results
	err := r.db.Order("name ASC").Limit(limit).Offset(offset).Find(&publishers).Error
	if err != nil {
		return nil, 0, err
	}

	return publishers, total, nil
}

// GetWithMembers retrieves a publisher with its editors and journalists
func (r *PublisherRepository) GetWithMembers(id uuid.UUID) (*models.Publisher, error) {
	var publisher models.Publisher
	err := r.db.Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("username ASC")
	}).First(&publisher, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &publisher, nil
}

// Update updates a publisher
func (r *PublisherRepository) Update(publisher *models.Publisher) error {
	return r.db.Omit("Members").Save(publisher).Error
}
