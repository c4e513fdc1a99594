package repository

import (
	"burst-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArticleRepository handles database operations for articles
type ArticleRepository struct {
	db *gorm.DB
}

// Ensure ArticleRepository implements ArticleRepositoryInterface
var _ ArticleRepositoryInterface = (*ArticleRepository)(nil)

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) withRelations() *gorm.DB {
	return r.db.Preload("Author").Preload("Publisher").Preload("Category")
}

// Create creates a new article
func (r *ArticleRepository) Create(article *models.Article) error {
	return r.db.Omit("Author", "Publisher", "Category").Create(article).Error
}

// GetByID retrieves an article with its author, publisher and category
func (r *ArticleRepository) GetByID(id uuid.UUID) (*models.Article, error) {
	var article models.Article
	if err := r.withRelations().First(&article, "articles.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// List returns one page of articles matching filter, newest first, and the total match count
func (r *ArticleRepository) List(filter ArticleFilter) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	// gorm statements are mutable once chained, so count and fetch each get a fresh query
	build := func() *gorm.DB {
		query := applyContentFilter(r.db.Model(&models.Article{}), "articles", filter.ContentFilter)
		if filter.CategoryName != "" {
			query = query.Where("articles.category_id IN (SELECT id FROM categories WHERE name = ?)", filter.CategoryName)
		}
		if filter.PublisherName != "" {
			query = query.Where("articles.publisher_id IN (SELECT id FROM publishers WHERE LOWER(name) = LOWER(?))", filter.PublisherName)
		}
		return query
	}

	if err := build().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := build().Preload("Author").Preload("Publisher").Preload("Category").
		Order("articles.created_at DESC").
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&articles).Error
	if err != nil {
		return nil, 0, err
	}

	return articles, total, nil
}

// ListPublished returns the latest published articles
func (r *ArticleRepository) ListPublished(limit int) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.Preload("Author").
		Where("status = ?", models.StatusPublished).
		Order("created_at DESC").
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// LatestByPublisher returns a publisher's most recent articles in any state
func (r *ArticleRepository) LatestByPublisher(publisherID uuid.UUID, limit int) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.Preload("Author").
		Where("publisher_id = ?", publisherID).
		Order("created_at DESC").
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// CountByPublisher counts a publisher's articles
func (r *ArticleRepository) CountByPublisher(publisherID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Article{}).Where("publisher_id = ?", publisherID).Count(&count).Error
	return count, err
}

// Update saves article if nobody changed it since expectedVersion was read
func (r *ArticleRepository) Update(article *models.Article, expectedVersion int) error {
	return updateVersioned(r.db, article, article.ID, expectedVersion)
}

// Delete deletes an article
func (r *ArticleRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Article{}, "id = ?", id).Error
}
