package repository

import (
	"strings"

	"burst-backend/internal/access"
	"burst-backend/internal/database/models"
	apperrors "burst-backend/internal/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContentFilter narrows a content listing. Scope is always applied, so a listing can
// never return unpublished items outside the caller's visibility.
type ContentFilter struct {
	Scope        access.Scope
	Status       models.ContentStatus
	AuthorID     *uuid.UUID
	PublisherID  *uuid.UUID
	Query        string
	SubscriberID *uuid.UUID // only content from publishers or journalists this reader follows
	Limit        int
	Offset       int
}

// ArticleFilter adds article-only filters
type ArticleFilter struct {
	ContentFilter
	CategoryName  string
	PublisherName string
}

// applyScope restricts the query to published rows plus the rows the scope opens up
func applyScope(db *gorm.DB, table string, scope access.Scope) *gorm.DB {
	published := models.StatusPublished
	switch {
	case scope.AuthorID != nil && scope.PublisherID != nil:
		return db.Where(table+".status = ? OR "+table+".author_id = ? OR "+table+".publisher_id = ?",
			published, *scope.AuthorID, *scope.PublisherID)
	case scope.AuthorID != nil:
		return db.Where(table+".status = ? OR "+table+".author_id = ?", published, *scope.AuthorID)
	case scope.PublisherID != nil:
		return db.Where(table+".status = ? OR "+table+".publisher_id = ?", published, *scope.PublisherID)
	default:
		return db.Where(table+".status = ?", published)
	}
}

// applyContentFilter adds every ContentFilter condition except pagination
func applyContentFilter(db *gorm.DB, table string, f ContentFilter) *gorm.DB {
	db = applyScope(db, table, f.Scope)
	if f.Status != "" {
		db = db.Where(table+".status = ?", f.Status)
	}
	if f.AuthorID != nil {
		db = db.Where(table+".author_id = ?", *f.AuthorID)
	}
	if f.PublisherID != nil {
		db = db.Where(table+".publisher_id = ?", *f.PublisherID)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		db = db.Where(table+".title ILIKE ? OR "+table+".body ILIKE ?", pattern, pattern)
	}
	if f.SubscriberID != nil {
		db = db.Where(table+".publisher_id IN (SELECT publisher_id FROM subscriptions WHERE reader_id = ? AND publisher_id IS NOT NULL) OR "+
			table+".author_id IN (SELECT journalist_id FROM subscriptions WHERE reader_id = ? AND journalist_id IS NOT NULL)",
			*f.SubscriberID, *f.SubscriberID)
	}
	return db
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// updateVersioned writes every column of model when the stored version still equals
// expectedVersion. A missing row or a stale version yields ErrConcurrentUpdate.
func updateVersioned(db *gorm.DB, model interface{}, id uuid.UUID, expectedVersion int) error {
	result := db.Model(model).
		Where("id = ? AND version = ?", id, expectedVersion).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrConcurrentUpdate
	}
	return nil
}
