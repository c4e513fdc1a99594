package repository

import (
	"errors"
	"time"

	"burst-backend/internal/database/models"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionStore persists web sessions in the sessions table. It implements scs.Store.
type SessionStore struct {
	db *gorm.DB
}

var _ scs.Store = (*SessionStore)(nil)

// NewSessionStore creates a new session store
func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Find returns the data of an unexpired session
func (s *SessionStore) Find(token string) ([]byte, bool, error) {
	var session models.Session
	err := s.db.Where("token = ? AND expiry > ?", token, time.Now()).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return session.Data, true, nil
}

// Commit inserts or replaces a session
func (s *SessionStore) Commit(token string, b []byte, expiry time.Time) error {
	session := models.Session{Token: token, Data: b, Expiry: expiry}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expiry"}),
	}).Create(&session).Error
}

// Delete removes a session
func (s *SessionStore) Delete(token string) error {
	return s.db.Delete(&models.Session{}, "token = ?", token).Error
}

// DeleteExpired removes sessions whose expiry has passed
func (s *SessionStore) DeleteExpired(now time.Time) (int64, error) {
	result := s.db.Where("expiry < ?", now).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
