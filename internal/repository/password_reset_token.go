package repository

import (
	"time"

	"burst-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PasswordResetTokenRepository handles database operations for password reset tokens
type PasswordResetTokenRepository struct {
	db *gorm.DB
}

// Ensure PasswordResetTokenRepository implements PasswordResetTokenRepositoryInterface
var _ PasswordResetTokenRepositoryInterface = (*PasswordResetTokenRepository)(nil)

// NewPasswordResetTokenRepository creates a new password reset token repository
func NewPasswordResetTokenRepository(db *gorm.DB) *PasswordResetTokenRepository {
	return &PasswordResetTokenRepository{db: db}
}

// Create creates a new token
func (r *PasswordResetTokenRepository) Create(token *models.PasswordResetToken) error {
	return r.db.Omit("User").Create(token).Error
}

// GetByToken retrieves a token and its user
func (r *PasswordResetTokenRepository) GetByToken(token string) (*models.PasswordResetToken, error) {
	var t models.PasswordResetToken
	if err := r.db.Preload("User").First(&t, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// MarkUsed flags a token as consumed
func (r *PasswordResetTokenRepository) MarkUsed(id uuid.UUID) error {
	return r.db.Model(&models.PasswordResetToken{}).Where("id = ?", id).Update("used", true).Error
}

// DeleteExpired removes tokens that expired before now or were already used
func (r *PasswordResetTokenRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at < ? OR used = ?", now, true).Delete(&models.PasswordResetToken{})
	return result.RowsAffected, result.Error
}
