package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"burst-backend/internal/config"
	"burst-backend/internal/database/models"
	apperrors "burst-backend/internal/errors"
	"burst-backend/internal/logger"
	"burst-backend/internal/notify"
	"burst-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AccountService handles registration, authentication and password resets
type AccountService struct {
	users      repository.UserRepositoryInterface
	publishers repository.PublisherRepositoryInterface
	tokens     repository.PasswordResetTokenRepositoryInterface
	dispatcher notify.Dispatcher
	cfg        *config.Config
	validator  *validator.Validate
	now        func() time.Time
}

// Ensure AccountService implements AccountServiceInterface
var _ AccountServiceInterface = (*AccountService)(nil)

// NewAccountService creates a new account service
func NewAccountService(
	users repository.UserRepositoryInterface,
	publishers repository.PublisherRepositoryInterface,
	tokens repository.PasswordResetTokenRepositoryInterface,
	dispatcher notify.Dispatcher,
	cfg *config.Config,
	validator *validator.Validate,
) *AccountService {
	return &AccountService{
		users:      users,
		publishers: publishers,
		tokens:     tokens,
		dispatcher: dispatcher,
		cfg:        cfg,
		validator:  validator,
		now:        time.Now,
	}
}

// RegisterRequest represents a sign-up. Publisher accounts name a new publishing house,
// editors must pick an existing publisher, journalists may pick one.
type RegisterRequest struct {
	Username        string     `json:"username" form:"username" validate:"required,min=3,max=150"`
	Email           string     `json:"email" form:"email" validate:"required,email,max=254"`
	FirstName       string     `json:"first_name" form:"first_name" validate:"max=150"`
	LastName        string     `json:"last_name" form:"last_name" validate:"max=150"`
	Password        string     `json:"password" form:"password" validate:"required,min=8,max=128"`
	PasswordConfirm string     `json:"password_confirm" form:"password_confirm" validate:"required,eqfield=Password"`
	Role            string     `json:"role" form:"role" validate:"required,oneof=reader journalist editor publisher"`
	PublisherName   string     `json:"publisher_name" form:"publisher_name" validate:"required_if=Role publisher,max=200"`
	PublisherID     *uuid.UUID `json:"publisher_id,omitempty" form:"publisher_id" validate:"required_if=Role editor"`
}

// ResetPasswordRequest carries the new password
type ResetPasswordRequest struct {
	Password        string `json:"password" form:"password" validate:"required,min=8,max=128"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"required,eqfield=Password"`
}

// Register creates an account. A publisher-role account also creates its publisher.
func (s *AccountService) Register(req *RegisterRequest) (*UserResponse, error) {
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	exists, err := s.users.ExistsByUsernameOrEmail(username, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, apperrors.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: string(hash),
		Role:         models.Role(req.Role),
		IsActive:     true,
	}

	switch user.Role {
	case models.RolePublisher:
		if err := s.registerPublisher(user, req.PublisherName); err != nil {
			return nil, err
		}
	case models.RoleEditor, models.RoleJournalist:
		if req.PublisherID != nil {
			publisher, err := s.publishers.GetByID(*req.PublisherID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, apperrors.NewValidationError("publisher_id", "unknown publisher")
				}
				return nil, fmt.Errorf("failed to get publisher: %w", err)
			}
			user.PublisherID = &publisher.ID
		}
		fallthrough
	default:
		if err := s.users.Create(user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperrors.ErrUserExists
			}
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	logger.New().WithFields(map[string]interface{}{
		"username": user.Username,
		"role":     string(user.Role),
	}).Info("User registered")

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *AccountService) registerPublisher(owner *models.User, name string) error {
	name = strings.TrimSpace(name)
	existing, err := s.publishers.GetByName(name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing publisher: %w", err)
	}
	if existing != nil {
		return apperrors.ErrPublisherExists
	}

	publisher := &models.Publisher{Name: name}
	if err := s.publishers.CreateWithOwner(publisher, owner); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewAlreadyExistsError("user or publisher", "with these details")
		}
		return fmt.Errorf("failed to create publisher: %w", err)
	}
	return nil
}

// Authenticate checks a username and password
func (s *AccountService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrInactiveAccount
	}
	return user, nil
}

// GetUser loads a user by ID
func (s *AccountService) GetUser(id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// RequestPasswordReset emails a single-use reset link. Unknown addresses and failed
// sends return nil so the caller cannot tell which accounts exist.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	log := logger.WithContext(ctx)

	user, err := s.users.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive {
		return nil
	}

	raw, err := newResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     raw,
		ExpiresAt: s.now().Add(models.PasswordResetTokenTTL),
	}
	if err := s.tokens.Create(token); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := s.cfg.AbsoluteURL("/reset-password/" + raw + "/")
	if err := s.dispatcher.Dispatch(ctx, notify.PasswordResetEmail(user.Email, user.Username, link)); err != nil {
		log.WithError(err).WithField("username", user.Username).Error("Failed to send password reset email")
	}
	return nil
}

// ResetPassword sets a new password using a reset token. Tokens are single use.
func (s *AccountService) ResetPassword(token string, req *ResetPasswordRequest) error {
	if err := validateStruct(s.validator, req); err != nil {
		return err
	}

	t, err := s.tokens.GetByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPasswordResetTokenNotFound
		}
		return fmt.Errorf("failed to get reset token: %w", err)
	}
	if t.Used {
		return apperrors.ErrResetTokenUsed
	}
	if !t.IsValid(s.now()) {
		return apperrors.ErrResetTokenExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := t.User
	if user == nil {
		if user, err = s.users.GetByID(t.UserID); err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
	}
	user.PasswordHash = string(hash)
	if err := s.users.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.tokens.MarkUsed(t.ID); err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}
	return nil
}

// newResetToken returns 32 random bytes, URL-safe base64 encoded
func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
