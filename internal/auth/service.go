package auth

import (
	"fmt"
	"time"

	"burst-backend/internal/database/models"
	apperrors "burst-backend/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthClaims represents JWT token claims
type AuthClaims struct {
	UserID               string `json:"user_id" example:"3f1c7a52-8a0e-4b8e-9c1d-0b5e8f0a2c11"`
	Username             string `json:"username" example:"lois"`
	Role                 string `json:"role" example:"journalist"`
	jwt.RegisteredClaims `swaggerignore:"true"`
}

// TokenService issues and validates API tokens
type TokenService struct {
	config *AuthConfig
	now    func() time.Time
}

// NewTokenService creates a new token service
func NewTokenService(config *AuthConfig) (*TokenService, error) {
	if err := config.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("invalid auth config: %w", err)
	}
	return &TokenService{config: config, now: time.Now}, nil
}

// Issue signs a token for user and returns it with its expiry
func (s *TokenService) Issue(user *models.User) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(s.config.TokenTTL)

	claims := &AuthClaims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// Validate parses a token and returns its claims
func (s *TokenService) Validate(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	},
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// ID returns the user ID carried by the claims
func (c *AuthClaims) ID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return uuid.Nil, apperrors.ErrInvalidToken
	}
	return id, nil
}
