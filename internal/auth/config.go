package auth

import (
	"time"

	"burst-backend/internal/config"
	apperrors "burst-backend/internal/errors"
)

const (
	defaultIssuer   = "burst"
	defaultTokenTTL = 24 * time.Hour
	sessionLifetime = 14 * 24 * time.Hour
	sessionIdle     = 2 * 24 * time.Hour
	sessionCookie   = "burst_session"
)

// AuthConfig holds the settings for API tokens and web sessions
type AuthConfig struct {
	Secret        string
	Issuer        string
	TokenTTL      time.Duration
	SecureCookies bool
}

// NewAuthConfig derives the auth settings from the application config
func NewAuthConfig(cfg *config.Config) *AuthConfig {
	return &AuthConfig{
		Secret:        cfg.SecretKey,
		Issuer:        defaultIssuer,
		TokenTTL:      defaultTokenTTL,
		SecureCookies: cfg.HTTPProtocol == "https",
	}
}

// ValidateConfig validates the auth configuration
func (c *AuthConfig) ValidateConfig() error {
	if c.Secret == "" {
		return apperrors.NewConfigurationError("secret key is required")
	}
	if c.TokenTTL <= 0 {
		return apperrors.NewConfigurationError("token lifetime must be positive")
	}
	return nil
}
