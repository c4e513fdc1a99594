package auth

import (
	"errors"
	"net/http"
	"time"

	"burst-backend/internal/database/models"
	apperrors "burst-backend/internal/errors"
	"burst-backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Authenticator checks a username and password
type Authenticator interface {
	Authenticate(username, password string) (*models.User, error)
}

// TokenRequest represents the credentials exchanged for an API token
type TokenRequest struct {
	Username string `json:"username" binding:"required" example:"lois"`
	Password string `json:"password" binding:"required" example:"superman123"`
}

// TokenResponse represents an issued API token
type TokenResponse struct {
	Token     string    `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType string    `json:"token_type" example:"Bearer"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username" example:"lois"`
	Role      string    `json:"role" example:"journalist"`
}

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	accounts Authenticator
	tokens   *TokenService
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(accounts Authenticator, tokens *TokenService) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens}
}

// Token handles POST /api/auth/token/
// @Summary Obtain an API token
// @Description Exchange a username and password for a bearer token
// @Tags authentication
// @Accept json
// @Produce json
// @Param credentials body TokenRequest true "Username and password"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} map[string]interface{} "Missing credentials"
// @Failure 401 {object} map[string]interface{} "Invalid credentials or disabled account"
// @Router /api/auth/token/ [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		msg := "Invalid request body"
		if errors.As(err, &verrs) {
			msg = "username and password are required"
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": "validation_error"})
		return
	}

	user, err := h.accounts.Authenticate(req.Username, req.Password)
	if err != nil {
		if apperrors.IsAuthentication(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "code": "authentication_failed"})
			return
		}
		logger.WithContext(c.Request.Context()).WithError(err).Error("Token authentication failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "internal_error"})
		return
	}

	token, expires, err := h.tokens.Issue(user)
	if err != nil {
		logger.WithContext(c.Request.Context()).WithError(err).Error("Failed to issue token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "internal_error"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expires,
		UserID:    user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
	})
}
