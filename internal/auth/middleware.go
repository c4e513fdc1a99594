package auth

import (
	"net/http"
	"strings"

	"burst-backend/internal/database/models"
	"burst-backend/internal/logger"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const actorKey = "actor"

// UserLoader resolves the user behind a token or session
type UserLoader interface {
	GetUser(id uuid.UUID) (*models.User, error)
}

// AuthMiddleware authenticates API requests by bearer token and web requests by session
type AuthMiddleware struct {
	tokens   *TokenService
	users    UserLoader
	sessions *scs.SessionManager
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokens *TokenService, users UserLoader, sessions *scs.SessionManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, sessions: sessions}
}

// RequireAuth rejects API requests without a valid bearer token
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authorization header is required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			unauthorized(c, "Invalid authorization header format")
			return
		}

		user, ok := m.userFromToken(tokenString)
		if !ok {
			unauthorized(c, "Invalid or expired token")
			return
		}

		setActor(c, user)
		c.Next()
	}
}

// OptionalAuth sets the actor when a valid bearer token is present and continues anonymously otherwise
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString != "" && tokenString != c.GetHeader("Authorization") {
			if user, ok := m.userFromToken(tokenString); ok {
				setActor(c, user)
			}
		}
		c.Next()
	}
}

// SessionAuth sets the actor from the web session. It requires the session manager's LoadAndSave around the router.
func (m *AuthMiddleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if id, ok := SessionUserID(ctx, m.sessions); ok {
			user, err := m.users.GetUser(id)
			if err == nil && user.IsActive {
				setActor(c, user)
			} else {
				// stale session: the account is gone or disabled
				m.sessions.Remove(ctx, sessionUserKey)
			}
		}
		c.Next()
	}
}

// RequireLogin redirects anonymous web visitors to the login page
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, "/login/?next="+c.Request.URL.Path)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) userFromToken(tokenString string) (*models.User, bool) {
	claims, err := m.tokens.Validate(tokenString)
	if err != nil {
		return nil, false
	}
	id, err := claims.ID()
	if err != nil {
		return nil, false
	}
	user, err := m.users.GetUser(id)
	if err != nil || !user.IsActive {
		return nil, false
	}
	return user, true
}

func setActor(c *gin.Context, user *models.User) {
	c.Set(actorKey, user)
	c.Request = c.Request.WithContext(logger.WithActor(c.Request.Context(), user.Username))
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message, "code": "authentication_failed"})
}

// SetActor stores user as the request's actor. Handler tests use it in place of the middleware.
func SetActor(c *gin.Context, user *models.User) {
	setActor(c, user)
}

// CurrentUser returns the authenticated user, or nil for anonymous requests
func CurrentUser(c *gin.Context) *models.User {
	v, exists := c.Get(actorKey)
	if !exists {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
