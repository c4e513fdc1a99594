package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"burst-backend/internal/config"
	"burst-backend/internal/database/models"
	apperrors "burst-backend/internal/errors"
	"burst-backend/internal/mocks"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testAuthConfig() *AuthConfig {
	return &AuthConfig{Secret: "test-signing-key", Issuer: "burst", TokenTTL: time.Hour}
}

func testUser() *models.User {
	return &models.User{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Username:  "lois",
		Role:      models.RoleJournalist,
		IsActive:  true,
	}
}

func TestAuthConfig(t *testing.T) {
	t.Run("derived from app config", func(t *testing.T) {
		cfg := NewAuthConfig(&config.Config{SecretKey: "s3cret", HTTPProtocol: "https"})
		assert.NoError(t, cfg.ValidateConfig())
		assert.True(t, cfg.SecureCookies)
		assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	})

	t.Run("missing secret", func(t *testing.T) {
		cfg := NewAuthConfig(&config.Config{})
		err := cfg.ValidateConfig()
		assert.True(t, apperrors.IsConfiguration(err))
	})
}

func TestTokenService(t *testing.T) {
	svc, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)
	user := testUser()

	t.Run("round trip", func(t *testing.T) {
		token, expires, err := svc.Issue(user)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

		claims, err := svc.Validate(token)
		require.NoError(t, err)
		id, err := claims.ID()
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)
		assert.Equal(t, "journalist", claims.Role)
	})

	t.Run("expired", func(t *testing.T) {
		token, _, err := svc.Issue(user)
		require.NoError(t, err)

		later := *svc
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err = later.Validate(token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewTokenService(&AuthConfig{Secret: "other-key", Issuer: "burst", TokenTTL: time.Hour})
		require.NoError(t, err)
		token, _, err := other.Issue(user)
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Validate("not-a-token")
		assert.Error(t, err)
	})
}

func TestRequireAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountServiceInterface(ctrl)
	tokens, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)
	m := NewAuthMiddleware(tokens, accounts, nil)

	user := testUser()
	token, _, err := tokens.Issue(user)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/private", m.RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).Username)
	})
	router.GET("/public", m.OptionalAuth(), func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, CurrentUser(c).Username)
	})

	tests := []struct {
		name       string
		path       string
		header     string
		setup      func()
		wantStatus int
		wantBody   string
	}{
		{name: "no header", path: "/private", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", path: "/private", header: "Token " + token, wantStatus: http.StatusUnauthorized},
		{
			name: "valid token", path: "/private", header: "Bearer " + token,
			setup:      func() { accounts.EXPECT().GetUser(user.ID).Return(user, nil) },
			wantStatus: http.StatusOK, wantBody: "lois",
		},
		{
			name: "disabled account", path: "/private", header: "Bearer " + token,
			setup: func() {
				disabled := *user
				disabled.IsActive = false
				accounts.EXPECT().GetUser(user.ID).Return(&disabled, nil)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{name: "optional without token", path: "/public", wantStatus: http.StatusOK, wantBody: "anonymous"},
		{name: "optional with bad token", path: "/public", header: "Bearer nope", wantStatus: http.StatusOK, wantBody: "anonymous"},
		{
			name: "optional with token", path: "/public", header: "Bearer " + token,
			setup:      func() { accounts.EXPECT().GetUser(user.ID).Return(user, nil) },
			wantStatus: http.StatusOK, wantBody: "lois",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestTokenHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountServiceInterface(ctrl)
	tokens, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)
	handler := NewAuthHandler(accounts, tokens)

	router := gin.New()
	router.POST("/api/auth/token/", handler.Token)

	post := func(body interface{}) *httptest.ResponseRecorder {
		data, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/token/", bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("issues token", func(t *testing.T) {
		user := testUser()
		accounts.EXPECT().Authenticate("lois", "superman123").Return(user, nil)

		w := post(TokenRequest{Username: "lois", Password: "superman123"})

		require.Equal(t, http.StatusOK, w.Code)
		var resp TokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Bearer", resp.TokenType)
		claims, err := tokens.Validate(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
	})

	t.Run("bad credentials", func(t *testing.T) {
		accounts.EXPECT().Authenticate("lois", "nope").Return(nil, apperrors.ErrInvalidCredentials)

		w := post(TokenRequest{Username: "lois", Password: "nope"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "authentication_failed")
	})

	t.Run("missing fields", func(t *testing.T) {
		w := post(map[string]string{"username": "lois"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSessionAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountServiceInterface(ctrl)
	sm := scs.New()
	sm.Store = memstore.New()
	m := NewAuthMiddleware(nil, accounts, sm)
	user := testUser()

	router := gin.New()
	router.POST("/login", func(c *gin.Context) {
		require.NoError(t, Login(c.Request.Context(), sm, user.ID))
		c.Status(http.StatusNoContent)
	})
	router.GET("/me", m.SessionAuth(), m.RequireLogin(), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).Username)
	})
	server := sm.LoadAndSave(router)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/?next=/me", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	accounts.EXPECT().GetUser(user.ID).Return(user, nil)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "lois", w.Body.String())
}
