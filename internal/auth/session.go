package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
)

const (
	sessionUserKey  = "user_id"
	sessionFlashKey = "flash"
)

// NewSessionManager creates the web session manager backed by store
func NewSessionManager(store scs.Store, config *AuthConfig) *scs.SessionManager {
	sm := scs.New()
	sm.Store = store
	sm.Lifetime = sessionLifetime
	sm.IdleTimeout = sessionIdle
	sm.Cookie.Name = sessionCookie
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = config.SecureCookies
	return sm
}

// Login binds the session to userID. The token is renewed to prevent fixation.
func Login(ctx context.Context, sm *scs.SessionManager, userID uuid.UUID) error {
	if err := sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("failed to renew session: %w", err)
	}
	sm.Put(ctx, sessionUserKey, userID.String())
	return nil
}

// Logout destroys the session
func Logout(ctx context.Context, sm *scs.SessionManager) error {
	if err := sm.Destroy(ctx); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// SessionUserID returns the user bound to the session, if any
func SessionUserID(ctx context.Context, sm *scs.SessionManager) (uuid.UUID, bool) {
	raw := sm.GetString(ctx, sessionUserKey)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Flash stores a one-time message shown on the next page
func Flash(ctx context.Context, sm *scs.SessionManager, message string) {
	sm.Put(ctx, sessionFlashKey, message)
}

// PopFlash returns and clears the pending flash message
func PopFlash(ctx context.Context, sm *scs.SessionManager) string {
	return sm.PopString(ctx, sessionFlashKey)
}
