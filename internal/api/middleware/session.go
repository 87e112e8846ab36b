package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	// SessionCookieName is the name of the signed session cookie
	SessionCookieName = "yatube_session"

	sessionUserIDKey = "user_id"
	sessionMaxAge    = 14 * 24 * 60 * 60
)

// SessionManager stores the logged-in user ID in a signed cookie
type SessionManager struct {
	store *sessions.CookieStore
}

// NewSessionManager creates a cookie session manager signed with secret
func NewSessionManager(secret []byte, secure bool) (*SessionManager, error) {
	if len(secret) == 0 {
		return nil, errors.New("session secret is required")
	}

	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &SessionManager{store: store}, nil
}

// LogIn starts a session for userID. A fresh session replaces any previous
// one so a pre-login cookie is never reused.
func (m *SessionManager) LogIn(w http.ResponseWriter, r *http.Request, userID int64) error {
	session, _ := m.store.Get(r, SessionCookieName)
	session.Values = map[interface{}]interface{}{sessionUserIDKey: userID}
	session.Options.MaxAge = sessionMaxAge
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// LogOut expires the session cookie
func (m *SessionManager) LogOut(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, SessionCookieName)
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// UserID returns the user ID stored in the request's session.
// Missing, tampered or expired cookies yield (0, false).
func (m *SessionManager) UserID(r *http.Request) (int64, bool) {
	session, err := m.store.Get(r, SessionCookieName)
	if err != nil {
		return 0, false
	}
	id, ok := session.Values[sessionUserIDKey].(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}
