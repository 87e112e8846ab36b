package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"Yatube/internal/core/users"
)

// Context keys for storing user information
type contextKey string

const (
	UserKey contextKey = "user"
)

// LoginPath is where anonymous visitors are sent by RequireLogin
const LoginPath = "/auth/login/"

// UserLookup loads the user referenced by a session
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*users.User, error)
}

// SessionAuth resolves the session cookie into the current user
type SessionAuth struct {
	sessions *SessionManager
	users    UserLookup
}

// NewSessionAuth creates the session authentication middleware
func NewSessionAuth(sessions *SessionManager, users UserLookup) *SessionAuth {
	return &SessionAuth{
		sessions: sessions,
		users:    users,
	}
}

// LoadUser puts the logged-in user, if any, into the request context.
// It never rejects a request.
func (m *SessionAuth) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := m.sessions.UserID(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			// A session for a deleted account is treated as anonymous
			if !errors.Is(err, users.ErrUserNotFound) {
				slog.Error("[AUTH] failed to load session user",
					"user_id", userID,
					"error", err,
				)
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(SetUser(r.Context(), user)))
	})
}

// RequireLogin redirects anonymous visitors to the login page with a next parameter
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUser(r) == nil {
			http.Redirect(w, r, LoginRedirectURL(r), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAPIUser answers 401 JSON to anonymous API callers
func RequireAPIUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUser(r) == nil {
			slog.Info("[AUTH_FAILURE] anonymous api request",
				"ip", r.RemoteAddr,
				"method", r.Method,
				"path", r.URL.Path,
			)
			writeAuthError(w, "Login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoginRedirectURL returns /auth/login/?next=<current path and query>.
// Slashes in next are left unescaped.
func LoginRedirectURL(r *http.Request) string {
	next := r.URL.Path
	if r.URL.RawQuery != "" {
		next += "?" + r.URL.RawQuery
	}
	return LoginPath + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

// GetUser extracts the current user from the request context
// Returns nil if not authenticated
func GetUser(r *http.Request) *users.User {
	return UserFromContext(r.Context())
}

// UserFromContext extracts the current user from a context
func UserFromContext(ctx context.Context) *users.User {
	user, _ := ctx.Value(UserKey).(*users.User)
	return user
}

// SetUser returns a context carrying user.
// Handler tests use it to simulate a logged-in visitor.
func SetUser(ctx context.Context, user *users.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// writeAuthError writes a JSON error response for authentication failures
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	response := `{"error":"AuthenticationRequired","message":"` + message + `"}`
	if _, err := w.Write([]byte(response)); err != nil {
		slog.Error("[AUTH] failed to write auth error response", "error", err)
	}
}
