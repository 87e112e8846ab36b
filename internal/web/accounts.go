package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"

	"Yatube/internal/api/middleware"
	"Yatube/internal/core/users"
)

// SignupPageData holds data for the registration form
type SignupPageData struct {
	BasePageData
	Errors map[string]string
	Form   users.RegisterRequest
}

// LoginPageData holds data for the login form
type LoginPageData struct {
	BasePageData
	Errors   map[string]string
	Next     string
	Username string
}

// PasswordChangePageData holds data for the password change form
type PasswordChangePageData struct {
	BasePageData
	Errors map[string]string
}

// SignupHandler registers a new account and sends the visitor to the main page
// GET|POST /auth/signup/
func (h *Handlers) SignupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(w, r, "signup.html", SignupPageData{BasePageData: h.base(r, "Регистрация")})
		return
	}

	req := users.RegisterRequest{
		FirstName: strings.TrimSpace(r.PostFormValue("first_name")),
		LastName:  strings.TrimSpace(r.PostFormValue("last_name")),
		Username:  strings.TrimSpace(r.PostFormValue("username")),
		Email:     strings.TrimSpace(r.PostFormValue("email")),
		Password:  r.PostFormValue("password"),
	}

	if _, err := h.userService.Register(r.Context(), req); err != nil {
		errs := accountFormErrors(err)
		if errs == nil {
			h.handleServiceError(w, r, err)
			return
		}
		req.Password = ""
		h.render(w, r, "signup.html", SignupPageData{
			BasePageData: h.base(r, "Регистрация"),
			Errors:       errs,
			Form:         req,
		})
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// LoginHandler authenticates the visitor and follows the next parameter
// GET|POST /auth/login/
func (h *Handlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(w, r, "login.html", LoginPageData{
			BasePageData: h.base(r, "Войти"),
			Next:         r.URL.Query().Get("next"),
		})
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	next := r.PostFormValue("next")

	user, err := h.userService.Authenticate(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		if !errors.Is(err, users.ErrInvalidCredentials) {
			h.handleServiceError(w, r, err)
			return
		}
		h.render(w, r, "login.html", LoginPageData{
			BasePageData: h.base(r, "Войти"),
			Errors:       map[string]string{"form": "Введите правильные имя пользователя и пароль."},
			Next:         next,
			Username:     username,
		})
		return
	}

	if err := h.sessions.LogIn(w, r, user.ID); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	slog.Info("[AUTH] user logged in", "user_id", user.ID)
	http.Redirect(w, r, safeRedirect(next), http.StatusFound)
}

// LogoutHandler ends the session
// POST /auth/logout/
func (h *Handlers) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.LogOut(w, r); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.render(w, r, "logged_out.html", BasePageData{Title: "Вы вышли из системы"})
}

// PasswordChangeHandler replaces the current user's password
// GET|POST /auth/password_change/
func (h *Handlers) PasswordChangeHandler(w http.ResponseWriter, r *http.Request) {
	data := PasswordChangePageData{BasePageData: h.base(r, "Изменение пароля")}
	if r.Method != http.MethodPost {
		h.render(w, r, "password_change.html", data)
		return
	}

	err := h.userService.ChangePassword(r.Context(), data.User.ID,
		r.PostFormValue("old_password"), r.PostFormValue("new_password"))
	if err != nil {
		switch {
		case errors.Is(err, users.ErrInvalidCredentials):
			data.Errors = map[string]string{"form": "Старый пароль введён неправильно."}
		case users.IsValidationError(err):
			data.Errors = accountFormErrors(err)
		default:
			h.handleServiceError(w, r, err)
			return
		}
		h.render(w, r, "password_change.html", data)
		return
	}

	http.Redirect(w, r, "/auth/password_change/done/", http.StatusFound)
}

// PasswordChangeDoneHandler confirms a password change
// GET /auth/password_change/done/
func (h *Handlers) PasswordChangeDoneHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "password_change_done.html", h.base(r, "Пароль изменён"))
}

// ProfileFollowHandler subscribes the current user to an author
// POST /profile/{username}/follow/
func (h *Handlers) ProfileFollowHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	err := h.userService.Follow(r.Context(), middleware.GetUser(r).ID, username)
	if err != nil && !errors.Is(err, users.ErrCannotFollowSelf) {
		h.handleServiceError(w, r, err)
		return
	}
	http.Redirect(w, r, profileURL(username), http.StatusFound)
}

// ProfileUnfollowHandler removes a subscription
// POST /profile/{username}/unfollow/
func (h *Handlers) ProfileUnfollowHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if err := h.userService.Unfollow(r.Context(), middleware.GetUser(r).ID, username); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	http.Redirect(w, r, profileURL(username), http.StatusFound)
}

// accountFormErrors turns a users validation error or a taken username into field messages
func accountFormErrors(err error) map[string]string {
	if errors.Is(err, users.ErrUsernameTaken) {
		return map[string]string{"username": "Пользователь с таким именем уже существует."}
	}
	var valErr *users.ValidationError
	if errors.As(err, &valErr) {
		return map[string]string{valErr.Field: valErr.Message}
	}
	return nil
}

// safeRedirect only allows local paths; anything else falls back to the main page.
// Browsers drop tabs and newlines while parsing a URL, so "/\t/host" would turn into "//host".
func safeRedirect(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	if strings.IndexFunc(next, unicode.IsControl) >= 0 {
		return "/"
	}
	return next
}
