package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"Yatube/internal/api/middleware"
	"Yatube/internal/core/comments"
	"Yatube/internal/core/feedcache"
	"Yatube/internal/core/groups"
	"Yatube/internal/core/posts"
	"Yatube/internal/core/users"
)

// Handlers provides HTTP handlers for the Yatube web interface.
type Handlers struct {
	templates      *Templates
	postService    posts.Service
	groupService   groups.Service
	userService    users.UserService
	commentService comments.Service
	sessions       *middleware.SessionManager
	feedCache      *feedcache.Cache
}

// NewHandlers creates a new Handlers instance with the provided dependencies.
func NewHandlers(
	templates *Templates,
	postService posts.Service,
	groupService groups.Service,
	userService users.UserService,
	commentService comments.Service,
	sessions *middleware.SessionManager,
	feedCache *feedcache.Cache,
) *Handlers {
	return &Handlers{
		templates:      templates,
		postService:    postService,
		groupService:   groupService,
		userService:    userService,
		commentService: commentService,
		sessions:       sessions,
		feedCache:      feedCache,
	}
}

// BasePageData is shared by every page: the title and the logged-in user (nil for anonymous)
type BasePageData struct {
	User  *users.User
	Title string
}

func (h *Handlers) base(r *http.Request, title string) BasePageData {
	return BasePageData{
		User:  middleware.GetUser(r),
		Title: title,
	}
}

// NotFoundPageData holds data for the 404 page
type NotFoundPageData struct {
	BasePageData
	Path string
}

// NotFoundHandler renders the 404 page
func (h *Handlers) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	data := NotFoundPageData{
		BasePageData: h.base(r, "Страница не найдена"),
		Path:         r.URL.Path,
	}
	if err := h.templates.RenderStatus(w, http.StatusNotFound, "404.html", data); err != nil {
		slog.Error("failed to render 404 page", "error", err)
		http.NotFound(w, r)
	}
}

// render writes a 200 page, falling back to a plain 500 when the template fails
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	if err := h.templates.Render(w, name, data); err != nil {
		slog.Error("failed to render page",
			"template", name,
			"path", r.URL.Path,
			"error", err,
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// handleServiceError maps service errors to HTML responses
func (h *Handlers) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case posts.IsNotFound(err), groups.IsNotFound(err), users.IsNotFound(err), comments.IsNotFound(err):
		h.NotFoundHandler(w, r)
	case errors.Is(err, posts.ErrNotAuthor):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		slog.Error("web handler error",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// postIDParam parses the {id} route parameter. Malformed IDs are reported as ok=false.
func postIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func pageToken(r *http.Request) string {
	return r.URL.Query().Get("page")
}

func profileURL(username string) string {
	return "/profile/" + username + "/"
}

func postURL(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10) + "/"
}
