// Package feed serves the paginated post feeds as JSON.
package feed

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Yatube/internal/api/middleware"
	"Yatube/internal/core/feedcache"
	"Yatube/internal/core/groups"
	"Yatube/internal/core/pagination"
	"Yatube/internal/core/posts"
)

// globalCacheView namespaces JSON global feed entries in the feed cache
const globalCacheView = "api.posts"

// Response is one feed page
type Response struct {
	Group       *groups.Group     `json:"group,omitempty"`
	Author      *posts.AuthorView `json:"author,omitempty"`
	PostCount   *int              `json:"postCount,omitempty"`
	Feed        []*posts.PostView `json:"feed"`
	Page        int               `json:"page"`
	PageSize    int               `json:"pageSize"`
	NumPages    int               `json:"numPages"`
	TotalItems  int               `json:"totalItems"`
	HasPrevious bool              `json:"hasPrevious"`
	HasNext     bool              `json:"hasNext"`
}

func newResponse(page *pagination.Page[*posts.PostView]) *Response {
	return &Response{
		Feed:        page.Items,
		Page:        page.Number,
		PageSize:    page.PageSize,
		NumPages:    page.NumPages,
		TotalItems:  page.TotalItems,
		HasPrevious: page.HasPrevious,
		HasNext:     page.HasNext,
	}
}

// Handler serves the global, group, profile and follow feeds
type Handler struct {
	service posts.Service
	cache   *feedcache.Cache
}

// NewHandler creates a feed handler. cache may be nil to disable caching.
func NewHandler(service posts.Service, cache *feedcache.Cache) *Handler {
	return &Handler{
		service: service,
		cache:   cache,
	}
}

// HandleGlobal returns a page of all posts. Anonymous responses go through the feed cache.
// GET /api/v1/posts?page=N
func (h *Handler) HandleGlobal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cacheable := h.cache != nil && middleware.GetUser(r) == nil
	key := feedcache.Key(globalCacheView, r)

	if cacheable {
		if body, ok := h.cache.Get(ctx, key); ok {
			w.Header().Set("X-Cache", "HIT")
			writeBody(w, body)
			return
		}
	}

	page, err := h.service.GlobalFeed(ctx, r.URL.Query().Get("page"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	body, err := json.Marshal(newResponse(page))
	if err != nil {
		slog.Error("[FEED-API] failed to encode feed", "error", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError", "An error occurred while fetching the feed")
		return
	}

	if cacheable {
		h.cache.Put(ctx, key, body)
		w.Header().Set("X-Cache", "MISS")
	} else {
		w.Header().Set("X-Cache", "BYPASS")
	}
	writeBody(w, body)
}

// HandleGroup returns a page of the posts in one group
// GET /api/v1/groups/{slug}/posts?page=N
func (h *Handler) HandleGroup(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GroupFeed(r.Context(), chi.URLParam(r, "slug"), r.URL.Query().Get("page"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := newResponse(result.Page)
	resp.Group = result.Group
	writeJSON(w, resp)
}

// HandleProfile returns a page of one author's posts
// GET /api/v1/profiles/{username}/posts?page=N
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.AuthorFeed(r.Context(), chi.URLParam(r, "username"), r.URL.Query().Get("page"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := newResponse(result.Page)
	resp.Author = &posts.AuthorView{
		ID:        result.Author.ID,
		Username:  result.Author.Username,
		FirstName: result.Author.FirstName,
		LastName:  result.Author.LastName,
	}
	resp.PostCount = &result.PostCount
	writeJSON(w, resp)
}

// HandleFollow returns a page of posts by the authors the caller follows.
// Requires RequireAPIUser in front of it.
// GET /api/v1/follow?page=N
func (h *Handler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "AuthenticationRequired", "Login required")
		return
	}

	page, err := h.service.FollowFeed(r.Context(), user.ID, r.URL.Query().Get("page"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, newResponse(page))
}

func writeJSON(w http.ResponseWriter, resp *Response) {
	body, err := json.Marshal(resp)
	if err != nil {
		slog.Error("[FEED-API] failed to encode feed", "error", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError", "An error occurred while fetching the feed")
		return
	}
	writeBody(w, body)
}

func writeBody(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Error("[FEED-API] failed to write response", "error", err)
	}
}
