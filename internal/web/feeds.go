package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Yatube/internal/core/feedcache"
	"Yatube/internal/core/groups"
	"Yatube/internal/core/pagination"
	"Yatube/internal/core/posts"
	"Yatube/internal/core/users"
)

// indexCacheView namespaces global feed entries in the feed cache
const indexCacheView = "index"

// FeedPageData holds data for the global and follow feeds
type FeedPageData struct {
	BasePageData
	Page *pagination.Page[*posts.PostView]
}

// GroupPageData holds data for a group feed
type GroupPageData struct {
	BasePageData
	Group *groups.Group
	Page  *pagination.Page[*posts.PostView]
}

// ProfilePageData holds data for an author's profile
type ProfilePageData struct {
	BasePageData
	Author    *users.User
	Page      *pagination.Page[*posts.PostView]
	PostCount int
	Following bool
	IsSelf    bool
}

// IndexHandler renders the global feed.
// Anonymous requests are served from the feed cache; a cached page stays
// unchanged for the whole TTL even if posts are added or deleted meanwhile.
// Logged-in visitors always get a fresh page because it carries their navigation.
func (h *Handlers) IndexHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := FeedPageData{BasePageData: h.base(r, "Последние обновления на сайте")}
	cacheable := data.User == nil
	key := feedcache.Key(indexCacheView, r)

	if cacheable {
		if body, ok := h.feedCache.Get(ctx, key); ok {
			w.Header().Set("X-Cache", "HIT")
			writeHTML(w, http.StatusOK, body)
			return
		}
	}

	page, err := h.postService.GlobalFeed(ctx, pageToken(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	data.Page = page

	body, err := h.templates.RenderBytes("index.html", data)
	if err != nil {
		slog.Error("failed to render index page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if cacheable {
		h.feedCache.Put(ctx, key, body)
		w.Header().Set("X-Cache", "MISS")
	} else {
		w.Header().Set("X-Cache", "BYPASS")
	}
	writeHTML(w, http.StatusOK, body)
}

// GroupHandler renders the feed of one group
// GET /group/{slug}/
func (h *Handlers) GroupHandler(w http.ResponseWriter, r *http.Request) {
	result, err := h.postService.GroupFeed(r.Context(), chi.URLParam(r, "slug"), pageToken(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.render(w, r, "group_list.html", GroupPageData{
		BasePageData: h.base(r, "Записи сообщества "+result.Group.Title),
		Group:        result.Group,
		Page:         result.Page,
	})
}

// ProfileHandler renders an author's posts with follow controls
// GET /profile/{username}/
func (h *Handlers) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := h.postService.AuthorFeed(ctx, chi.URLParam(r, "username"), pageToken(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	data := ProfilePageData{
		BasePageData: h.base(r, "Профайл пользователя "+result.Author.FullName()),
		Author:       result.Author,
		Page:         result.Page,
		PostCount:    result.PostCount,
	}

	if data.User != nil {
		data.IsSelf = data.User.ID == result.Author.ID
		following, err := h.userService.IsFollowing(ctx, data.User.ID, result.Author.ID)
		if err != nil {
			h.handleServiceError(w, r, err)
			return
		}
		data.Following = following
	}

	h.render(w, r, "profile.html", data)
}

// FollowFeedHandler renders posts by the authors the current user follows
// GET /follow/
func (h *Handlers) FollowFeedHandler(w http.ResponseWriter, r *http.Request) {
	data := FeedPageData{BasePageData: h.base(r, "Подписки")}

	page, err := h.postService.FollowFeed(r.Context(), data.User.ID, pageToken(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	data.Page = page

	h.render(w, r, "follow.html", data)
}
