package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"Yatube/internal/api/middleware"
	"Yatube/internal/core/comments"
	"Yatube/internal/core/feedcache"
	"Yatube/internal/core/groups"
	"Yatube/internal/core/posts"
	"Yatube/internal/core/users"
	"Yatube/internal/db/memory"
)

const testPassword = "correct-horse-battery"

// testEnv wires the real services over the in-memory store
type testEnv struct {
	store    *memory.Store
	cache    *feedcache.Cache
	posts    posts.Service
	groups   groups.Service
	users    users.UserService
	comments comments.Service
	sessions *middleware.SessionManager
	router   http.Handler
}

func newTestEnv(t *testing.T, cacheTTL time.Duration) *testEnv {
	t.Helper()
	return newTestEnvWithBackend(t, feedcache.NewMemoryBackend(0), cacheTTL)
}

// newTestEnvWithBackend is newTestEnv with the feed cache stored in backend
func newTestEnvWithBackend(t *testing.T, backend feedcache.Backend, cacheTTL time.Duration) *testEnv {
	t.Helper()

	store := memory.NewStore()
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})

	userService := users.NewUserServiceWithCost(store.Users(), store.Follows(), bcrypt.MinCost)
	groupService := groups.NewGroupService(store.Groups())
	postService := posts.NewPostService(store.Posts(), groupService, userService, 10)
	commentService := comments.NewCommentService(store.Comments())

	cache, err := feedcache.New(backend, cacheTTL, nil)
	require.NoError(t, err)

	sessions, err := middleware.NewSessionManager([]byte(strings.Repeat("k", 32)), false)
	require.NoError(t, err)

	templates, err := NewTemplates()
	require.NoError(t, err)

	h := NewHandlers(templates, postService, groupService, userService, commentService, sessions, cache)

	env := &testEnv{
		store:    store,
		cache:    cache,
		posts:    postService,
		groups:   groupService,
		users:    userService,
		comments: commentService,
		sessions: sessions,
	}
	env.router = newTestRouter(h, sessions, userService)
	return env
}

// newTestRouter mirrors the production route table closely enough for handler tests
func newTestRouter(h *Handlers, sessions *middleware.SessionManager, userService users.UserService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NewSessionAuth(sessions, userService).LoadUser)

	r.Get("/", h.IndexHandler)
	r.Get("/group/{slug}/", h.GroupHandler)
	r.Get("/profile/{username}/", h.ProfileHandler)
	r.Get("/posts/{id}/", h.PostDetailHandler)
	r.Get("/about/author/", h.AboutAuthorHandler)
	r.Get("/about/tech/", h.AboutTechHandler)
	r.HandleFunc("/auth/signup/", h.SignupHandler)
	r.HandleFunc("/auth/login/", h.LoginHandler)
	r.Post("/auth/logout/", h.LogoutHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireLogin)
		r.HandleFunc("/create/", h.PostCreateHandler)
		r.HandleFunc("/posts/{id}/edit/", h.PostEditHandler)
		r.Post("/posts/{id}/delete/", h.PostDeleteHandler)
		r.Post("/posts/{id}/comment/", h.AddCommentHandler)
		r.Get("/follow/", h.FollowFeedHandler)
		r.Post("/profile/{username}/follow/", h.ProfileFollowHandler)
		r.Post("/profile/{username}/unfollow/", h.ProfileUnfollowHandler)
		r.HandleFunc("/auth/password_change/", h.PasswordChangeHandler)
		r.Get("/auth/password_change/done/", h.PasswordChangeDoneHandler)
	})

	r.NotFound(h.NotFoundHandler)
	return r
}

// brokenBackend fails every call, like a cache server that is down
type brokenBackend struct{}

var errBackendDown = errors.New("cache backend unavailable")

func (brokenBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errBackendDown
}

func (brokenBackend) Set(context.Context, string, []byte, time.Duration) error {
	return errBackendDown
}

func (brokenBackend) Clear(context.Context) error {
	return errBackendDown
}

func (e *testEnv) register(t *testing.T, username string) *users.User {
	t.Helper()
	user, err := e.users.Register(context.Background(), users.RegisterRequest{
		Username:  username,
		FirstName: strings.ToUpper(username[:1]) + username[1:],
		Password:  testPassword,
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) createGroup(t *testing.T, slug, title string) *groups.Group {
	t.Helper()
	group, err := e.groups.CreateGroup(context.Background(), groups.CreateGroupRequest{Slug: slug, Title: title})
	require.NoError(t, err)
	return group
}

func (e *testEnv) createPost(t *testing.T, author *users.User, groupID *int64, text string) *posts.Post {
	t.Helper()
	post, err := e.posts.CreatePost(context.Background(), posts.CreatePostRequest{
		AuthorID: author.ID,
		GroupID:  groupID,
		Text:     text,
	})
	require.NoError(t, err)
	return post
}

// createPosts publishes "post 1" through "post n", oldest first
func (e *testEnv) createPosts(t *testing.T, author *users.User, n int) []*posts.Post {
	t.Helper()
	out := make([]*posts.Post, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, e.createPost(t, author, nil, fmt.Sprintf("post %d", i)))
	}
	return out
}

// get performs a GET as user (nil for anonymous)
func (e *testEnv) get(target string, user *users.User) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, target, nil), user)
}

// post submits form as user (nil for anonymous)
func (e *testEnv) post(target string, form url.Values, user *users.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req, user)
}

func (e *testEnv) do(req *http.Request, user *users.User) *httptest.ResponseRecorder {
	if user != nil {
		req = req.WithContext(middleware.SetUser(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func newRequestWithCookies(method, target string, cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}
