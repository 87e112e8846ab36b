package routes

import (
	"github.com/go-chi/chi/v5"

	"Yatube/internal/api/middleware"
	"Yatube/internal/web"
)

// RegisterWebRoutes registers the HTML pages of the site.
// The router must already run SessionAuth.LoadUser so handlers see the current user.
// loginLimiter, when set, throttles login and signup submissions separately from the global limit.
func RegisterWebRoutes(r chi.Router, handlers *web.Handlers, loginLimiter *middleware.RateLimiter, mediaDir string) {
	// Public pages
	r.Get("/", handlers.IndexHandler)
	r.Get("/group/{slug}/", handlers.GroupHandler)
	r.Get("/profile/{username}/", handlers.ProfileHandler)
	r.Get("/posts/{id}/", handlers.PostDetailHandler)
	r.Get("/about/author/", handlers.AboutAuthorHandler)
	r.Get("/about/tech/", handlers.AboutTechHandler)

	// Accounts
	submit := r
	if loginLimiter != nil {
		submit = r.With(loginLimiter.Middleware)
	}
	r.Get("/auth/signup/", handlers.SignupHandler)
	submit.Post("/auth/signup/", handlers.SignupHandler)
	r.Get("/auth/login/", handlers.LoginHandler)
	submit.Post("/auth/login/", handlers.LoginHandler)
	r.Post("/auth/logout/", handlers.LogoutHandler)

	// Pages that need a logged-in user redirect anonymous visitors to the login form
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireLogin)

		r.Get("/create/", handlers.PostCreateHandler)
		r.Post("/create/", handlers.PostCreateHandler)
		r.Get("/posts/{id}/edit/", handlers.PostEditHandler)
		r.Post("/posts/{id}/edit/", handlers.PostEditHandler)
		r.Post("/posts/{id}/delete/", handlers.PostDeleteHandler)
		r.Post("/posts/{id}/comment/", handlers.AddCommentHandler)

		r.Get("/follow/", handlers.FollowFeedHandler)
		r.Post("/profile/{username}/follow/", handlers.ProfileFollowHandler)
		r.Post("/profile/{username}/unfollow/", handlers.ProfileUnfollowHandler)

		r.Get("/auth/password_change/", handlers.PasswordChangeHandler)
		r.Post("/auth/password_change/", handlers.PasswordChangeHandler)
		r.Get("/auth/password_change/done/", handlers.PasswordChangeDoneHandler)
	})

	// Uploaded post images
	r.Handle("/media/*", web.MediaFileServer(mediaDir))

	r.NotFound(handlers.NotFoundHandler)
}
