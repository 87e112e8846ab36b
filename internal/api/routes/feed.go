package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"Yatube/internal/api/handlers/feed"
	"Yatube/internal/api/middleware"
	"Yatube/internal/core/feedcache"
	"Yatube/internal/core/posts"
)

// RegisterFeedRoutes registers the JSON feed endpoints under /api/v1.
// Anonymous global feed responses are served through cache.
func RegisterFeedRoutes(r chi.Router, service posts.Service, cache *feedcache.Cache, allowedOrigins []string) {
	handler := feed.NewHandler(service, cache)

	r.Route("/api/v1", func(r chi.Router) {
		if len(allowedOrigins) > 0 {
			r.Use(corsMiddleware(allowedOrigins))
		}

		r.Get("/posts", handler.HandleGlobal)
		r.Get("/groups/{slug}/posts", handler.HandleGroup)
		r.Get("/profiles/{username}/posts", handler.HandleProfile)
		r.With(middleware.RequireAPIUser).Get("/follow", handler.HandleFollow)
	})
}

// corsMiddleware allows browser clients on the configured origins to read the feeds
func corsMiddleware(allowedOrigins []string) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
		},
		ExposedHeaders:   []string{"X-Cache"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	})
}
