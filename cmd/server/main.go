package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"Yatube/internal/api/middleware"
	"Yatube/internal/api/routes"
	"Yatube/internal/config"
	"Yatube/internal/core/comments"
	"Yatube/internal/core/feedcache"
	"Yatube/internal/core/groups"
	"Yatube/internal/core/posts"
	"Yatube/internal/core/users"
	"Yatube/internal/db/memory"
	postgresRepo "Yatube/internal/db/postgres"
	"Yatube/internal/web"
)

// repositories groups the storage implementations chosen at startup
type repositories struct {
	users    users.UserRepository
	follows  users.FollowRepository
	groups   groups.Repository
	posts    posts.Repository
	comments comments.Repository
}

func main() {
	cfg := config.ConfigFromEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	repos, closeStorage, err := openStorage(cfg)
	if err != nil {
		slog.Error("failed to open storage", "storage", cfg.Storage, "error", err)
		os.Exit(1)
	}
	defer closeStorage()

	// Initialize services
	userService := users.NewUserService(repos.users, repos.follows)
	groupService := groups.NewGroupService(repos.groups)
	postService := posts.NewPostService(repos.posts, groupService, userService, cfg.PostsPerPage)
	commentService := comments.NewCommentService(repos.comments)

	feedCache, closeCache, err := openFeedCache(cfg, logger)
	if err != nil {
		slog.Error("failed to set up feed cache", "backend", cfg.FeedCacheBackend, "error", err)
		os.Exit(1)
	}
	defer closeCache()

	sessions, err := middleware.NewSessionManager([]byte(cfg.SessionSecret), cfg.SessionCookieSecure)
	if err != nil {
		slog.Error("failed to set up sessions", "error", err)
		os.Exit(1)
	}

	templates, err := web.NewTemplates()
	if err != nil {
		slog.Error("failed to load web templates", "error", err)
		os.Exit(1)
	}
	handlers := web.NewHandlers(templates, postService, groupService, userService, commentService, sessions, feedCache)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	defer rateLimiter.Stop()
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimitPerMinute, time.Minute)
	defer loginLimiter.Stop()

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(rateLimiter.Middleware)
	r.Use(middleware.NewSessionAuth(sessions, userService).LoadUser)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	routes.RegisterFeedRoutes(r, postService, feedCache, cfg.CORSAllowedOrigins)
	routes.RegisterWebRoutes(r, handlers, loginLimiter, cfg.MediaRoot)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// SIGHUP drops every cached page without restarting
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			slog.Info("SIGHUP received, clearing feed cache")
			feedCache.Clear(context.Background())
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Yatube server starting",
			"port", cfg.Port,
			"storage", cfg.Storage,
			"feed_cache_backend", cfg.FeedCacheBackend,
			"feed_cache_ttl", cfg.FeedCacheTTL.String(),
			"posts_per_page", cfg.PostsPerPage,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		slog.Error("server failed", "error", err)
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

// openStorage connects to PostgreSQL and applies migrations, or builds the in-memory store
func openStorage(cfg config.Config) (*repositories, func(), error) {
	if cfg.Storage == config.StorageMemory {
		slog.Warn("using in-memory storage, data is lost on exit")
		store := memory.NewStore()
		return &repositories{
			users:    store.Users(),
			follows:  store.Follows(),
			groups:   store.Groups(),
			posts:    store.Posts(),
			comments: store.Comments(),
		}, func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	slog.Info("connected to database")

	if err := postgresRepo.Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	slog.Info("migrations completed successfully")

	closeDB := func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}

	return &repositories{
		users:    postgresRepo.NewUserRepository(db),
		follows:  postgresRepo.NewFollowRepository(db),
		groups:   postgresRepo.NewGroupRepository(db),
		posts:    postgresRepo.NewPostRepository(db),
		comments: postgresRepo.NewCommentRepository(db),
	}, closeDB, nil
}

// openFeedCache builds the configured cache backend. A Redis server that is
// down at startup is logged, not fatal: the cache degrades to misses.
func openFeedCache(cfg config.Config, logger *slog.Logger) (*feedcache.Cache, func(), error) {
	var (
		backend  feedcache.Backend
		closeFns = func() {}
	)

	switch cfg.FeedCacheBackend {
	case config.CacheBackendRedis:
		redisBackend, err := feedcache.NewRedisBackendFromURL(cfg.RedisURL, 500*time.Millisecond)
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := redisBackend.Ping(ctx); err != nil {
			slog.Warn("redis unavailable at startup, feed pages will render uncached until it recovers",
				"error", err,
			)
		}
		backend = redisBackend
		closeFns = func() {
			if err := redisBackend.Close(); err != nil {
				slog.Error("failed to close redis client", "error", err)
			}
		}
	default:
		backend = feedcache.NewMemoryBackend(time.Minute)
	}

	cache, err := feedcache.New(backend, cfg.FeedCacheTTL, logger)
	if err != nil {
		closeFns()
		return nil, nil, err
	}
	return cache, closeFns, nil
}
