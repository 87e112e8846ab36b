package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP
// For multi-instance deployments, consider a shared limiter backed by Redis
type RateLimiter struct {
	clients map[string]*clientLimit
	stop    chan struct{}
	// retryAfter is the Retry-After value sent with a 429, in whole seconds
	retryAfter string
	limit      rate.Limit
	burst      int
	idleTTL    time.Duration
	mu         sync.Mutex
}

type clientLimit struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter
// requests: maximum number of requests allowed per window (also the burst size)
// window: time window duration (e.g., 1 minute)
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients:    make(map[string]*clientLimit),
		stop:       make(chan struct{}),
		retryAfter: strconv.Itoa(retryAfterSeconds(requests, window)),
		limit:      rate.Limit(float64(requests) / window.Seconds()),
		burst:      requests,
		idleTTL:    window,
	}

	// Drop idle clients every window duration
	go rl.cleanup()

	return rl
}

// Middleware returns a rate limiting middleware
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := getClientIP(r)

		if !rl.allow(clientID) {
			slog.Warn("[RATE-LIMIT] request rejected",
				"client", clientID,
				"method", r.Method,
				"path", r.URL.Path,
			)
			w.Header().Set("Retry-After", rl.retryAfter)
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// retryAfterSeconds is the time one token takes to refill, rounded up to a whole second
func retryAfterSeconds(requests int, window time.Duration) int {
	interval := window
	if requests > 0 {
		interval = window / time.Duration(requests)
	}
	seconds := int(math.Ceil(interval.Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}

// Stop ends the background cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	select {
	case <-rl.stop:
	default:
		close(rl.stop)
	}
}

// allow checks if a client is allowed to make a request
func (rl *RateLimiter) allow(clientID string) bool {
	rl.mu.Lock()
	client, exists := rl.clients[clientID]
	if !exists {
		client = &clientLimit{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[clientID] = client
	}
	client.lastSeen = time.Now()
	rl.mu.Unlock()

	return client.limiter.Allow()
}

// cleanup removes idle client entries periodically
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.evictIdle(time.Now())
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for clientID, client := range rl.clients {
		if now.Sub(client.lastSeen) > rl.idleTTL {
			delete(rl.clients, clientID)
		}
	}
}

// getClientIP extracts the client IP from the request.
// chi's RealIP middleware runs first, so RemoteAddr already reflects proxies.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
