package middleware

import (
	"net/http"
	"sync"
	"time"
)

// RateLimiter is a fixed-window in-memory request limiter keyed by client
// IP. Counts live only in this process; a multi-instance deployment would
// move this to a shared store.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string]*windowCount
	now     func() time.Time
}

type windowCount struct {
	start time.Time
	count int
}

// NewRateLimiter allows limit requests per client per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string]*windowCount),
		now:     time.Now,
	}
}

// Allow records one request for the client and reports whether it is within
// the limit. Expired windows are pruned opportunistically.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	if len(rl.clients) > 1024 {
		for key, wc := range rl.clients {
			if now.Sub(wc.start) >= rl.window {
				delete(rl.clients, key)
			}
		}
	}

	wc, ok := rl.clients[client]
	if !ok || now.Sub(wc.start) >= rl.window {
		rl.clients[client] = &windowCount{start: now, count: 1}
		return true
	}

	wc.count++
	return wc.count <= rl.limit
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			WriteError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
