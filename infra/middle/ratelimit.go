package middle

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/payfuse/payfuse/infra/config"
	"github.com/payfuse/payfuse/infra/response"
)

// Limiter decides whether a client may proceed with the current request.
// Implementations must be safe for concurrent use.
type Limiter interface {
	Allow(clientKey string) bool
}

// RateLimiter is a fixed-window limiter backed by a bounded, time-evicting
// LRU. Inactive clients are evicted by TTL, so the store cannot grow beyond
// its configured size regardless of how many distinct addresses are seen.
type RateLimiter struct {
	visitors *expirable.LRU[string, *visitor]
	mu       sync.Mutex
	rate     int
	window   time.Duration
}

type visitor struct {
	count    int
	lastSeen time.Time
}

// NewRateLimiter creates a rate limiter configured from the environment:
// RATE_LIMIT_PER_MINUTE requests per rolling 60s window (default 10),
// at most RATE_LIMIT_MAX_CLIENTS tracked addresses (default 10000).
func NewRateLimiter() *RateLimiter {
	rate := config.GetIntEnv("RATE_LIMIT_PER_MINUTE", 10)
	if rate <= 0 {
		rate = 10
	}
	size := config.GetIntEnv("RATE_LIMIT_MAX_CLIENTS", 10000)
	if size <= 0 {
		size = 10000
	}

	window := time.Minute
	return &RateLimiter{
		visitors: expirable.NewLRU[string, *visitor](size, nil, window),
		rate:     rate,
		window:   window,
	}
}

// Allow reports whether the client identified by clientKey is within its
// request budget. The quota resets only after a full window of allowed-
// request inactivity: every allowed request refreshes the window, denied
// requests do not.
func (rl *RateLimiter) Allow(clientKey string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, exists := rl.visitors.Get(clientKey)

	if !exists || now.Sub(v.lastSeen) > rl.window {
		rl.visitors.Add(clientKey, &visitor{count: 1, lastSeen: now})
		return true
	}

	if v.count >= rl.rate {
		return false
	}

	v.count++
	v.lastSeen = now
	rl.visitors.Add(clientKey, v) // refresh the TTL along with the window
	return true
}

// RateLimitMiddleware rejects requests over the per-client budget with 429
func RateLimitMiddleware(l Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := GetClientIP(r)

			if !l.Allow(clientIP) {
				response.Error(w, http.StatusTooManyRequests, "Too many requests. Try again later.", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetClientIP extracts the real client IP
func GetClientIP(r *http.Request) string {
	// Check X-Forwarded-For header
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		// Take the first IP in case of multiple
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fall back to RemoteAddr
	remoteAddr := r.RemoteAddr
	if idx := strings.LastIndex(remoteAddr, ":"); idx != -1 {
		ip := remoteAddr[:idx]
		// Handle IPv6 localhost addresses
		if ip == "[::1]" {
			return "127.0.0.1"
		}
		return ip
	}

	if remoteAddr == "[::1]" {
		return "127.0.0.1"
	}

	return remoteAddr
}
