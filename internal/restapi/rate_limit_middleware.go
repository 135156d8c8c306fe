package restapi

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"aquadash.wasreb.org/internal/models"
)

// RateLimitMiddleware provides per-client rate limiting. Requests are keyed
// by session token when present, otherwise by remote address.
type RateLimitMiddleware struct {
	limiters    map[string]*rate.Limiter
	mu          sync.RWMutex
	rateLimit   rate.Limit
	burstSize   int
	cleanupTick *time.Ticker
}

// NewRateLimitMiddleware creates a new rate limiting middleware.
// ratePerInterval: number of requests allowed per interval per client.
// A negative rate disables limiting entirely; zero blocks every request.
func NewRateLimitMiddleware(ratePerInterval int, interval time.Duration) func(http.Handler) http.Handler {
	var rateLimit rate.Limit
	switch {
	case ratePerInterval < 0:
		rateLimit = rate.Inf
	case ratePerInterval == 0:
		rateLimit = 0
	default:
		rateLimit = rate.Every(interval / time.Duration(ratePerInterval))
	}

	middleware := &RateLimitMiddleware{
		limiters:    make(map[string]*rate.Limiter),
		rateLimit:   rateLimit,
		burstSize:   ratePerInterval,
		cleanupTick: time.NewTicker(5 * time.Minute),
	}
	go middleware.cleanup()

	return middleware.rateLimitHandler
}

// getLimiter gets or creates a rate limiter for the given client key.
func (rl *RateLimitMiddleware) getLimiter(key string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[key]
	rl.mu.RUnlock()
	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if limiter, exists := rl.limiters[key]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(rl.rateLimit, rl.burstSize)
	rl.limiters[key] = limiter
	return limiter
}

func clientKey(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func (rl *RateLimitMiddleware) rateLimitHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.rateLimit == rate.Inf {
			next.ServeHTTP(w, r)
			return
		}
		if !rl.getLimiter(clientKey(r)).Allow() {
			rl.sendRateLimitExceeded(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sendRateLimitExceeded sends a 429 Too Many Requests response.
func (rl *RateLimitMiddleware) sendRateLimitExceeded(w http.ResponseWriter, r *http.Request) {
	var retryAfter time.Duration
	if rl.rateLimit <= 0 {
		retryAfter = time.Hour
	} else {
		retryAfter = time.Duration(float64(time.Second) / float64(rl.rateLimit))
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burstSize))
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.WriteHeader(http.StatusTooManyRequests)

	response := models.NewResponse(http.StatusTooManyRequests, nil,
		"Rate limit exceeded. Please try again later.")
	json.NewEncoder(w).Encode(response) // nolint:errcheck
}

// cleanup periodically removes idle limiters to prevent memory growth.
func (rl *RateLimitMiddleware) cleanup() {
	for range rl.cleanupTick.C {
		rl.mu.Lock()
		for key, limiter := range rl.limiters {
			if limiter.Tokens() > 0 {
				delete(rl.limiters, key)
			}
		}
		rl.mu.Unlock()
	}
}
