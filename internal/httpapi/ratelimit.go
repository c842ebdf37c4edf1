package httpapi

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Every request to /, /preview, /widget and /demo opens a fresh session against the
// target MCP server, so a browser stuck in a refresh loop can hammer it. The limiter
// is a per-client token bucket: bursts up to Burst, refilled at
// MaxRequests/WindowSeconds tokens per second.

// RateLimitInfo describes a rate limiting policy. A zero MaxRequests disables limiting.
type RateLimitInfo struct {
	WindowSeconds int `json:"windowSeconds"`
	MaxRequests   int `json:"maxRequests"`
	Burst         int `json:"burst"`
}

func (c RateLimitInfo) enabled() bool {
	return c.MaxRequests > 0 && c.WindowSeconds > 0 && c.Burst > 0
}

// TokenBucket implements a token bucket rate limiter
type TokenBucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a new token bucket with given capacity and refill rate
func NewTokenBucket(capacity int, refillRate float64) *TokenBucket {
	return &TokenBucket{
		tokens:     float64(capacity),
		capacity:   float64(capacity),
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow consumes a token if one is available. retryAt is when the next token
// becomes available and is only meaningful when allowed is false.
func (tb *TokenBucket) Allow() (allowed bool, remaining int, retryAt time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	tb.tokens += now.Sub(tb.lastRefill).Seconds() * tb.refillRate
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}
	tb.lastRefill = now

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true, int(tb.tokens), now
	}

	wait := (1.0 - tb.tokens) / tb.refillRate
	return false, 0, now.Add(time.Duration(wait * float64(time.Second)))
}

func (tb *TokenBucket) idleSince() time.Time {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.lastRefill
}

// RateLimiter manages per-client token buckets
type RateLimiter struct {
	buckets map[string]*TokenBucket
	config  RateLimitInfo
	mu      sync.Mutex
}

// NewRateLimiter creates a rate limiter with the given configuration
func NewRateLimiter(config RateLimitInfo) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*TokenBucket),
		config:  config,
	}
}

// Allow checks whether client may make another request
func (rl *RateLimiter) Allow(client string) (bool, int, time.Time) {
	rl.mu.Lock()
	bucket, ok := rl.buckets[client]
	if !ok {
		refillRate := float64(rl.config.MaxRequests) / float64(rl.config.WindowSeconds)
		bucket = NewTokenBucket(rl.config.Burst, refillRate)
		rl.buckets[client] = bucket
	}
	rl.mu.Unlock()

	return bucket.Allow()
}

// Sweep drops buckets idle for longer than maxIdle and returns how many were removed
func (rl *RateLimiter) Sweep(maxIdle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for client, bucket := range rl.buckets {
		if time.Since(bucket.idleSince()) > maxIdle {
			delete(rl.buckets, client)
			removed++
		}
	}
	return removed
}

// clientKey identifies the caller; RealIP has already rewritten RemoteAddr
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware enforces limiter per client address. A nil limiter passes
// every request through.
func RateLimitMiddleware(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientKey(r)
			allowed, remaining, retryAt := limiter.Allow(client)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.config.MaxRequests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Burst", strconv.Itoa(limiter.config.Burst))

			if !allowed {
				retryAfter := int(time.Until(retryAt).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				log.Ctx(r.Context()).Warn().
					Str("client", client).
					Str("path", r.URL.Path).
					Int("retryAfter", retryAfter).
					Msg("rate limit exceeded")

				http.Error(w, "Rate limit exceeded. Please retry after "+strconv.Itoa(retryAfter)+" seconds.",
					http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
