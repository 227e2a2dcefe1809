package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig limits requests per client IP.
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
	EntryTTL          time.Duration
	CleanupInterval   time.Duration
}

type rateLimitEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	mu              sync.Mutex
	limit           rate.Limit
	burst           int
	entries         map[string]*rateLimitEntry
	entryTTL        time.Duration
	cleanupInterval time.Duration
	lastCleanup     time.Time
}

func newRateLimiter(cfg RateLimitConfig) *rateLimiter {
	ttl := cfg.EntryTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	cleanup := cfg.CleanupInterval
	if cleanup <= 0 {
		cleanup = 5 * time.Minute
	}
	return &rateLimiter{
		limit:           rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute)),
		burst:           cfg.Burst,
		entries:         make(map[string]*rateLimitEntry),
		entryTTL:        ttl,
		cleanupInterval: cleanup,
		lastCleanup:     time.Now(),
	}
}

func (r *rateLimiter) allow(key string) bool {
	if key == "" {
		return true
	}

	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if now.Sub(r.lastCleanup) >= r.cleanupInterval {
		for k, entry := range r.entries {
			if now.Sub(entry.lastSeen) > r.entryTTL {
				delete(r.entries, k)
			}
		}
		r.lastCleanup = now
	}

	entry, ok := r.entries[key]
	if !ok {
		entry = &rateLimitEntry{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.Allow()
}

// RateLimitMiddleware rejects clients exceeding cfg with 429. A non-positive
// rate or burst disables limiting.
func RateLimitMiddleware(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerMinute <= 0 || cfg.Burst <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := newRateLimiter(cfg)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
