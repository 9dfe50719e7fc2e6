package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "configly/internal/errors"
)

// Limiter decides whether a request identified by key may proceed.
// The in-process implementation below is a coarse single-instance
// safeguard; a multi-instance deployment swaps in an implementation
// backed by a shared counter.
type Limiter interface {
	Allow(key string) bool
}

type windowCounter struct {
	count   int
	resetAt time.Time
}

// InProcessLimiter is a fixed-window limiter backed by an in-process map.
type InProcessLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	buckets map[string]*windowCounter
}

// NewInProcessLimiter creates a limiter allowing max requests per window.
func NewInProcessLimiter(max int, window time.Duration) *InProcessLimiter {
	return &InProcessLimiter{
		max:     max,
		window:  window,
		buckets: make(map[string]*windowCounter),
	}
}

// Allow reports whether the key is under its window budget and counts
// the request.
func (l *InProcessLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[key]
	if !ok || now.After(b.resetAt) {
		l.buckets[key] = &windowCounter{count: 1, resetAt: now.Add(l.window)}
		return true
	}
	if b.count >= l.max {
		return false
	}
	b.count++
	return true
}

// RateLimit returns a middleware limiting requests by the given key
// function (public key for embed traffic, client IP otherwise).
func RateLimit(limiter Limiter, keyFn func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)
		if key == "" {
			key = c.ClientIP()
		}
		if !limiter.Allow(key) {
			c.AbortWithStatusJSON(apperrors.ErrRateLimit.StatusCode, gin.H{
				"success": false,
				"error":   apperrors.ErrRateLimit.Message,
				"code":    apperrors.ErrRateLimit.Code,
			})
			return
		}
		c.Next()
	}
}
