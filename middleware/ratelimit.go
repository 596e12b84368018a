package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
)

type rateWindow struct {
	count   int
	resetAt time.Time
}

// RateLimiter is a fixed-window per-client limiter backed by a bounded LRU
// cache, so idle clients age out instead of growing the map forever.
type RateLimiter struct {
	mu     sync.Mutex
	cache  *lru.Cache[string, *rateWindow]
	limit  int
	window time.Duration
}

// NewRateLimiter allows limit requests per client per window. Size bounds
// how many distinct clients are tracked at once.
func NewRateLimiter(limit int, window time.Duration, size int) (*RateLimiter, error) {
	cache, err := lru.New[string, *rateWindow](size)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{cache: cache, limit: limit, window: window}, nil
}

// Allow records one request for key and reports whether it is within the
// window's allowance.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.cache.Get(key)
	if !ok || now.After(w.resetAt) {
		rl.cache.Add(key, &rateWindow{count: 1, resetAt: now.Add(rl.window)})
		return true
	}
	w.count++
	return w.count <= rl.limit
}

// Limit is the gin middleware form, keyed by client IP and route path.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + "|" + c.FullPath()
		if !rl.Allow(key) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many requests, try again later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
