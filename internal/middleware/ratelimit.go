package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// client is one IP's fixed-window counter.
type client struct {
	windowStart time.Time
	count       int
}

// RateLimiter is an in-memory fixed-window limiter keyed by client IP.
// It only fits a single instance deployment.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string]*client
	now     func() time.Time
}

// NewRateLimiter allows limit requests per window per client IP. A limit of
// zero or less disables limiting.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string]*client),
		now:     time.Now,
	}
}

// Allow records one request from ip and reports whether it is within limit.
func (l *RateLimiter) Allow(ip string) bool {
	if l.limit <= 0 {
		return true
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	cl, ok := l.clients[ip]
	if !ok || now.Sub(cl.windowStart) > l.window {
		l.clients[ip] = &client{windowStart: now, count: 1}
		l.evict(now)
		return true
	}
	cl.count++
	return cl.count <= l.limit
}

// evict drops expired windows; called with mu held.
func (l *RateLimiter) evict(now time.Time) {
	for ip, cl := range l.clients {
		if now.Sub(cl.windowStart) > l.window {
			delete(l.clients, ip)
		}
	}
}

// Middleware answers 429 once a client exceeds its window budget.
//
// Response when limit exceeded:
//
//	HTTP/1.1 429 Too Many Requests
//	{"message": "rate limit exceeded", "timestamp": "..."}
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			AbortWithError(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}
