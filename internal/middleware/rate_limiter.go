package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiterConfig configures rate limiting behavior
type RateLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// clientLimiters tracks one token bucket per client IP.
type clientLimiters struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	config   RateLimiterConfig
}

func newClientLimiters(config RateLimiterConfig) *clientLimiters {
	cl := &clientLimiters{
		limiters: make(map[string]*rate.Limiter),
		config:   config,
	}
	go cl.cleanup()
	return cl
}

func (cl *clientLimiters) get(ip string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	limiter, ok := cl.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(cl.config.RequestsPerSecond), cl.config.Burst)
		cl.limiters[ip] = limiter
	}
	return limiter
}

// cleanup bounds the map size so long-running servers do not accumulate a
// limiter per IP forever.
func (cl *clientLimiters) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cl.mu.Lock()
		if len(cl.limiters) > 1000 {
			cl.limiters = make(map[string]*rate.Limiter)
		}
		cl.mu.Unlock()
	}
}

// RateLimiterMiddleware creates a per-IP rate limiting middleware
func RateLimiterMiddleware(config RateLimiterConfig) gin.HandlerFunc {
	limiters := newClientLimiters(config)

	return func(c *gin.Context) {
		limiter := limiters.get(c.ClientIP())
		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := reservation.DelayFrom(time.Now()).Seconds()
			reservation.Cancel()

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded. Please try again later.",
				"retry_after": retryAfter,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
