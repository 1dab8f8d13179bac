package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// ClientRateLimiter keeps one token bucket per client IP. Buckets of idle
// clients expire from the cache.
type ClientRateLimiter struct {
	limiters *cache.Cache
	limit    rate.Limit
	burst    int
	mu       sync.Mutex
}

// NewLoginRateLimiter allows perMinute attempts per client, refilled evenly
// over the minute. A non-positive perMinute disables limiting.
func NewLoginRateLimiter(perMinute int) *ClientRateLimiter {
	if perMinute <= 0 {
		return nil
	}
	return NewClientRateLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute, 10*time.Minute)
}

func NewClientRateLimiter(limit rate.Limit, burst int, idle time.Duration) *ClientRateLimiter {
	return &ClientRateLimiter{
		limiters: cache.New(idle, 2*idle),
		limit:    limit,
		burst:    burst,
	}
}

func (rl *ClientRateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.limiters.Get(key); ok {
		l := v.(*rate.Limiter)
		rl.limiters.SetDefault(key, l)
		return l
	}

	l := rate.NewLimiter(rl.limit, rl.burst)
	rl.limiters.SetDefault(key, l)
	return l
}

// Allow reports whether the client identified by key may proceed.
func (rl *ClientRateLimiter) Allow(key string) bool {
	return rl.limiterFor(key).Allow()
}

func (rl *ClientRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl != nil && !rl.Allow(c.ClientIP()) {
			abortTooManyRequests(c)
			return
		}
		c.Next()
	}
}
