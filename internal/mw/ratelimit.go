package mw

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps a token-bucket limiter per client IP. Entries that
// have been quiet for a while are pruned so the map does not grow without
// bound on a public endpoint.
type clientLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
}

func newClientLimiter(r rate.Limit, burst int) *clientLimiter {
	cl := &clientLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    burst,
	}
	go cl.pruneLoop()
	return cl
}

func (cl *clientLimiter) get(ip string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	v, ok := cl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(cl.rate, cl.burst)}
		cl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (cl *clientLimiter) pruneLoop() {
	for range time.Tick(time.Minute) {
		cutoff := time.Now().Add(-3 * time.Minute)
		cl.mu.Lock()
		for ip, v := range cl.visitors {
			if v.lastSeen.Before(cutoff) {
				delete(cl.visitors, ip)
			}
		}
		cl.mu.Unlock()
	}
}

// RateLimiter is a middleware for IP-based rate limiting.
func RateLimiter(r rate.Limit, burst int) gin.HandlerFunc {
	cl := newClientLimiter(r, burst)
	return func(c *gin.Context) {
		if !cl.get(c.ClientIP()).Allow() {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}
