// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"shoplite-agent/internal/config"
	"shoplite-agent/internal/utils"
)

const (
	bucketIdleEviction = 3 * time.Minute
	evictionInterval   = time.Minute
)

// clientBucket is one client's token bucket plus the bookkeeping needed to
// evict it once the client goes quiet.
type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPLimiter keeps an independent token bucket per client IP. The agent
// serves a handful of LAN clients at most, so the map stays small; idle
// buckets are still evicted so it never grows without bound.
type IPLimiter struct {
	mu      sync.Mutex
	buckets map[string]*clientBucket
	refill  rate.Limit
	burst   int
}

func NewIPLimiter(refill rate.Limit, burst int) *IPLimiter {
	l := &IPLimiter{
		buckets: make(map[string]*clientBucket),
		refill:  refill,
		burst:   burst,
	}
	go l.evictIdle()
	return l
}

func (l *IPLimiter) evictIdle() {
	for {
		time.Sleep(evictionInterval)
		l.mu.Lock()
		for ip, b := range l.buckets {
			if time.Since(b.lastSeen) > bucketIdleEviction {
				delete(l.buckets, ip)
			}
		}
		l.mu.Unlock()
	}
}

// Allow reports whether the client may proceed, consuming one token.
func (l *IPLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[ip]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(l.refill, l.burst)}
		l.buckets[ip] = b
	}
	b.lastSeen = time.Now()
	return b.limiter.Allow()
}

func (l *IPLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED",
				"Too many requests, slow down", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GeneralRateLimit guards every route: the burst absorbs a screenful of
// requests, the refill caps sustained traffic at one per second.
func GeneralRateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passthrough
	}
	return NewIPLimiter(rate.Every(time.Second), cfg.RequestBurst).Middleware()
}

// AuthRateLimit guards the credential endpoints with a much slower bucket.
func AuthRateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passthrough
	}
	return NewIPLimiter(rate.Every(time.Minute), cfg.AuthBurst).Middleware()
}

func passthrough(c *gin.Context) {
	c.Next()
}
