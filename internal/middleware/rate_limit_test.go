// internal/middleware/rate_limit_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"shoplite-agent/internal/config"
)

func TestIPLimiterEnforcesBurstPerClient(t *testing.T) {
	// A refill slow enough that no token returns during the test.
	l := NewIPLimiter(rate.Every(time.Hour), 2)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))

	// A different client has its own bucket.
	assert.True(t, l.Allow("10.0.0.2"))
}

func newLimitedRouter(cfg config.RateLimitConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GeneralRateLimit(cfg))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})
	return r
}

func ping(r *gin.Engine) int {
	req, _ := http.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestGeneralRateLimitRejectsBeyondBurst(t *testing.T) {
	r := newLimitedRouter(config.RateLimitConfig{Enabled: true, RequestBurst: 2})

	assert.Equal(t, http.StatusOK, ping(r))
	assert.Equal(t, http.StatusOK, ping(r))
	assert.Equal(t, http.StatusTooManyRequests, ping(r))
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	r := newLimitedRouter(config.RateLimitConfig{Enabled: false})

	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusOK, ping(r))
	}
}
