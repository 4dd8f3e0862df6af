package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/quizdeck-dev/quizdeck/internal/response"
)

// RateLimit admits at most max requests per window across all traffic,
// answering 429 beyond that. The token bucket refills continuously, so a
// sustained overload recovers gradually rather than at window boundaries.
func RateLimit(window time.Duration, max int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Every(window/time.Duration(max)), max)

	return func(ctx *gin.Context) {
		if !limiter.Allow() {
			response.Fail(ctx, http.StatusTooManyRequests, "So much fetch, try later.")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// SlowDown delays every request beyond the first `after` in a window by a
// fixed amount instead of rejecting it.
func SlowDown(window time.Duration, after int, delay time.Duration) gin.HandlerFunc {
	var (
		mu          sync.Mutex
		windowStart time.Time
		count       int
	)

	return func(ctx *gin.Context) {
		mu.Lock()
		now := time.Now()
		if now.Sub(windowStart) > window {
			windowStart = now
			count = 0
		}
		count++
		throttled := count > after
		mu.Unlock()

		if throttled {
			time.Sleep(delay)
		}
		ctx.Next()
	}
}
