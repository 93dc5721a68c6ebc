package middleware

import (
	"errors"
	"fmt"
	"math"
	"time"

	"anoa.com/jobboard/pkg/logger"
	"anoa.com/jobboard/pkg/ratelimiter"
	"github.com/gin-gonic/gin"
)

// KeyFunc picks the subject a request is limited by.
type KeyFunc func(c *gin.Context) string

// ByClientIP limits by remote address.
func ByClientIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// RateLimit allows one request per subject and action inside window.
// Limiter failures are logged and the request goes through.
func RateLimit(limiter *ratelimiter.Limiter, action string, window time.Duration, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Enabled() || window <= 0 {
			c.Next()
			return
		}

		err := limiter.Allow(c.Request.Context(), key(c), action, window)
		if err == nil {
			c.Next()
			return
		}

		if SetRetryAfter(c, err) {
			abortWithError(c, err)
			return
		}

		logger.Warn().Err(err).Str("action", action).Msg("rate limiter unavailable")
		c.Next()
	}
}

// SetRetryAfter sets the Retry-After header when err is a rate limit rejection
// and reports whether it was one.
func SetRetryAfter(c *gin.Context, err error) bool {
	var limitErr *ratelimiter.RateLimitError
	if !errors.As(err, &limitErr) {
		return false
	}
	c.Header("Retry-After", fmt.Sprintf("%d", int(math.Ceil(limitErr.RetryAfter.Seconds()))))
	return true
}
