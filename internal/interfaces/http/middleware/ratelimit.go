package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"campusdesk/internal/infrastructure/ratelimit"
	"campusdesk/internal/shared/authorization"
	"campusdesk/internal/shared/logger"
	"campusdesk/internal/shared/utils"
)

// WriteLimiter decides whether a caller may perform another write.
type WriteLimiter interface {
	Allow(ctx context.Context, key string, limits ratelimit.Limits) (bool, error)
}

// RateLimitWrites throttles writes per authenticated user, falling back to the client
// IP. Limiter failures let the request through.
func RateLimitWrites(limiter WriteLimiter, limits ratelimit.Limits, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if actor, ok := authorization.ActorFromContext(c); ok {
			key = fmt.Sprintf("user:%d", actor.UserID)
		}

		allowed, err := limiter.Allow(c.Request.Context(), key, limits)
		if err != nil {
			log.Warnw("rate limiter unavailable, allowing request", "key", key, "error", err)
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", "60")
			utils.ErrorResponse(c, http.StatusTooManyRequests, "too many requests, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
