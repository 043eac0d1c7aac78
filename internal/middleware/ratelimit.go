package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mood-space/core/internal/pkg/response"
	"go.uber.org/zap"
)

// WindowCounter counts hits in a fixed window.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit allows at most limit requests per client IP per window for the
// given scope. Counter failures let the request through.
func RateLimit(counter WindowCounter, scope string, limit int, window time.Duration, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if counter == nil || limit <= 0 || ip == "" {
			c.Next()
			return
		}

		bucket := time.Now().UnixNano() / int64(window)
		key := fmt.Sprintf("mood:rate_limit:%s:%s:%d", scope, ip, bucket)
		count, err := counter.IncrWindow(c.Request.Context(), key, window+time.Second)
		if err != nil {
			log.Warn("rate limit counter unavailable", zap.String("scope", scope), zap.Error(err))
			c.Next()
			return
		}

		if count > int64(limit) {
			log.Info("rate limited", zap.String("scope", scope), zap.String("ip", ip))
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			response.TooManyRequests(c, "Too many requests, slow down a little.")
			return
		}
		c.Next()
	}
}
