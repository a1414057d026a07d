package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/teamboard/core/internal/pkg/response"
)

const (
	defaultRateLimitMax = 50
	rateLimitWindow     = time.Second
	rateLimitPrefix     = "teamboard:rate_limit:"
)

// RateLimit enforces a fixed one-second window of max requests per client IP.
// Redis failures let the request through.
func RateLimit(rdb *redis.Client, max int) gin.HandlerFunc {
	if max <= 0 {
		max = defaultRateLimitMax
	}
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("%s%s:%d", rateLimitPrefix, ip, time.Now().Unix())

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			rdb.PExpire(ctx, key, rateLimitWindow+time.Second)
		}

		if count > int64(max) {
			response.TooManyRequests(c)
			return
		}
		c.Next()
	}
}
