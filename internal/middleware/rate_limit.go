package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// RateLimitMiddleware creates a middleware for per-IP rate limiting backed by
// Redis counters. A nil client disables limiting.
func RateLimitMiddleware(redisClient *redis.Client, limit int, duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		ip := c.ClientIP()
		key := "rate_limit:" + ip

		pipe := redisClient.Pipeline()
		pipe.Incr(c, key)
		pipe.Expire(c, key, duration)
		cmds, err := pipe.Exec(c)
		if err != nil {
			// Redis being down should not take the API down with it.
			c.Next()
			return
		}

		count := cmds[0].(*redis.IntCmd).Val()
		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}
