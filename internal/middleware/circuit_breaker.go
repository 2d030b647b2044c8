package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker"
)

var errUpstreamFailure = errors.New("upstream handler failed")

// NewAPIBreaker builds the breaker guarding the HTTP surface. Consecutive
// server errors usually mean the database or broker behind the handlers is
// struggling; opening stops the hammering, and half-open probes let traffic
// back once it recovers.
func NewAPIBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "api",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
}

// CircuitBreakerMiddleware runs each request through the breaker, counting
// 5xx responses as failures. While the breaker is open, requests are answered
// with 503 without reaching the handlers.
func CircuitBreakerMiddleware(cb *gobreaker.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, err := cb.Execute(func() (interface{}, error) {
			c.Next()
			if c.Writer.Status() >= http.StatusInternalServerError {
				return nil, errUpstreamFailure
			}
			return nil, nil
		})

		// Only short-circuited requests get a response here; a handler that
		// failed has already written its own.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service is unavailable"})
		}
	}
}
