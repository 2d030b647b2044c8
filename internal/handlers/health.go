package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	startedAt time.Time
	ready     func() bool
}

// NewHealthHandler creates a HealthHandler. ready reports whether critical
// dependencies (broker, database) are reachable; nil means always ready.
func NewHealthHandler(ready func() bool) *HealthHandler {
	return &HealthHandler{
		startedAt: time.Now(),
		ready:     ready,
	}
}

func (h *HealthHandler) uptime() int64 {
	return int64(time.Since(h.startedAt).Seconds())
}

// Health reports overall service status.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
		"uptime": h.uptime(),
		"checks": []gin.H{
			{"name": "Application", "status": "UP"},
		},
	})
}

// Live reports process liveness.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
		"uptime": h.uptime(),
		"checks": []gin.H{
			{"name": "Liveness check", "status": "UP"},
		},
	})
}

// Ready reports whether the service can take traffic.
func (h *HealthHandler) Ready(c *gin.Context) {
	status := "UP"
	code := http.StatusOK
	if h.ready != nil && !h.ready() {
		status = "DOWN"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status": status,
		"uptime": h.uptime(),
		"checks": []gin.H{
			{"name": "Readiness check", "status": status},
		},
	})
}
