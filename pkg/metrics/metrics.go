package metrics

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

// Collector tracks pipeline and HTTP metrics without external deps.
type Collector struct {
	eventsConsumed         atomic.Int64
	eventsPersisted        atomic.Int64
	eventsDuplicate        atomic.Int64
	eventsDropped          atomic.Int64
	eventsFailed           atomic.Int64
	notificationsPublished atomic.Int64

	totalRequests   atomic.Int64
	failedRequests  atomic.Int64
	totalLatencyMic atomic.Int64
	startedAt       time.Time
}

func New() *Collector {
	return &Collector{
		startedAt: time.Now(),
	}
}

// EventConsumed records an inbound delivery handed to the dispatcher.
func (c *Collector) EventConsumed() {
	if c == nil {
		return
	}
	c.eventsConsumed.Add(1)
}

// EventPersisted records a successful (or idempotently skipped) store write.
func (c *Collector) EventPersisted() {
	if c == nil {
		return
	}
	c.eventsPersisted.Add(1)
}

// EventDuplicate records a redelivery acknowledged without new work because
// the event was already persisted.
func (c *Collector) EventDuplicate() {
	if c == nil {
		return
	}
	c.eventsDuplicate.Add(1)
}

// EventDropped records an event acknowledged without processing, such as an
// unrecognized action type.
func (c *Collector) EventDropped() {
	if c == nil {
		return
	}
	c.eventsDropped.Add(1)
}

// EventFailed records a delivery rejected toward the dead-letter exchange.
func (c *Collector) EventFailed() {
	if c == nil {
		return
	}
	c.eventsFailed.Add(1)
}

// NotificationPublished records an outbound publish.
func (c *Collector) NotificationPublished() {
	if c == nil {
		return
	}
	c.notificationsPublished.Add(1)
}

// GinMiddleware records request count, failures, and aggregate latency.
func (c *Collector) GinMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		c.totalRequests.Add(1)
		if ctx.Writer.Status() >= http.StatusInternalServerError {
			c.failedRequests.Add(1)
		}
		c.totalLatencyMic.Add(time.Since(start).Microseconds())
	}
}

// Handler exposes the metrics in a simple JSON form.
func (c *Collector) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqs := c.totalRequests.Load()
		latency := c.totalLatencyMic.Load()
		var avgMicros int64
		if reqs > 0 {
			avgMicros = latency / reqs
		}

		payload := map[string]interface{}{
			"events_consumed":         c.eventsConsumed.Load(),
			"events_persisted":        c.eventsPersisted.Load(),
			"events_duplicate":        c.eventsDuplicate.Load(),
			"events_dropped":          c.eventsDropped.Load(),
			"events_failed":           c.eventsFailed.Load(),
			"notifications_published": c.notificationsPublished.Load(),
			"requests_total":          reqs,
			"requests_failed":         c.failedRequests.Load(),
			"avg_latency_micros":      avgMicros,
			"uptime_seconds":          int64(time.Since(c.startedAt).Seconds()),
			"timestamp":               time.Now().UTC(),
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	})
}
