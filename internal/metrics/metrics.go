// Package metrics holds the Prometheus collectors of the booking service and
// the gin middleware that records HTTP traffic.
package metrics

import (
	"net/http" // Handler type
	"strconv"  // Status code labels
	"time"     // Request timing

	"github.com/gin-gonic/gin"                                  // Gin web framework
	"github.com/prometheus/client_golang/prometheus"            // Collectors
	"github.com/prometheus/client_golang/prometheus/collectors" // Runtime collectors
	"github.com/prometheus/client_golang/prometheus/promhttp"   // Exposition handler
)

var (
	// RequestDuration tracks HTTP latency by method, route and status
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "skydesk",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// BookingEvents counts booking state changes
	BookingEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skydesk",
			Subsystem: "bookings",
			Name:      "events_total",
			Help:      "Booking attempts and cancellations by outcome.",
		},
		[]string{"event"}, // "booked" | "conflict" | "cancelled"
	)

	// Notifications counts outbound emails by result
	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skydesk",
			Subsystem: "notify",
			Name:      "emails_total",
			Help:      "Outbound emails by result.",
		},
		[]string{"result"}, // "sent" | "failed" | "dropped"
	)
)

// Registry is the registry served on /metrics
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	Registry.MustRegister(RequestDuration, BookingEvents, Notifications)
}

// Handler exposes the registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records the duration of every request under its route pattern
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath() // Route pattern keeps label cardinality bounded
		if path == "" {
			path = "unmatched"
		}
		RequestDuration.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
