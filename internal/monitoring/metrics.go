package monitoring

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salontid_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	AppointmentsRescheduled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "salontid_appointments_rescheduled_total",
			Help: "Successful appointment reschedules.",
		},
	)

	QueueWaiting = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "salontid_walkin_queue_waiting",
			Help: "Walk-in customers currently waiting, per tenant.",
		},
		[]string{"tenant_id"},
	)
)

// MetricsHandler exposes the prometheus registry.
func MetricsHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RequestMetrics is the gin middleware feeding RequestsTotal.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		RequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			statusLabel(c.Writer.Status()),
		).Inc()
	}
}

func statusLabel(code int) string {
	switch {
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
