package middleware

import (
	"strconv" // Status code formatting
	"time"    // Request latency

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus"          // Metric types
	"github.com/prometheus/client_golang/prometheus/promauto" // Auto registration
	"github.com/sirupsen/logrus"                              // Logrus for structured logging
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paychat_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "paychat_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)

// RequestLogger logs and measures every request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath() // Route template keeps label cardinality bounded
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		requestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(status)).Inc()
		requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())

		entry := logrus.WithFields(logrus.Fields{
			"method":      c.Request.Method,       // HTTP method
			"path":        c.Request.URL.Path,     // Request path
			"status":      status,                 // Response status
			"duration_ms": elapsed.Milliseconds(), // Latency
		})
		if status >= 500 {
			entry.Error("Request failed")
			return
		}
		entry.Debug("Request served")
	}
}
