package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks total HTTP requests served by the storefront.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "endpoint", "status"},
	)

	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "endpoint"},
	)

	// OrdersTotal tracks placed orders by outcome.
	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_total",
			Help: "Total number of order placements",
		},
		[]string{"status"},
	)

	// OrderValue tracks the total amount of successfully placed orders.
	OrderValue = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "order_value_dollars",
			Help:    "Order totals in dollars",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000},
		},
	)

	// CartOperations tracks cart mutations by operation name.
	CartOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_operations_total",
			Help: "Total number of cart mutations",
		},
		[]string{"operation"},
	)

	// ValidationFailures tracks checkout form validation failures by step.
	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_validation_failures_total",
			Help: "Total number of blocked checkout step transitions",
		},
		[]string{"step"},
	)

	// SessionRestores tracks session restore attempts by outcome.
	SessionRestores = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_restores_total",
			Help: "Session restore attempts (restored, empty, corrupt)",
		},
		[]string{"outcome"},
	)

	// CircuitBreakerState tracks breaker state (0=closed, 1=open, 2=half-open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"service", "circuit_name"},
	)

	// CircuitBreakerFailures tracks calls that failed through a breaker.
	CircuitBreakerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of circuit breaker failures",
		},
		[]string{"service", "circuit_name"},
	)

	// BulkheadActiveRequests tracks in-flight requests inside a bulkhead.
	BulkheadActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bulkhead_active_requests",
			Help: "Number of active requests in bulkhead",
		},
		[]string{"service", "bulkhead_name"},
	)

	// BulkheadRejectedRequests tracks requests rejected by a bulkhead.
	BulkheadRejectedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bulkhead_rejected_requests_total",
			Help: "Total number of rejected requests by bulkhead",
		},
		[]string{"service", "bulkhead_name"},
	)
)

// PrometheusMiddleware records request counts and latency for every route.
func PrometheusMiddleware(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		RequestsTotal.WithLabelValues(
			serviceName,
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()

		RequestDuration.WithLabelValues(
			serviceName,
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}
