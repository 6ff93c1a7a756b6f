package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bettermaps",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bettermaps",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "path"})

	// UpstreamRequests counts calls to external services by outcome (ok, retry, error).
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bettermaps",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Requests made to upstream services",
	}, []string{"service", "outcome"})

	// StaleResponses counts asynchronous results dropped because a newer request superseded them.
	StaleResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bettermaps",
		Subsystem: "planner",
		Name:      "stale_responses_total",
		Help:      "Asynchronous responses discarded as superseded",
	}, []string{"operation"})

	RouteComputations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bettermaps",
		Subsystem: "planner",
		Name:      "route_computations_total",
		Help:      "Route computations by outcome",
	}, []string{"outcome"})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bettermaps",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"cache"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bettermaps",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"cache"})
)

// Middleware records request count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
