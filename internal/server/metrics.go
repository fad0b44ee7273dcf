package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hmans/msgboard/internal/board"
)

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// graphqlOperations is labelled by operation type and root field, both
	// bounded by the schema.
	graphqlOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphql_operations_total",
			Help: "Total number of GraphQL operations.",
		},
		[]string{"type", "field", "outcome"},
	)

	graphqlDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphql_operation_duration_seconds",
			Help:    "Duration of GraphQL operations in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, httpInflight, graphqlOperations, graphqlDuration)
}

// Metrics instruments requests by method, route and status.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		// Unmatched paths share one label to bound cardinality.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		httpRequests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// storeRegistry returns a registry with gauges reporting the store's size.
// Each router gets its own so several stores can coexist in one process.
func storeRegistry(store *board.Store) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "msgboard_messages",
			Help: "Number of stored messages.",
		}, func() float64 { return float64(store.CountMessages()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "msgboard_authors",
			Help: "Number of known authors.",
		}, func() float64 { return float64(store.CountAuthors()) }),
	)
	return reg
}
