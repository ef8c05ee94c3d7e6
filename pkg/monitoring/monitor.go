package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// AnnotationDecisions 自动标注决策数，outcome 为 applied / pending
	AnnotationDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kg_annotation_decisions_total",
			Help: "Auto-annotation decisions by outcome",
		},
		[]string{"outcome"},
	)

	AnnotationRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kg_annotation_runs_total",
			Help: "Auto-annotation runs by status",
		},
		[]string{"status"},
	)

	SuggestionConfidence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kg_suggestion_confidence",
			Help:    "Confidence of knowledge point suggestions",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kg_analytics_cache_lookups_total",
			Help: "Analytics cache lookups by result",
		},
		[]string{"result"},
	)

	GraphSyncs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kg_graph_sync_total",
			Help: "Neo4j graph sync attempts by status",
		},
		[]string{"status"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(AnnotationDecisions)
	prometheus.MustRegister(AnnotationRuns)
	prometheus.MustRegister(SuggestionConfidence)
	prometheus.MustRegister(CacheLookups)
	prometheus.MustRegister(GraphSyncs)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
