package monitoring

import (
	"strconv"
	"sync"
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

	SubmissionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_submissions_total",
			Help: "Assessment submissions by category and outcome",
		},
		[]string{"category", "outcome"},
	)

	ScoringDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assessment_scoring_duration_seconds",
			Help:    "Time spent scoring, resolving and joining one submission",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
		[]string{"category"},
	)

	ModelLoadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_load_duration_seconds",
			Help:    "Time spent loading a model bundle",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5},
		},
		[]string{"category"},
	)

	TestsCompleted = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "assessment_tests_completed",
			Help: "Completed, non-deleted tests per assessment type",
		},
		[]string{"category"},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(SubmissionCounter)
		prometheus.MustRegister(ScoringDuration)
		prometheus.MustRegister(ModelLoadDuration)
		prometheus.MustRegister(TestsCompleted)
	})
}

func ObserveSubmission(category, outcome string, elapsed time.Duration) {
	SubmissionCounter.WithLabelValues(category, outcome).Inc()
	if outcome == "ok" {
		ScoringDuration.WithLabelValues(category).Observe(elapsed.Seconds())
	}
}

func ObserveModelLoad(category string, elapsed time.Duration) {
	ModelLoadDuration.WithLabelValues(category).Observe(elapsed.Seconds())
}

func SetTestsCompleted(category string, n int64) {
	TestsCompleted.WithLabelValues(category).Set(float64(n))
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
