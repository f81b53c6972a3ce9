package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcq_bench_api_requests_total",
		Help: "Total number of API requests",
	}, []string{"path", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mcq_bench_api_request_duration_seconds",
		Help:    "API request duration",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"path"})

	evalScore = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mcq_bench_eval_score",
		Help: "Most recently recorded score per model and benchmark",
	}, []string{"model", "benchmark"})
)

// RecordScore publishes a run score so scrapers can track model quality over
// time without querying the database.
func RecordScore(model, benchmark string, score float64) {
	evalScore.WithLabelValues(model, benchmark).Set(score)
}

func requestMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		requestsTotal.WithLabelValues(path, strconv.Itoa(c.Writer.Status())).Inc()
		requestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	}
}

func metricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
