package middleware

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedPath is the path label of requests that matched no route. Using a
// constant keeps arbitrary URLs out of the label set.
const unmatchedPath = "<unmatched>"

var (
	// httpReqs counts requests by method, route path, and status code.
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// httpLat omits status to keep the histogram small.
	httpLat = prometheus.NewHistogramVec(
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

	// httpRespSize buckets are tuned for small JSON documents.
	httpRespSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_response_size_bytes",
			Help: "Size of HTTP responses in bytes.",
			Buckets: []float64{
				64, 128, 256, 512, 1 << 10, 2 << 10, 5 << 10, // 64B..5KiB
				10 << 10, 50 << 10, 100 << 10, 500 << 10, 1 << 20, // 10KiB..1MiB
			},
		},
		[]string{"method", "path"},
	)

	// idemReplays counts create requests answered from an earlier
	// Idempotency-Key, by route.
	idemReplays = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idempotent_replays_total",
			Help: "Create requests served from a previously used Idempotency-Key.",
		},
		[]string{"path"},
	)

	// healthSource backs health_checks_total; nil reads as zero.
	healthSource atomic.Pointer[func() uint64]

	healthChecks = prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "health_checks_total",
			Help: "Number of /health requests served since start.",
		},
		func() float64 {
			if fn := healthSource.Load(); fn != nil {
				return float64((*fn)())
			}
			return 0
		},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, httpRespSize, idemReplays, healthChecks)
}

// SetHealthCounter makes health_checks_total report fn, typically the visit
// counter of the shared application state. The last call wins.
func SetHealthCounter(fn func() uint64) {
	if fn == nil {
		healthSource.Store(nil)
		return
	}
	healthSource.Store(&fn)
}

// Metrics instruments every request with the collectors above and exposes
// them through the default Prometheus registry.
//
//	r.Use(middleware.Metrics())
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
// The path label is the registered route (c.FullPath()), so
// /courses/1/2 and /courses/3/4 share "/courses/:teacher_id/:course_id".
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = unmatchedPath
		}
		method := c.Request.Method

		httpReqs.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpLat.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		// Size is -1 when nothing was written.
		if size := c.Writer.Size(); size >= 0 {
			httpRespSize.WithLabelValues(method, path).Observe(float64(size))
		}
		if IsReplay(c) {
			idemReplays.WithLabelValues(path).Inc()
		}
	}
}
