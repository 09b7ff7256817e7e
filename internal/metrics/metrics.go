package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "photodrop"

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests processed, by method, route and status code.",
	}, []string{"method", "route", "status"})

	httpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	uploadURLs = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upload_urls_issued_total",
		Help:      "Pre-signed upload URLs issued.",
	})

	metadataRecords = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "metadata_records_total",
		Help:      "Object-created notifications processed, by result.",
	}, []string{"result"})

	viewURLFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "view_url_failures_total",
		Help:      "Gallery entries returned without a view URL because signing failed.",
	})

	contactEmails = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contact_emails_total",
		Help:      "Contact form submissions, by result.",
	}, []string{"result"})

	initOnce sync.Once
)

// InitMetrics registers the collectors with the default registry. Safe to call more than once.
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpLatency,
			uploadURLs,
			metadataRecords,
			viewURLFailures,
			contactEmails,
		)
	})
}

// Register attaches the Prometheus metrics endpoint to the router.
func Register(router *gin.Engine, path string) {
	router.GET(path, gin.WrapH(promhttp.Handler()))
}

// Middleware records request count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// UploadURLIssued counts one issued upload URL.
func UploadURLIssued() {
	uploadURLs.Inc()
}

// MetadataRecorded counts one processed notification; result is recorded, skipped or failed.
func MetadataRecorded(result string) {
	metadataRecords.WithLabelValues(result).Inc()
}

// ViewURLFailed counts one gallery entry that lost its view URL.
func ViewURLFailed() {
	viewURLFailures.Inc()
}

// ContactEmail counts one contact submission; result is sent, invalid or failed.
func ContactEmail(result string) {
	contactEmails.WithLabelValues(result).Inc()
}
