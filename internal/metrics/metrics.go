package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	recordUpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "demand_record_updates_total",
		Help: "Total number of record field updates, by field",
	}, []string{"field"})
	exportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "demand_exports_total",
		Help: "Total number of successful report exports, by format",
	}, []string{"format"})
	exportFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "demand_export_failures_total",
		Help: "Total number of failed report exports, by format",
	}, []string{"format"})
	restoresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "demand_restores_total",
		Help: "Total number of restore attempts, by outcome",
	}, []string{"outcome"})
	auditEntriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "demand_audit_entries_total",
		Help: "Total number of audit entries recorded, by action",
	}, []string{"action"})

	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "demand_http_requests_total",
		Help: "Total number of HTTP requests, by method, route template and status",
	}, []string{"method", "path", "status"})
	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "demand_http_request_duration_seconds",
		Help:    "HTTP request latencies, by method and route template",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "path"})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry prometheus.Registerer) {
	registry.MustRegister(
		recordUpdatesTotal,
		exportsTotal,
		exportFailuresTotal,
		restoresTotal,
		auditEntriesTotal,
		httpRequestsTotal,
		httpRequestDuration,
	)
}

// IncRecordUpdate counts one field update.
func IncRecordUpdate(field string) { recordUpdatesTotal.WithLabelValues(field).Inc() }

// IncExport counts a finished export.
func IncExport(format string) { exportsTotal.WithLabelValues(format).Inc() }

// IncExportFailure counts an export that produced no payload.
func IncExportFailure(format string) { exportFailuresTotal.WithLabelValues(format).Inc() }

// IncRestore counts a restore attempt; outcome is "ok", "parse_error" or "shape_error".
func IncRestore(outcome string) { restoresTotal.WithLabelValues(outcome).Inc() }

// IncAuditEntry counts a recorded audit entry.
func IncAuditEntry(action string) { auditEntriesTotal.WithLabelValues(action).Inc() }

// Middleware records request count and latency. Paths use the route
// template so user supplied segments do not blow up label cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
