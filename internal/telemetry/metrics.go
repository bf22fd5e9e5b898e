// Package telemetry provides application-level observability for the vault.
//
// # Prometheus Metrics Endpoint
//
// All metrics are registered against the default Prometheus registry and are
// automatically available on the side-channel HTTP server started by main.go:
//
//	GET http(s)://<host>:<SVT_TELEMETRY_METRICS_PROMETHEUS_PORT>/metrics
//
// Default port: 9090.  The endpoint returns data in the Prometheus text exposition
// format (Content-Type: text/plain; version=0.0.4) and is intended to be scraped by
// a Prometheus server every 15–60 seconds.  It is NOT served by the Gin router.
//
// # Metric Groups
//
//   - HTTP request counters and latency histograms (labelled by route template, not raw URL)
//   - File lifecycle counters (uploads, downloads, shreds)
//   - Decryption failure and corrupted record counters
//   - Integrity sweep duration and corrupted-record gauge
//   - Database connection pool gauge (polled every 30 s)
//
// # Label Cardinality
//
// HTTP metrics use c.FullPath() (route template such as /api/v1/files/:id/download)
// rather than the raw request URL to prevent unbounded label cardinality from
// user-supplied path segments such as file IDs.
//
// # Usage
//
// Import the package for side effects so metrics are registered before the HTTP server
// starts listening:
//
//	import _ "github.com/SumitKasaudhan/secure-storage-backend/internal/telemetry"
//
// Or import it directly and use an exported var:
//
//	telemetry.FileDownloadsTotal.Inc()
package telemetry

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics — labelled by method, route template, and status code.
//
// HTTPRequestsTotal is a CounterVec with labels {method, path, status}.
// The path label holds the Gin route template (e.g. /api/v1/files/:id/download),
// NOT the raw URL, to prevent unbounded cardinality.
//
// Example PromQL queries:
//   - Request rate (req/s, 5 m window):  rate(http_requests_total[5m])
//   - Error rate (%):                    sum(rate(http_requests_total{status=~"5.."}[5m])) / sum(rate(http_requests_total[5m])) * 100
//   - Requests by route:                 sum by (path) (rate(http_requests_total[5m]))
//
// HTTPRequestDuration is a HistogramVec with labels {method, path} and exponential-ish
// buckets from 5 ms to 30 s.  Use histogram_quantile to compute latency percentiles.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)
)

// File lifecycle metrics — incremented by the vault service on each successful
// operation.
//
// Example PromQL queries:
//   - Upload rate:          rate(vault_file_uploads_total[1h])
//   - Shred volume (24 h):  increase(vault_files_shredded_total[24h])
var (
	FileUploadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vault_file_uploads_total",
			Help: "Total number of files successfully uploaded and encrypted.",
		},
	)

	FileDownloadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vault_file_downloads_total",
			Help: "Total number of files successfully decrypted and served.",
		},
	)

	FilesShreddedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vault_files_shredded_total",
			Help: "Total number of files destroyed via shred requests.",
		},
	)
)

// Integrity metrics.
//
// DecryptionFailuresTotal counts padding or structural failures observed while
// serving downloads.  Any sustained nonzero rate indicates stored records are
// being corrupted and warrants an alert:
//
//	increase(vault_decryption_failures_total[1h]) > 0
//
// CorruptedRecordsObserved is a Gauge set by each integrity sweep pass to the
// number of records whose envelope failed validation.  Unlike the counter it
// can go back down after records are repaired or removed.
//
// IntegritySweepDuration observes one complete read-only scan of the files
// table per data point.
var (
	DecryptionFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vault_decryption_failures_total",
			Help: "Total number of decryption failures observed while serving files.",
		},
	)

	CorruptedRecordsObserved = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vault_corrupted_records",
			Help: "Number of file records whose envelope failed validation during the last integrity sweep.",
		},
	)

	IntegritySweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vault_integrity_sweep_duration_seconds",
			Help:    "Duration of a single integrity sweep over all file records.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// DBOpenConnections is a Gauge that tracks the number of open connections currently
// held by the sql.DB connection pool.  It is sampled every 30 seconds by
// StartDBStatsCollector rather than per-request to avoid the overhead of sql.DB.Stats().
//
// Example PromQL queries:
//   - Pool utilisation (%): db_open_connections / <SVT_DATABASE_MAX_CONNECTIONS> * 100
//   - Alert on near-exhaustion: db_open_connections > 20  (for max_connections=25)
var DBOpenConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "db_open_connections",
		Help: "Current number of open database connections in the pool.",
	},
)

// StartDBStatsCollector launches a background goroutine that samples sql.DB connection
// pool statistics every 30 seconds and updates the DBOpenConnections gauge.
// The goroutine exits cleanly when the database becomes unreachable (db.Ping fails),
// which happens automatically when the application shuts down and defers db.Close().
//
// Call this once, immediately after db.Connect() succeeds in main.go:
//
//	telemetry.StartDBStatsCollector(database)
func StartDBStatsCollector(db *sql.DB) {
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := db.Ping(); err != nil {
				slog.Warn("db stats collector: database unreachable, stopping collector", "error", err)
				return
			}
			DBOpenConnections.Set(float64(db.Stats().OpenConnections))
		}
	}()
}
