package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// AnalyzeTotal counts analyze requests by outcome (ok, degraded, error).
	AnalyzeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scamlens",
		Subsystem: "api",
		Name:      "analyze_total",
		Help:      "Total number of analysis requests, labeled by outcome.",
	}, []string{"outcome"})

	// ModelCallDurationSeconds measures one round-trip to the model provider.
	ModelCallDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "scamlens",
		Subsystem: "api",
		Name:      "model_call_duration_seconds",
		Help:      "Wall time of a single model invocation, including network.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 60},
	})

	// UploadsTotal counts upload requests by result (ok, error).
	UploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scamlens",
		Subsystem: "api",
		Name:      "uploads_total",
		Help:      "Total number of upload requests, labeled by result.",
	}, []string{"result"})

	// ImageFetchSkippedTotal counts images dropped before the model call.
	ImageFetchSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scamlens",
		Subsystem: "api",
		Name:      "image_fetch_skipped_total",
		Help:      "Images skipped during prompt assembly, labeled by reason.",
	}, []string{"reason"})

	// BlobCleanupTotal counts post-analysis blob deletions by result.
	BlobCleanupTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scamlens",
		Subsystem: "api",
		Name:      "blob_cleanup_total",
		Help:      "Best-effort blob deletions after analysis, labeled by result.",
	}, []string{"result"})

	// HTTPRequestsTotal counts served HTTP requests.
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scamlens",
		Subsystem: "api",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests, labeled by path, method and status.",
	}, []string{"path", "method", "status"})

	// HTTPRequestDurationSeconds measures request handling end to end.
	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "scamlens",
		Subsystem: "api",
		Name:      "http_request_duration_seconds",
		Help:      "End-to-end HTTP request duration.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"path", "method"})
)

// Register registers all collectors with the default registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			AnalyzeTotal,
			ModelCallDurationSeconds,
			UploadsTotal,
			ImageFetchSkippedTotal,
			BlobCleanupTotal,
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
		)
	})
}

// Analyze records one analyze outcome: "ok", "degraded" or "error".
func Analyze(outcome string) {
	AnalyzeTotal.WithLabelValues(outcome).Inc()
}

// Upload records one upload result: "ok" or "error".
func Upload(result string) {
	UploadsTotal.WithLabelValues(result).Inc()
}

// BlobCleanup records one cleanup attempt: "ok" or "error".
func BlobCleanup(result string) {
	BlobCleanupTotal.WithLabelValues(result).Inc()
}

// ImageFetchSkipped buckets an IMAGE_NOTE into a coarse reason label.
func ImageFetchSkipped(note string) {
	reason := "error"
	switch {
	case strings.Contains(note, "too large"):
		reason = "too_large"
	case strings.Contains(note, "content-type is not image"):
		reason = "bad_type"
	case strings.Contains(note, "status="):
		reason = "status"
	}
	ImageFetchSkippedTotal.WithLabelValues(reason).Inc()
}
