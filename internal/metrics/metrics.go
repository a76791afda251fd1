package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks front-end request latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "netsereno",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		[]string{"method", "path", "status"},
	)

	// GeneratorLatency tracks calls to the external assessment service
	GeneratorLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "netsereno",
			Name:      "generator_call_duration_seconds",
			Help:      "Assessment service call duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~50s
		},
		[]string{"status"},
	)

	// AssessmentsTotal counts produced assessments by canonical verdict
	AssessmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "netsereno",
			Name:      "assessments_total",
			Help:      "Total number of assessments produced",
		},
		[]string{"verdict"},
	)

	// ExtractionFailures counts artifacts rejected by the normalizer
	ExtractionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "netsereno",
			Name:      "extraction_failures_total",
			Help:      "Total number of rejected uploads",
		},
		[]string{"reason"},
	)
)

// RecordHTTPRequestDuration records one HTTP request
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordGeneratorLatency records one call to the assessment service
func RecordGeneratorLatency(status string, duration time.Duration) {
	GeneratorLatency.WithLabelValues(status).Observe(duration.Seconds())
}

// IncrementAssessment counts an assessment with the given verdict
func IncrementAssessment(verdict string) {
	AssessmentsTotal.WithLabelValues(verdict).Inc()
}

// IncrementExtractionFailure counts a rejected upload
func IncrementExtractionFailure(reason string) {
	ExtractionFailures.WithLabelValues(reason).Inc()
}
