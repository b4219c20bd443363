// Package metrics provides Prometheus metrics for the kitcheck service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
	maxSearchDepth         = 9
)

// Verdict label values for evaluations.
const (
	VerdictConflict = "conflict"
	VerdictClear    = "clear"
)

// Manager manages all Prometheus metrics for the kitcheck service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Business metrics
	analysesTotal    *prometheus.CounterVec
	evaluationsTotal *prometheus.CounterVec
	searchDepth      prometheus.Histogram
	analysisLatency  prometheus.Histogram
	deltaE           prometheus.Histogram

	// Batch metrics
	batchQueueSize  prometheus.Gauge
	batchJobsTotal  *prometheus.CounterVec
	batchJobLatency prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "kitcheck",
		subsystem:        "analyzer",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.analysesTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "analyses_total",
		Help:        "Total number of kit analyses by outcome status",
		ConstLabels: constLabels,
	}, []string{"status"})

	m.evaluationsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "evaluations_total",
		Help:        "Total number of pairwise color evaluations by verdict",
		ConstLabels: constLabels,
	}, []string{"verdict"})

	depthBuckets := make([]float64, 0, maxSearchDepth+1)
	for i := 0; i <= maxSearchDepth; i++ {
		depthBuckets = append(depthBuckets, float64(i))
	}
	m.searchDepth = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "search_comparisons",
		Help:        "Number of comparisons performed per kit search",
		Buckets:     depthBuckets,
		ConstLabels: constLabels,
	})

	m.analysisLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "analysis_latency_milliseconds",
		Help:        "Histogram of end-to-end analysis latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	})

	m.deltaE = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "delta_e",
		Help:        "CIEDE2000 distance of evaluated color pairs",
		Buckets:     []float64{1, 2.3, 5, 10, 15, 20, 25, 35, 50, 75, 100},
		ConstLabels: constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_type_total",
		Help:        "Total errors by error type and severity",
		ConstLabels: constLabels,
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_endpoint_total",
		Help:        "Total errors by endpoint",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.batchQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "batch",
		Name:        "queue_size",
		Help:        "Number of fixtures waiting in the batch queue",
		ConstLabels: constLabels,
	})

	m.batchJobsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "batch",
		Name:        "jobs_total",
		Help:        "Total number of batch fixtures processed by outcome status",
		ConstLabels: constLabels,
	}, []string{"status"})

	m.batchJobLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "batch",
		Name:        "job_latency_milliseconds",
		Help:        "Time spent by a worker on one batch fixture in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_usage_bytes",
		Help:        "Current allocated heap memory in bytes",
		ConstLabels: constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutines",
		Help:        "Current number of goroutines",
		ConstLabels: constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "gc_pause_milliseconds",
		Help:        "Average GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: constLabels,
	})
}

// RefreshInterval is how often system gauges should be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// RecordAnalysis counts one finished analysis by status (ok, conflict, error).
func (m *Manager) RecordAnalysis(status string) {
	if m.enabled {
		m.analysesTotal.WithLabelValues(status).Inc()
	}
}

// RecordEvaluation counts one pairwise evaluation and observes its deltaE.
func (m *Manager) RecordEvaluation(conflict bool, deltaE float64) {
	if !m.enabled {
		return
	}
	verdict := VerdictClear
	if conflict {
		verdict = VerdictConflict
	}
	m.evaluationsTotal.WithLabelValues(verdict).Inc()
	m.deltaE.Observe(deltaE)
}

// RecordSearchDepth observes the number of comparisons one search needed.
func (m *Manager) RecordSearchDepth(comparisons int) {
	if m.enabled {
		m.searchDepth.Observe(float64(comparisons))
	}
}

// RecordAnalysisLatency records analysis latency in milliseconds.
func (m *Manager) RecordAnalysisLatency(latencyMs float64) {
	if m.enabled {
		m.analysisLatency.Observe(latencyMs)
	}
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method string, statusCode int, durationMs float64) {
	if !m.enabled {
		return
	}
	code := strconv.Itoa(statusCode)
	m.httpRequests.WithLabelValues(endpoint, method, code).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, code).Observe(durationMs)
}

// RecordError records an error by endpoint, type and severity.
func (m *Manager) RecordError(endpoint, method, errorType, severity string) {
	if !m.enabled {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateQueueSize sets the number of queued batch fixtures.
func (m *Manager) UpdateQueueSize(size int) {
	if m.enabled {
		m.batchQueueSize.Set(float64(size))
	}
}

// RecordBatchJob counts one processed batch fixture and observes its latency.
func (m *Manager) RecordBatchJob(status string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.batchJobsTotal.WithLabelValues(status).Inc()
	m.batchJobLatency.Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	m.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func (m *Manager) UpdateSystemGoroutineCount(count int) {
	m.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func (m *Manager) RecordSystemGCPauseTime(pauseMs float64) {
	m.systemGCPauseTime.Observe(pauseMs)
}

// Default returns the process-wide manager bound to GetRegistry.
func Default() *Manager { return globalManager }

// RecordAnalysis counts one finished analysis on the global manager.
func RecordAnalysis(status string) { globalManager.RecordAnalysis(status) }

// RecordEvaluation counts one evaluation on the global manager.
func RecordEvaluation(conflict bool, deltaE float64) {
	globalManager.RecordEvaluation(conflict, deltaE)
}

// RecordSearchDepth observes search depth on the global manager.
func RecordSearchDepth(comparisons int) { globalManager.RecordSearchDepth(comparisons) }

// RecordAnalysisLatency records analysis latency on the global manager.
func RecordAnalysisLatency(latencyMs float64) { globalManager.RecordAnalysisLatency(latencyMs) }

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method string, statusCode int, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordError records an error on the global manager.
func RecordError(endpoint, method, errorType, severity string) {
	globalManager.RecordError(endpoint, method, errorType, severity)
}

// UpdateSystemMemoryUsage sets memory usage on the global manager.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.UpdateSystemMemoryUsage(bytes) }

// UpdateSystemGoroutineCount sets goroutine count on the global manager.
func UpdateSystemGoroutineCount(count int) { globalManager.UpdateSystemGoroutineCount(count) }

// RecordSystemGCPauseTime records GC pause time on the global manager.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.RecordSystemGCPauseTime(pauseMs) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
