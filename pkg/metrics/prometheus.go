// Package metrics provides Prometheus metrics for the iplstats analytics service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector used by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Dataset loading
	datasetLoads        *prometheus.CounterVec
	datasetLoadDuration prometheus.Histogram
	datasetRows         *prometheus.GaugeVec
	datasetDroppedRows  *prometheus.GaugeVec
	datasetLastLoadUnix prometheus.Gauge

	// Dataset cache
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	// Aggregation views
	viewComputations *prometheus.CounterVec
	viewDuration     *prometheus.HistogramVec
	filteredMatches  prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ipl",
		subsystem:        "analytics",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for all collectors
	auto := promauto.With(m.registry)

	m.datasetLoads = auto.NewCounterVec(
		m.counterOpts("dataset_loads_total", "Dataset load attempts by outcome"),
		[]string{"status"},
	)
	m.datasetLoadDuration = auto.NewHistogram(
		m.histogramOpts("dataset_load_duration_milliseconds", "Time spent reading and normalizing both tables"),
	)
	m.datasetRows = auto.NewGaugeVec(
		m.gaugeOpts("dataset_rows", "Rows held in memory per table for the current epoch"),
		[]string{"table"},
	)
	m.datasetDroppedRows = auto.NewGaugeVec(
		m.gaugeOpts("dataset_dropped_rows", "Rows dropped or nulled during the last load, by reason"),
		[]string{"reason"},
	)
	m.datasetLastLoadUnix = auto.NewGauge(
		m.gaugeOpts("dataset_last_load_unix_seconds", "Unix time of the last successful load"),
	)

	m.cacheHits = auto.NewCounter(m.counterOpts("dataset_cache_hits_total", "Dataset reads served from the current epoch"))
	m.cacheMisses = auto.NewCounter(m.counterOpts("dataset_cache_misses_total", "Dataset reads that triggered a load"))

	m.viewComputations = auto.NewCounterVec(
		m.counterOpts("view_computations_total", "Aggregation view computations by view and outcome"),
		[]string{"view", "status"},
	)
	m.viewDuration = auto.NewHistogramVec(
		m.histogramOpts("view_duration_milliseconds", "Aggregation view latency in milliseconds"),
		[]string{"view"},
	)
	m.filteredMatches = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("filtered_matches"),
		Help:        "Number of matches left after applying a selection",
		Buckets:     prometheus.ExponentialBuckets(1, 2, 12),
		ConstLabels: m.customLabels,
	})

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that ended in an error"),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_milliseconds", "Average GC pause in milliseconds"),
	)
}

// Dataset metrics.

// RecordDatasetLoad records a load attempt; status is "success" or "error".
func RecordDatasetLoad(status string, durationMs float64) {
	globalManager.datasetLoads.WithLabelValues(status).Inc()
	globalManager.datasetLoadDuration.Observe(durationMs)
}

// UpdateDatasetRows sets the in-memory row count for a table.
func UpdateDatasetRows(table string, rows int) {
	globalManager.datasetRows.WithLabelValues(table).Set(float64(rows))
}

// UpdateDatasetDroppedRows sets the number of rows affected by a load-time rule.
func UpdateDatasetDroppedRows(reason string, rows int) {
	globalManager.datasetDroppedRows.WithLabelValues(reason).Set(float64(rows))
}

// UpdateDatasetLastLoad sets the unix time of the last successful load.
func UpdateDatasetLastLoad(unixSeconds int64) {
	globalManager.datasetLastLoadUnix.Set(float64(unixSeconds))
}

// RecordCacheHit counts a read served from the cached epoch.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss counts a read that had to load.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// View metrics.

// RecordViewComputation records one aggregation run.
func RecordViewComputation(view, status string, durationMs float64) {
	globalManager.viewComputations.WithLabelValues(view, status).Inc()
	globalManager.viewDuration.WithLabelValues(view).Observe(durationMs)
}

// RecordFilteredMatches observes the size of a filtered match table.
func RecordFilteredMatches(n int) {
	globalManager.filteredMatches.Observe(float64(n))
}

// HTTP metrics.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error metrics.

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System metrics.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
