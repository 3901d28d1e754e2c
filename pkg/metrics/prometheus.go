// Package metrics provides Prometheus metrics for the lightswitch service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByType        *prometheus.CounterVec

	// File store
	filesListed         prometheus.Counter
	fileListErrors      prometheus.Counter
	downloads           prometheus.Counter
	downloadBytes       prometheus.Counter
	downloadMisses      prometheus.Counter
	downloadRejectNames prometheus.Counter

	// Endpoint registry and lifecycle
	registrySize      prometheus.Gauge
	restartsScheduled prometheus.Counter
	restartsRejected  prometheus.Counter
	startTimeSeconds  prometheus.Gauge

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide collectors

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // exported via GetRegistry

func init() { //nolint:gochecknoinits // global collectors must exist before handlers run
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "lightswitch",
		subsystem:        "api",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	httpLabels := []string{"endpoint", "method", "status_code"}

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		httpLabels,
	)
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, httpLabels)
	m.errorsByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of error responses by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorsByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of error responses by type and severity"),
		[]string{"error_type", "severity"},
	)

	m.filesListed = auto.NewCounter(m.counterOpts("files_listed_total", "Total number of file entries returned by listings"))
	m.fileListErrors = auto.NewCounter(m.counterOpts("file_list_errors_total", "Total number of failed directory listings"))
	m.downloads = auto.NewCounter(m.counterOpts("downloads_total", "Total number of files served"))
	m.downloadBytes = auto.NewCounter(m.counterOpts("download_bytes_total", "Total number of bytes served by downloads"))
	m.downloadMisses = auto.NewCounter(m.counterOpts("download_misses_total", "Total number of downloads for files that could not be opened"))
	m.downloadRejectNames = auto.NewCounter(m.counterOpts("download_rejected_names_total", "Total number of downloads rejected because the name escaped the files directory"))

	m.registrySize = auto.NewGauge(m.gaugeOpts("endpoint_registry_size", "Number of descriptors in the endpoint registry"))
	m.restartsScheduled = auto.NewCounter(m.counterOpts("restarts_scheduled_total", "Total number of restart requests that armed the exit timer"))
	m.restartsRejected = auto.NewCounter(m.counterOpts("restarts_rejected_total", "Total number of restart requests refused by configuration"))
	m.startTimeSeconds = auto.NewGauge(m.gaugeOpts("start_time_seconds", "Unix time the service recorded as its start time"))

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "Average GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: m.constLabels,
	})
}

// RecordHTTPRequest records one served request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records an error response.
func (m *Manager) RecordHTTPError(endpoint, method, errorType, severity string) {
	m.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	m.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// RecordFilesListed adds n listed entries.
func (m *Manager) RecordFilesListed(n int) { m.filesListed.Add(float64(n)) }

// RecordFileListError counts a failed listing.
func (m *Manager) RecordFileListError() { m.fileListErrors.Inc() }

// RecordDownload counts a served file of size bytes.
func (m *Manager) RecordDownload(size int64) {
	m.downloads.Inc()
	if size > 0 {
		m.downloadBytes.Add(float64(size))
	}
}

// RecordDownloadMiss counts a download for a file that was not found.
func (m *Manager) RecordDownloadMiss() { m.downloadMisses.Inc() }

// RecordDownloadRejected counts a download whose name escaped the directory.
func (m *Manager) RecordDownloadRejected() { m.downloadRejectNames.Inc() }

// UpdateRegistrySize sets the endpoint registry size.
func (m *Manager) UpdateRegistrySize(n int) { m.registrySize.Set(float64(n)) }

// RecordRestartScheduled counts an armed restart.
func (m *Manager) RecordRestartScheduled() { m.restartsScheduled.Inc() }

// RecordRestartRejected counts a refused restart.
func (m *Manager) RecordRestartRejected() { m.restartsRejected.Inc() }

// SetStartTime records the service start time as unix seconds.
func (m *Manager) SetStartTime(unixSeconds float64) { m.startTimeSeconds.Set(unixSeconds) }

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) { m.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine count.
func (m *Manager) UpdateSystemGoroutineCount(n int) { m.systemGoroutineCount.Set(float64(n)) }

// RecordSystemGCPauseTime observes a GC pause in milliseconds.
func (m *Manager) RecordSystemGCPauseTime(pauseMs float64) { m.systemGCPauseTime.Observe(pauseMs) }

// Package-level helpers delegate to the process-wide manager.

// Default returns the process-wide manager.
func Default() *Manager { return globalManager }

// RecordHTTPRequest records an HTTP request on the process-wide manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordHTTPError records an error response on the process-wide manager.
func RecordHTTPError(endpoint, method, errorType, severity string) {
	globalManager.RecordHTTPError(endpoint, method, errorType, severity)
}

// RecordFilesListed adds n listed entries.
func RecordFilesListed(n int) { globalManager.RecordFilesListed(n) }

// RecordFileListError counts a failed listing.
func RecordFileListError() { globalManager.RecordFileListError() }

// RecordDownload counts a served file.
func RecordDownload(size int64) { globalManager.RecordDownload(size) }

// RecordDownloadMiss counts a missing download.
func RecordDownloadMiss() { globalManager.RecordDownloadMiss() }

// RecordDownloadRejected counts a rejected download name.
func RecordDownloadRejected() { globalManager.RecordDownloadRejected() }

// UpdateRegistrySize sets the endpoint registry size.
func UpdateRegistrySize(n int) { globalManager.UpdateRegistrySize(n) }

// RecordRestartScheduled counts an armed restart.
func RecordRestartScheduled() { globalManager.RecordRestartScheduled() }

// RecordRestartRejected counts a refused restart.
func RecordRestartRejected() { globalManager.RecordRestartRejected() }

// SetStartTime records the start time.
func SetStartTime(unixSeconds float64) { globalManager.SetStartTime(unixSeconds) }

// UpdateSystemMemoryUsage sets the heap usage.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.UpdateSystemMemoryUsage(bytes) }

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(n int) { globalManager.UpdateSystemGoroutineCount(n) }

// RecordSystemGCPauseTime observes a GC pause.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.RecordSystemGCPauseTime(pauseMs) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
