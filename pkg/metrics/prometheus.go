// Package metrics provides Prometheus metrics for the torneos service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the torneos service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Import Pipeline Metrics - Report processing outcomes
	importsDone        prometheus.Counter
	importsFailed      prometheus.Counter
	importsDuplicate   prometheus.Counter
	importRowsImported *prometheus.CounterVec
	importRowsMatched  *prometheus.CounterVec

	// Seating Balance Metrics - Partition quality and cost
	balanceRuns       prometheus.Counter
	balanceLatency    prometheus.Histogram
	balanceDifference prometheus.Histogram

	// Operational Health Metrics
	queueSize        prometheus.Gauge
	workerCount      prometheus.Gauge
	totalPlayers     prometheus.Gauge
	totalTournaments prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Scoreboard Metrics - Season ranking reads and writes
	scoreboardPlayers       prometheus.Gauge
	scoreboardUpdateLatency prometheus.Histogram
	scoreboardQueryLatency  prometheus.Histogram

	// Store Metrics - Record persistence timings
	storeUpdateLatency prometheus.Histogram
	storeQueryLatency  prometheus.Histogram

	// Queue Metrics - Import queue performance
	queueCapacity       prometheus.Gauge
	queueUtilization    prometheus.Gauge
	queueEnqueueRate    prometheus.Counter
	queueDequeueRate    prometheus.Counter
	queueEnqueueErrors  prometheus.Counter
	queueEnqueueLatency prometheus.Histogram

	// Worker Metrics - Processing performance
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrorRate         prometheus.Counter

	// WebSocket Metrics - Desk notification fanout
	wsClients    prometheus.Gauge
	wsBroadcasts prometheus.Counter

	// Enhanced Error Metrics - Detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "torneos",
		subsystem:        "admin",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// registerer returns the registration target. A disabled manager
// returns nil, which makes promauto create the metrics without
// registering them anywhere: recording stays safe and nothing is
// collected.
func (m *Manager) registerer() prometheus.Registerer {
	if !m.enabled {
		return nil
	}
	return m.registry
}

// constLabels converts the configured custom labels for attachment to
// every metric.
func (m *Manager) constLabels() prometheus.Labels {
	if len(m.customLabels) == 0 {
		return nil
	}
	return prometheus.Labels(m.customLabels)
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: m.constLabels(),
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: m.constLabels(),
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels(),
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registerer())

	// Import Pipeline Metrics - Outcomes of PairsScorer report imports
	m.importsDone = auto.NewCounter(m.counterOpts("imports_done_total",
		"Total number of report imports applied successfully"))
	m.importsFailed = auto.NewCounter(m.counterOpts("imports_failed_total",
		"Total number of report imports that failed to parse or apply"))
	m.importsDuplicate = auto.NewCounter(m.counterOpts("imports_duplicate_total",
		"Total number of duplicate report submissions rejected"))
	m.importRowsImported = auto.NewCounterVec(m.counterOpts("import_rows_imported_total",
		"Total number of report rows imported, by report kind"), []string{"kind"})
	m.importRowsMatched = auto.NewCounterVec(m.counterOpts("import_rows_matched_total",
		"Total number of imported rows matched to registered players, by report kind"), []string{"kind"})

	// Seating Balance Metrics - Partition quality indicators
	m.balanceRuns = auto.NewCounter(m.counterOpts("balance_runs_total",
		"Total number of seating balance computations"))
	m.balanceLatency = auto.NewHistogram(m.histogramOpts("balance_latency_milliseconds",
		"Histogram of seating balance computation latency in milliseconds", m.histogramBuckets))
	m.balanceDifference = auto.NewHistogram(m.histogramOpts("balance_rating_difference",
		"Histogram of the absolute average rating difference between lines after balancing",
		[]float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}))

	// Operational Health Metrics - System stability indicators
	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size",
		"Current size of the import queue (backlog indicator)"))
	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count",
		"Configured number of import workers (processing capacity)"))
	m.totalPlayers = auto.NewGauge(m.gaugeOpts("total_players",
		"Total number of registered players (club scale)"))
	m.totalTournaments = auto.NewGauge(m.gaugeOpts("total_tournaments",
		"Total number of tournaments on record"))

	// HTTP Performance Metrics - Desk experience indicators
	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})

	// Scoreboard Metrics - Season ranking performance
	m.scoreboardPlayers = auto.NewGauge(m.gaugeOpts("scoreboard_players",
		"Number of players currently ranked on the season scoreboard"))
	m.scoreboardUpdateLatency = auto.NewHistogram(m.histogramOpts("scoreboard_update_latency_milliseconds",
		"Scoreboard update operation latency in milliseconds", m.histogramBuckets))
	m.scoreboardQueryLatency = auto.NewHistogram(m.histogramOpts("scoreboard_query_latency_milliseconds",
		"Scoreboard query operation latency in milliseconds", m.histogramBuckets))

	// Store Metrics - Record persistence timings
	m.storeUpdateLatency = auto.NewHistogram(m.histogramOpts("store_update_latency_milliseconds",
		"Store update operation latency in milliseconds", m.histogramBuckets))
	m.storeQueryLatency = auto.NewHistogram(m.histogramOpts("store_query_latency_milliseconds",
		"Store query operation latency in milliseconds", m.histogramBuckets))

	// Queue Metrics - Import queue performance
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity",
		"Maximum import queue capacity"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio",
		"Import queue utilization ratio (current size / capacity)"))
	m.queueEnqueueRate = auto.NewCounter(m.counterOpts("queue_enqueue_total",
		"Total number of import jobs enqueued"))
	m.queueDequeueRate = auto.NewCounter(m.counterOpts("queue_dequeue_total",
		"Total number of import jobs dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total",
		"Total number of enqueue rejections (queue full or closed)"))
	m.queueEnqueueLatency = auto.NewHistogram(m.histogramOpts("queue_enqueue_latency_milliseconds",
		"Enqueue operation latency in milliseconds", m.histogramBuckets))

	// Worker Metrics - Processing performance
	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count",
		"Number of workers currently applying an import"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds",
		"Worker processing latency in milliseconds", m.histogramBuckets))
	m.workerErrorRate = auto.NewCounter(m.counterOpts("worker_errors_total",
		"Total number of worker errors"))

	// WebSocket Metrics - Desk notification fanout
	m.wsClients = auto.NewGauge(m.gaugeOpts("ws_clients",
		"Number of connected WebSocket clients"))
	m.wsBroadcasts = auto.NewCounter(m.counterOpts("ws_broadcasts_total",
		"Total number of WebSocket messages broadcast"))

	// Enhanced Error Metrics - Detailed error tracking
	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Total number of errors by component"), []string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total",
		"Total number of errors by type"), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"Total number of errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts("error_latency_milliseconds",
		"Latency of operations that resulted in errors", m.histogramBuckets),
		[]string{"component", "error_type"})

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Import Pipeline Metrics Functions.

// RecordImportDone increments the successful imports counter.
func RecordImportDone() {
	globalManager.importsDone.Inc()
}

// RecordImportFailed increments the failed imports counter.
func RecordImportFailed() {
	globalManager.importsFailed.Inc()
}

// RecordImportDuplicate increments the duplicate submissions counter.
func RecordImportDuplicate() {
	globalManager.importsDuplicate.Inc()
}

// RecordImportRows records the imported and matched row counts for a report kind.
func RecordImportRows(kind string, imported, matched int) {
	globalManager.importRowsImported.WithLabelValues(kind).Add(float64(imported))
	globalManager.importRowsMatched.WithLabelValues(kind).Add(float64(matched))
}

// Seating Balance Metrics Functions.

// RecordBalanceRun increments the balance computations counter.
func RecordBalanceRun() {
	globalManager.balanceRuns.Inc()
}

// RecordBalanceLatency records a balance computation latency in milliseconds.
func RecordBalanceLatency(latencyMs float64) {
	globalManager.balanceLatency.Observe(latencyMs)
}

// ObserveBalanceDifference records the rating difference between lines after a balance run.
func ObserveBalanceDifference(difference float64) {
	globalManager.balanceDifference.Observe(difference)
}

// Operational Health Metrics Functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateTotalPlayers sets the total registered players count.
func UpdateTotalPlayers(count int) {
	globalManager.totalPlayers.Set(float64(count))
}

// UpdateTotalTournaments sets the total tournaments count.
func UpdateTotalTournaments(count int) {
	globalManager.totalTournaments.Set(float64(count))
}

// HTTP Performance Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Scoreboard Metrics Functions.

// UpdateScoreboardPlayers sets the number of ranked players.
func UpdateScoreboardPlayers(count int) {
	globalManager.scoreboardPlayers.Set(float64(count))
}

// RecordScoreboardUpdateLatency records a scoreboard update latency.
func RecordScoreboardUpdateLatency(latencyMs float64) {
	globalManager.scoreboardUpdateLatency.Observe(latencyMs)
}

// RecordScoreboardQueryLatency records a scoreboard query latency.
func RecordScoreboardQueryLatency(latencyMs float64) {
	globalManager.scoreboardQueryLatency.Observe(latencyMs)
}

// Store Metrics Functions.

// RecordStoreUpdateLatency records a store update operation latency.
func RecordStoreUpdateLatency(latencyMs float64) {
	globalManager.storeUpdateLatency.Observe(latencyMs)
}

// RecordStoreQueryLatency records a store query operation latency.
func RecordStoreQueryLatency(latencyMs float64) {
	globalManager.storeQueryLatency.Observe(latencyMs)
}

// Queue Metrics Functions.

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueEnqueueLatency records an enqueue operation latency.
func RecordQueueEnqueueLatency(latencyMs float64) {
	globalManager.queueEnqueueLatency.Observe(latencyMs)
}

// Worker Metrics Functions.

// UpdateWorkerActiveCount sets the number of workers currently applying imports.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrorRate.Inc()
}

// WebSocket Metrics Functions.

// UpdateWSClients sets the number of connected WebSocket clients.
func UpdateWSClients(count int) {
	globalManager.wsClients.Set(float64(count))
}

// RecordWSBroadcast increments the broadcast counter.
func RecordWSBroadcast() {
	globalManager.wsBroadcasts.Inc()
}

// Enhanced Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

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

// System Performance Metrics Functions.

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
