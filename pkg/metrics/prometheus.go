// Package metrics provides Prometheus metrics for the rally rotation service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the rally service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Rotation metrics, the core of the service
	gamesProcessed   prometheus.Counter
	courtAssignments prometheus.Counter
	winnersRetained  prometheus.Counter
	winnersRequeued  prometheus.Counter
	pairingsRecorded prometheus.Counter
	invalidResults   *prometheus.CounterVec
	rotationLatency  prometheus.Histogram

	// Session state gauges
	queueLength      prometheus.Gauge
	seatedPlayers    prometheus.Gauge
	activePlayers    prometheus.Gauge
	rosterSize       prometheus.Gauge
	courtsInPlay     prometheus.Gauge
	standingsPlayers prometheus.Gauge

	// Standings metrics
	standingsUpdateLatency prometheus.Histogram

	// Persistence metrics
	snapshotPersistLatency prometheus.Histogram
	snapshotPersistCount   prometheus.Counter
	snapshotPersistErrors  prometheus.Counter
	snapshotLastUnix       prometheus.Gauge
	snapshotQueueDepth     prometheus.Gauge

	// Export metrics
	exportRequests *prometheus.CounterVec

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorsByComponent *prometheus.CounterVec

	// System performance metrics
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
		namespace:        "rally",
		subsystem:        "session",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval reports how often gauge metrics should be refreshed.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	// Rotation metrics
	m.gamesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "games_processed_total",
		Help:      "Total number of game results successfully processed",
	})

	m.courtAssignments = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "court_assignments_total",
		Help:      "Total number of players placed into court slots from the queue",
	})

	m.winnersRetained = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "winners_retained_total",
		Help:      "Total number of winners kept on court for another game",
	})

	m.winnersRequeued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "winners_requeued_total",
		Help:      "Total number of winners sent back to the queue by the streak cap",
	})

	m.pairingsRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pairings_recorded_total",
		Help:      "Total number of teammate pairings recorded",
	})

	m.invalidResults = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "invalid_results_total",
			Help:      "Total number of rejected game results by reason",
		},
		[]string{"reason"},
	)

	m.rotationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rotation_latency_milliseconds",
		Help:      "Histogram of win processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Session state gauges
	m.queueLength = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_length",
		Help:      "Current number of players waiting in the queue",
	})

	m.seatedPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "seated_players",
		Help:      "Current number of players seated on courts",
	})

	m.activePlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_players",
		Help:      "Current number of active players in the roster",
	})

	m.rosterSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "roster_size",
		Help:      "Total number of players in the roster",
	})

	m.courtsInPlay = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "courts_in_play",
		Help:      "Number of courts with at least one occupied slot",
	})

	m.standingsPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "standings_players",
		Help:      "Number of players tracked in the standings",
	})

	// Standings metrics
	m.standingsUpdateLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "standings_update_duration_milliseconds",
		Help:      "Standings update latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Persistence metrics
	m.snapshotPersistLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_persist_latency_milliseconds",
		Help:      "Session snapshot persistence latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.snapshotPersistCount = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_persist_total",
		Help:      "Total number of session snapshots persisted",
	})

	m.snapshotPersistErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_persist_errors_total",
		Help:      "Total number of failed snapshot persist attempts",
	})

	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_last_unix",
		Help:      "Unix timestamp of the last persisted snapshot",
	})

	m.snapshotQueueDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_queue_depth",
		Help:      "Number of snapshots waiting to be persisted",
	})

	// Export metrics
	m.exportRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "export_requests_total",
			Help:      "Total number of export downloads by format",
		},
		[]string{"format"},
	)

	// HTTP performance metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Error tracking
	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	// System performance metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordGameProcessed increments the processed games counter.
func RecordGameProcessed() {
	globalManager.gamesProcessed.Inc()
}

// RecordCourtAssignments adds to the court assignments counter.
func RecordCourtAssignments(count int) {
	globalManager.courtAssignments.Add(float64(count))
}

// RecordWinnersRetained adds to the retained winners counter.
func RecordWinnersRetained(count int) {
	globalManager.winnersRetained.Add(float64(count))
}

// RecordWinnersRequeued adds to the requeued winners counter.
func RecordWinnersRequeued(count int) {
	globalManager.winnersRequeued.Add(float64(count))
}

// RecordPairingsRecorded adds to the recorded pairings counter.
func RecordPairingsRecorded(count int) {
	globalManager.pairingsRecorded.Add(float64(count))
}

// RecordInvalidResult increments the rejected results counter for a reason.
func RecordInvalidResult(reason string) {
	globalManager.invalidResults.WithLabelValues(reason).Inc()
}

// RecordRotationLatency records win processing latency in milliseconds.
func RecordRotationLatency(latencyMs float64) {
	globalManager.rotationLatency.Observe(latencyMs)
}

// UpdateQueueLength sets the current queue length.
func UpdateQueueLength(length int) {
	globalManager.queueLength.Set(float64(length))
}

// UpdateSeatedPlayers sets the current number of seated players.
func UpdateSeatedPlayers(count int) {
	globalManager.seatedPlayers.Set(float64(count))
}

// UpdateActivePlayers sets the current number of active players.
func UpdateActivePlayers(count int) {
	globalManager.activePlayers.Set(float64(count))
}

// UpdateRosterSize sets the roster size.
func UpdateRosterSize(count int) {
	globalManager.rosterSize.Set(float64(count))
}

// UpdateCourtsInPlay sets the number of courts with seated players.
func UpdateCourtsInPlay(count int) {
	globalManager.courtsInPlay.Set(float64(count))
}

// UpdateStandingsPlayers sets the number of players in the standings.
func UpdateStandingsPlayers(count int) {
	globalManager.standingsPlayers.Set(float64(count))
}

// RecordStandingsUpdateLatency records standings update latency in milliseconds.
func RecordStandingsUpdateLatency(latencyMs float64) {
	globalManager.standingsUpdateLatency.Observe(latencyMs)
}

// RecordSnapshotPersist records a successful snapshot persist and its latency.
func RecordSnapshotPersist(latencyMs float64) {
	globalManager.snapshotPersistLatency.Observe(latencyMs)
	globalManager.snapshotPersistCount.Inc()
	globalManager.snapshotLastUnix.Set(float64(time.Now().Unix()))
}

// RecordSnapshotPersistError increments the failed persist counter.
func RecordSnapshotPersistError() {
	globalManager.snapshotPersistErrors.Inc()
}

// UpdateSnapshotQueueDepth sets the number of pending snapshot writes.
func UpdateSnapshotQueueDepth(depth int) {
	globalManager.snapshotQueueDepth.Set(float64(depth))
}

// RecordExport increments the export counter for a format.
func RecordExport(format string) {
	globalManager.exportRequests.WithLabelValues(format).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

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
