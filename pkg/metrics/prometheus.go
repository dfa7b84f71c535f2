// Package metrics provides Prometheus metrics for the gachastat service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Fetcher
	pagesFetched *prometheus.CounterVec
	fetchLatency prometheus.Histogram
	logins       *prometheus.CounterVec

	// Handoff queue and persistence worker
	queueDepth       prometheus.Gauge
	queueCapacity    prometheus.Gauge
	batchesPersisted prometheus.Counter
	upsertLatency    prometheus.Histogram
	storedBatches    prometheus.Gauge

	// Ingestion runs
	ingestRuns       *prometheus.CounterVec
	ingestDuration   prometheus.Histogram
	duplicateBatches prometheus.Counter

	// Statistics
	statsComputed *prometheus.CounterVec
	statsLatency  prometheus.Histogram

	// Errors and HTTP surface
	errorsByComponent   *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // custom registry without default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gachastat",
		subsystem:        "history",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
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
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: m.histogramBuckets,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.pagesFetched = auto.NewCounterVec(m.counterOpts("pages_fetched_total",
		"Remote history pages requested, by outcome"), []string{"outcome"})
	m.fetchLatency = auto.NewHistogram(m.histogramOpts("fetch_latency_milliseconds",
		"Latency of a single remote page request"))
	m.logins = auto.NewCounterVec(m.counterOpts("logins_total",
		"Token exchanges, by outcome"), []string{"outcome"})

	m.queueDepth = auto.NewGauge(m.gaugeOpts("handoff_queue_depth",
		"Pages waiting in the persistence handoff queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("handoff_queue_capacity",
		"Capacity of the persistence handoff queue"))
	m.batchesPersisted = auto.NewCounter(m.counterOpts("batches_persisted_total",
		"Draw batches upserted into the record store"))
	m.upsertLatency = auto.NewHistogram(m.histogramOpts("upsert_latency_milliseconds",
		"Latency of upserting one page of batches"))
	m.storedBatches = auto.NewGauge(m.gaugeOpts("stored_batches",
		"Draw batches currently held by the record store"))

	m.ingestRuns = auto.NewCounterVec(m.counterOpts("ingest_runs_total",
		"Full-history ingestion runs, by outcome"), []string{"outcome"})
	m.ingestDuration = auto.NewHistogram(m.histogramOpts("ingest_duration_milliseconds",
		"Wall time of a full-history ingestion run"))
	m.duplicateBatches = auto.NewCounter(m.counterOpts("duplicate_batches_total",
		"Batches served more than once within a single ingestion run"))

	m.statsComputed = auto.NewCounterVec(m.counterOpts("statistics_computed_total",
		"Statistics computations, by scope and outcome"), []string{"scope", "outcome"})
	m.statsLatency = auto.NewHistogram(m.histogramOpts("statistics_latency_milliseconds",
		"Latency of a statistics computation"))

	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_total",
		"Errors by component and kind"), []string{"component", "kind"})
	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration"), []string{"endpoint", "method", "status_code"})
}

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

func outcome(ok bool) string {
	if ok {
		return OutcomeSuccess
	}
	return OutcomeFailure
}

// RecordPageFetch records one remote page request.
func RecordPageFetch(ok bool, latencyMs float64) {
	globalManager.pagesFetched.WithLabelValues(outcome(ok)).Inc()
	globalManager.fetchLatency.Observe(latencyMs)
}

// RecordLogin records one token exchange.
func RecordLogin(ok bool) {
	globalManager.logins.WithLabelValues(outcome(ok)).Inc()
}

// UpdateQueueDepth sets the number of pages waiting in the handoff queue.
func UpdateQueueDepth(depth int) {
	globalManager.queueDepth.Set(float64(depth))
}

// UpdateQueueCapacity sets the handoff queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordPagePersisted records a page of n batches upserted in latencyMs.
func RecordPagePersisted(n int, latencyMs float64) {
	globalManager.batchesPersisted.Add(float64(n))
	globalManager.upsertLatency.Observe(latencyMs)
}

// UpdateStoredBatches sets the number of batches held by the store.
func UpdateStoredBatches(count int) {
	globalManager.storedBatches.Set(float64(count))
}

// RecordIngestRun records a finished ingestion run.
func RecordIngestRun(ok bool, durationMs float64) {
	globalManager.ingestRuns.WithLabelValues(outcome(ok)).Inc()
	globalManager.ingestDuration.Observe(durationMs)
}

// RecordDuplicateBatches adds n batches seen twice in one run.
func RecordDuplicateBatches(n int) {
	globalManager.duplicateBatches.Add(float64(n))
}

// RecordStatistics records one statistics computation.
func RecordStatistics(scope string, ok bool, latencyMs float64) {
	globalManager.statsComputed.WithLabelValues(scope, outcome(ok)).Inc()
	globalManager.statsLatency.Observe(latencyMs)
}

// RecordError increments the error counter for component and kind.
func RecordError(component, kind string) {
	globalManager.errorsByComponent.WithLabelValues(component, kind).Inc()
}

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the registry holding the service collectors.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
