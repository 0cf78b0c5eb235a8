// Package metrics provides Prometheus metrics for the valuation engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Batch metrics - one batch per engine invocation
	batchesTotal  *prometheus.CounterVec
	batchDuration *prometheus.HistogramVec

	// Player-level metrics
	playersScored  prometheus.Counter
	playersDropped prometheus.Counter

	// Team context metrics
	contextFallbacks   prometheus.Counter
	contextCacheHits   prometheus.Counter
	contextCacheMisses prometheus.Counter

	// Overview cache metrics (60s TTL per participant)
	overviewCacheHits   prometheus.Counter
	overviewCacheMisses prometheus.Counter

	// Advisory metrics
	verdictsByLevel     *prometheus.CounterVec
	clauseInvestAdvised prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "broker",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.batchesTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batches_total",
		Help:      "Total number of scoring batches, labeled by evaluation mode",
	}, []string{"mode"})

	m.batchDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_duration_seconds",
		Help:      "Histogram of end-to-end batch duration, labeled by evaluation mode",
		Buckets:   m.histogramBuckets,
	}, []string{"mode"})

	m.playersScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "players_scored_total",
		Help:      "Total number of players successfully scored",
	})

	m.playersDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "players_dropped_total",
		Help:      "Total number of players dropped from a batch due to per-player failures",
	})

	m.contextFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "team_context_fallbacks_total",
		Help:      "Total number of neutral team-context fallbacks after lookup failures",
	})

	m.contextCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "team_context_cache_hits_total",
		Help:      "Total number of per-batch team context cache hits",
	})

	m.contextCacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "team_context_cache_misses_total",
		Help:      "Total number of per-batch team context cache misses",
	})

	m.overviewCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "overview_cache_hits_total",
		Help:      "Total number of portfolio overview cache hits",
	})

	m.overviewCacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "overview_cache_misses_total",
		Help:      "Total number of portfolio overview cache misses",
	})

	m.verdictsByLevel = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "market_state_verdicts_total",
		Help:      "Total market state verdicts emitted, labeled by level",
	}, []string{"level"})

	m.clauseInvestAdvised = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "clause_investments_advised_total",
		Help:      "Total number of clause investment recommendations emitted",
	})
}

// Registry returns the custom registry used by the global manager.
// Callers expose it however they see fit; the engine has no HTTP surface.
func Registry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers over the global manager.

// RecordBatch records a completed batch and its duration in seconds.
func RecordBatch(mode string, seconds float64) {
	globalManager.batchesTotal.WithLabelValues(mode).Inc()
	globalManager.batchDuration.WithLabelValues(mode).Observe(seconds)
}

// RecordPlayerScored increments the scored-player counter.
func RecordPlayerScored() { globalManager.playersScored.Inc() }

// RecordPlayerDropped increments the dropped-player counter.
func RecordPlayerDropped() { globalManager.playersDropped.Inc() }

// RecordContextFallback increments the neutral-context fallback counter.
func RecordContextFallback() { globalManager.contextFallbacks.Inc() }

// RecordContextCacheHit increments the team context cache hit counter.
func RecordContextCacheHit() { globalManager.contextCacheHits.Inc() }

// RecordContextCacheMiss increments the team context cache miss counter.
func RecordContextCacheMiss() { globalManager.contextCacheMisses.Inc() }

// RecordOverviewCacheHit increments the overview cache hit counter.
func RecordOverviewCacheHit() { globalManager.overviewCacheHits.Inc() }

// RecordOverviewCacheMiss increments the overview cache miss counter.
func RecordOverviewCacheMiss() { globalManager.overviewCacheMisses.Inc() }

// RecordVerdict records a market state verdict by level label.
func RecordVerdict(level string) {
	globalManager.verdictsByLevel.WithLabelValues(level).Inc()
}

// RecordClauseInvestmentAdvised increments the clause recommendation counter.
func RecordClauseInvestmentAdvised() { globalManager.clauseInvestAdvised.Inc() }
