package observability

import (
	"time"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the BFA.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	sessionsStarted *prometheus.CounterVec
	turns           *prometheus.CounterVec
	safetyFlags     *prometheus.CounterVec
	itineraries     *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rij_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rij_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rij_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rij_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		sessionsStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rij_profiling_sessions_started_total",
				Help: "Profiling sessions started, by locale.",
			},
			[]string{"locale"},
		),
		turns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rij_profiling_turns_total",
				Help: "User turns processed, by the phase they were answered in.",
			},
			[]string{"phase"},
		),
		safetyFlags: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rij_safety_flags_total",
				Help: "Safety classifications of user turns, by flag.",
			},
			[]string{"flag"},
		),
		itineraries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rij_itineraries_total",
				Help: "Itineraries produced, by kind (generated, revised).",
			},
			[]string{"kind"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrSessionStarted counts a new profiling session.
func (m *Metrics) IncrSessionStarted(locale domain.Locale) {
	m.sessionsStarted.WithLabelValues(string(locale)).Inc()
}

// IncrTurn counts a processed user turn.
func (m *Metrics) IncrTurn(phase domain.Phase) {
	m.turns.WithLabelValues(string(phase)).Inc()
}

// IncrSafetyFlag counts one safety classification.
func (m *Metrics) IncrSafetyFlag(flag domain.SafetyFlag) {
	m.safetyFlags.WithLabelValues(string(flag)).Inc()
}

// IncrItinerary counts a generated or revised itinerary.
func (m *Metrics) IncrItinerary(kind string) {
	m.itineraries.WithLabelValues(kind).Inc()
}

// GetProfilingSnapshot returns a snapshot of profiling metrics suitable for
// the GET /v1/metrics/profiling endpoint.
func (m *Metrics) GetProfilingSnapshot() *domain.ProfilingMetrics {
	byPhase := make(map[string]int64, len(domain.PhaseOrder))
	var turns float64
	for _, phase := range domain.PhaseOrder {
		v := getCounterValue(m.turns, string(phase))
		turns += v
		if v > 0 {
			byPhase[string(phase)] = int64(v)
		}
	}

	var started float64
	for _, locale := range []domain.Locale{domain.LocaleEN, domain.LocaleJA} {
		started += getCounterValue(m.sessionsStarted, string(locale))
	}

	hits := getCounterValue(m.cacheHits, "session") + getCounterValue(m.cacheHits, "itinerary")
	misses := getCounterValue(m.cacheMisses, "session") + getCounterValue(m.cacheMisses, "itinerary")
	cacheHitRate := float64(0)
	if hits+misses > 0 {
		cacheHitRate = hits / (hits + misses)
	}

	return &domain.ProfilingMetrics{
		SessionsStarted:      int64(started),
		TurnsProcessed:       int64(turns),
		TurnsByPhase:         byPhase,
		SafetyStops:          int64(getCounterValue(m.safetyFlags, string(domain.FlagSelfHarm))),
		MedicalRedirects:     int64(getCounterValue(m.safetyFlags, string(domain.FlagMedicalRequest))),
		ItinerariesGenerated: int64(getCounterValue(m.itineraries, "generated")),
		ItinerariesRevised:   int64(getCounterValue(m.itineraries, "revised")),
		CacheHitRate:         cacheHitRate,
		ExternalErrors:       int64(getCounterValue(m.externalErrors, "store")),
		Period:               "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
