package observability_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
	"github.com/boddenberg/rij-wellness-bfa/internal/infra/observability"
)

func TestMetrics_ProfilingSnapshot(t *testing.T) {
	m := observability.NewMetrics()

	m.IncrSessionStarted(domain.LocaleEN)
	m.IncrSessionStarted(domain.LocaleJA)
	m.IncrTurn(domain.PhaseState)
	m.IncrTurn(domain.PhaseState)
	m.IncrTurn(domain.PhaseBody)
	m.IncrSafetyFlag(domain.FlagSelfHarm)
	m.IncrSafetyFlag(domain.FlagMedicalRequest)
	m.IncrSafetyFlag(domain.FlagMedicalRequest)
	m.IncrItinerary("generated")
	m.IncrCacheHit("session")
	m.IncrCacheMiss("itinerary")
	m.IncrExternalError("store")
	m.RecordRequestDuration("submit_turn", 20*time.Millisecond)

	snap := m.GetProfilingSnapshot()
	assert.Equal(t, int64(2), snap.SessionsStarted)
	assert.Equal(t, int64(3), snap.TurnsProcessed)
	assert.Equal(t, map[string]int64{"state": 2, "body": 1}, snap.TurnsByPhase)
	assert.Equal(t, int64(1), snap.SafetyStops)
	assert.Equal(t, int64(2), snap.MedicalRedirects)
	assert.Equal(t, int64(1), snap.ItinerariesGenerated)
	assert.Equal(t, int64(0), snap.ItinerariesRevised)
	assert.InDelta(t, 0.5, snap.CacheHitRate, 1e-9)
	assert.Equal(t, int64(1), snap.ExternalErrors)
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := observability.NewMetrics()
	b := observability.NewMetrics()
	a.IncrTurn(domain.PhaseState)

	assert.Equal(t, int64(0), b.GetProfilingSnapshot().TurnsProcessed)

	families, err := a.Registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "rij_profiling_turns_total")
}

func TestZapLoggerMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusNotFound, zapcore.WarnLevel},
		{http.StatusBadGateway, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			h := observability.ZapLoggerMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.level, entry.Level)
			assert.Equal(t, int64(tt.status), entry.ContextMap()["status"])
		})
	}
}

func TestTracingMiddleware_PassesThrough(t *testing.T) {
	r := chi.NewRouter()
	r.Use(observability.TracingMiddleware)
	r.Get("/v1/itineraries/{itineraryId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/itineraries/abc", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestNewLogger_Levels(t *testing.T) {
	assert.True(t, observability.NewLogger("debug").Core().Enabled(zapcore.DebugLevel))
	assert.False(t, observability.NewLogger("warn").Core().Enabled(zapcore.InfoLevel))
	assert.True(t, observability.NewLogger("nonsense").Core().Enabled(zapcore.InfoLevel))
}
