package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
	"github.com/boddenberg/rij-wellness-bfa/internal/infra/cache"
	"github.com/boddenberg/rij-wellness-bfa/internal/infra/observability"
	"github.com/boddenberg/rij-wellness-bfa/internal/infra/sqlstore"
	"github.com/boddenberg/rij-wellness-bfa/internal/itinerary"
	"github.com/boddenberg/rij-wellness-bfa/internal/port"
	"github.com/boddenberg/rij-wellness-bfa/internal/profiling"
	"github.com/boddenberg/rij-wellness-bfa/internal/profiling/provider"
	"github.com/boddenberg/rij-wellness-bfa/internal/service"
	"github.com/boddenberg/rij-wellness-bfa/internal/validation"
)

// walkthrough answers every profiling question without tripping safety.
var walkthrough = []string{
	"I feel stressed at work",
	"gentle activities please, maybe an onsen",
	"travelling with my partner",
	"hiking and quiet temples",
	"mid-range is fine",
	"yes that sounds right",
}

type env struct {
	store       port.JourneyStore
	metrics     *observability.Metrics
	sessionTTL  *cache.InMemory[service.SessionSnapshot]
	profiling   *service.ProfilingService
	itineraries *service.ItineraryService
	consents    *service.ConsentService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store, err := sqlstore.NewSQLite(context.Background(), filepath.Join(t.TempDir(), "rij.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return newEnvOn(t, store)
}

// newEnvOn builds services with empty caches on top of an existing store.
func newEnvOn(t *testing.T, store port.JourneyStore) *env {
	t.Helper()
	metrics := observability.NewMetrics()
	val := validation.New()
	sessions := cache.New[service.SessionSnapshot](time.Minute)
	t.Cleanup(sessions.Close)

	orch := profiling.NewOrchestrator(provider.NewRuleBased(), provider.NewPlaceholder())
	ps := service.NewProfilingService(store, orch, val, sessions, metrics, zap.NewNop())
	is := service.NewItineraryService(store, ps, itinerary.NewEngine(), val,
		cache.NewLRU[*domain.ItineraryRecord](16), metrics, zap.NewNop())

	return &env{
		store:       store,
		metrics:     metrics,
		sessionTTL:  sessions,
		profiling:   ps,
		itineraries: is,
		consents:    service.NewConsentService(store, "test-key", zap.NewNop()),
	}
}

// completeSession starts a session and answers every question.
func (e *env) completeSession(t *testing.T, userID string, locale domain.Locale) string {
	t.Helper()
	ctx := context.Background()
	snap, err := e.profiling.Start(ctx, userID, locale)
	require.NoError(t, err)
	for _, in := range walkthrough {
		_, err := e.profiling.SubmitTurn(ctx, userID, snap.Context.SessionID, in, domain.InputText)
		require.NoError(t, err)
	}
	return snap.Context.SessionID
}

func newUser() string { return uuid.NewString() }
