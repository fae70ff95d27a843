package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
	"github.com/boddenberg/rij-wellness-bfa/internal/handler"
	"github.com/boddenberg/rij-wellness-bfa/internal/infra/cache"
	"github.com/boddenberg/rij-wellness-bfa/internal/infra/observability"
	"github.com/boddenberg/rij-wellness-bfa/internal/infra/sqlstore"
	"github.com/boddenberg/rij-wellness-bfa/internal/itinerary"
	"github.com/boddenberg/rij-wellness-bfa/internal/profiling"
	"github.com/boddenberg/rij-wellness-bfa/internal/profiling/provider"
	"github.com/boddenberg/rij-wellness-bfa/internal/service"
	"github.com/boddenberg/rij-wellness-bfa/internal/validation"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func newRouter(t *testing.T, store handler.Pinger) http.Handler {
	t.Helper()
	db, err := sqlstore.NewSQLite(context.Background(), filepath.Join(t.TempDir(), "rij.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	if store == nil {
		store = db
	}

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	val := validation.New()
	sessions := cache.New[service.SessionSnapshot](time.Minute)
	t.Cleanup(sessions.Close)

	orch := profiling.NewOrchestrator(provider.NewRuleBased(), provider.NewPlaceholder())
	ps := service.NewProfilingService(db, orch, val, sessions, metrics, logger)
	is := service.NewItineraryService(db, ps, itinerary.NewEngine(), val,
		cache.NewLRU[*domain.ItineraryRecord](16), metrics, logger)

	return handler.NewRouter(handler.Deps{
		Auth:        service.NewAuthService("test-secret-with-enough-length", time.Hour, logger),
		Consents:    service.NewConsentService(db, "test-key", logger),
		Profiling:   ps,
		Itineraries: is,
		Validator:   val,
		Store:       store,
		StoreName:   "sqlite",
		Metrics:     metrics,
		Logger:      logger,
	})
}

type client struct {
	t      *testing.T
	router http.Handler
	token  string
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func login(t *testing.T, router http.Handler) *client {
	t.Helper()
	c := &client{t: t, router: router}
	rec := c.do(http.MethodPost, "/v1/auth/anonymous", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	c.token = decode[domain.AnonymousAuthResponse](t, rec).AccessToken
	return c
}

func TestProbes(t *testing.T) {
	router := newRouter(t, nil)
	c := &client{t: t, router: router}

	rec := c.do(http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[domain.HealthStatus](t, rec)
	assert.Equal(t, "healthy", health.Status)
	require.Len(t, health.Services, 2)
	assert.Equal(t, "sqlite", health.Services[1].Name)

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/readyz", nil).Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/ping", nil).Code)

	rec = c.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/v1/metrics/profiling", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "all_time", decode[domain.ProfilingMetrics](t, rec).Period)
}

func TestHealthzDegraded(t *testing.T) {
	router := newRouter(t, fakePinger{err: errors.New("connection refused")})
	c := &client{t: t, router: router}

	rec := c.do(http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[domain.HealthStatus](t, rec)
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "connection refused", health.Services[1].Error)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	c := &client{t: t, router: newRouter(t, nil)}

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/v1/consents", nil).Code)

	c.token = "not-a-jwt"
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/v1/profiling/sessions", nil).Code)
}

func TestConsents(t *testing.T) {
	c := login(t, newRouter(t, nil))

	rec := c.do(http.MethodPost, "/v1/consents", domain.ConsentRequest{AudioRecording: true})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, decode[domain.ConsentResponse](t, rec).Consents, 3)

	rec = c.do(http.MethodGet, "/v1/consents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[domain.ConsentResponse](t, rec).Consents, 3)
}

func TestProfilingToTripFlow(t *testing.T) {
	router := newRouter(t, nil)
	c := login(t, router)

	rec := c.do(http.MethodPost, "/v1/profiling/sessions", domain.StartSessionRequest{Locale: domain.LocaleEN})
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decode[domain.SessionResponse](t, rec)
	sessionPath := "/v1/profiling/sessions/" + session.Session.SessionID
	assert.Equal(t, 0, session.Progress)

	rec = c.do(http.MethodPost, sessionPath+"/itinerary", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "itinerary before profiling is done")

	answers := []string{
		"I feel stressed at work",
		"gentle activities please, maybe an onsen",
		"travelling with my partner",
		"hiking and quiet temples",
		"mid-range is fine",
		"yes that sounds right",
	}
	var turn domain.TurnResponse
	for _, a := range answers {
		rec = c.do(http.MethodPost, sessionPath+"/turns", domain.SubmitTurnRequest{Text: a})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		turn = decode[domain.TurnResponse](t, rec)
	}
	assert.True(t, turn.ReadyForItinerary)

	rec = c.do(http.MethodGet, sessionPath+"/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[domain.SummaryResponse](t, rec).IsComplete)

	rec = c.do(http.MethodPost, sessionPath+"/itinerary", domain.GenerateItineraryRequest{TargetDays: 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	it := decode[domain.Itinerary](t, rec)
	assert.Equal(t, 2, it.TotalDays)

	rec = c.do(http.MethodGet, "/v1/itineraries/"+it.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodPost, "/v1/itineraries/"+it.ID+"/revisions", domain.ReviseItineraryRequest{
		Request:        "slower evenings",
		PinnedBlockIDs: []string{it.Days[0].Blocks[0].ID},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	revision := decode[domain.RevisionResponse](t, rec)
	assert.Equal(t, it.Days[0].Blocks[0], revision.Itinerary.Days[0].Blocks[0])

	rec = c.do(http.MethodPost, "/v1/itineraries/"+revision.Itinerary.ID+"/trips", domain.StartTripRequest{})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "active", decode[domain.TripSessionRecord](t, rec).Status)

	// a different anonymous user cannot see any of it
	other := login(t, router)
	assert.Equal(t, http.StatusForbidden, other.do(http.MethodGet, sessionPath, nil).Code)
	assert.Equal(t, http.StatusForbidden, other.do(http.MethodGet, "/v1/itineraries/"+it.ID, nil).Code)
}

func TestSubmitTurnErrors(t *testing.T) {
	c := login(t, newRouter(t, nil))

	assert.Equal(t, http.StatusNotFound,
		c.do(http.MethodGet, "/v1/profiling/sessions/6f1c1d9e-3b0a-4c55-9a51-3c2ad0f3f0aa", nil).Code)

	rec := c.do(http.MethodPost, "/v1/profiling/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	path := "/v1/profiling/sessions/" + decode[domain.SessionResponse](t, rec).Session.SessionID + "/turns"

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, path, domain.SubmitTurnRequest{}).Code)
	assert.Equal(t, http.StatusBadRequest,
		c.do(http.MethodPost, path, domain.SubmitTurnRequest{Text: "hi", InputMode: "telepathy"}).Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge,
		c.do(http.MethodPost, path, domain.SubmitTurnRequest{Text: strings.Repeat("a", 70<<10)}).Code)

	rec = c.do(http.MethodPost, path, domain.SubmitTurnRequest{Text: "I want to die"})
	require.Equal(t, http.StatusOK, rec.Code)
	turn := decode[domain.TurnResponse](t, rec)
	assert.True(t, turn.ShouldStop)
	assert.NotEmpty(t, turn.EmergencyMessage)

	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, path, domain.SubmitTurnRequest{Text: "hello"}).Code)
}

func TestTranscribe(t *testing.T) {
	c := login(t, newRouter(t, nil))

	send := func(body []byte, query string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/profiling/transcribe"+query, bytes.NewReader(body))
		req.Header.Set("Content-Type", "audio/webm")
		req.Header.Set("Authorization", "Bearer "+c.token)
		rec := httptest.NewRecorder()
		c.router.ServeHTTP(rec, req)
		return rec
	}

	rec := send([]byte{0x1a, 0x45, 0xdf, 0xa3}, "?locale=ja")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, strings.TrimSpace(decode[domain.TranscribeResponse](t, rec).Text))

	assert.Equal(t, http.StatusBadRequest, send(nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, send([]byte{1}, "?locale=fr").Code)
}
