package handler

import (
	"context"
	"net/http"

	"github.com/boddenberg/rij-wellness-bfa/internal/infra/observability"
	"github.com/boddenberg/rij-wellness-bfa/internal/service"
	"github.com/boddenberg/rij-wellness-bfa/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles what the router needs. Store is only used by /healthz and
// may be nil.
type Deps struct {
	Auth        *service.AuthService
	Consents    *service.ConsentService
	Profiling   *service.ProfilingService
	Itineraries *service.ItineraryService
	Validator   *validation.Validator
	Store       Pinger
	StoreName   string
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if d.Validator == nil {
		d.Validator = validation.New()
	}

	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(d.Store, d.StoreName, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/anonymous", anonymousAuthHandler(d.Auth, logger))
		r.Get("/metrics/profiling", profilingMetricsHandler(d.Metrics))

		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(d.Auth, logger))

			// =============================================
			// Consents
			// =============================================
			r.Post("/consents", recordConsentsHandler(d.Consents, logger))
			r.Get("/consents", listConsentsHandler(d.Consents, logger))

			// =============================================
			// Profiling
			// =============================================
			r.Post("/profiling/sessions", startSessionHandler(d.Profiling, d.Validator, logger))
			r.Get("/profiling/sessions/{sessionId}", getSessionHandler(d.Profiling, logger))
			r.Post("/profiling/sessions/{sessionId}/turns", submitTurnHandler(d.Profiling, d.Validator, logger))
			r.Get("/profiling/sessions/{sessionId}/summary", sessionSummaryHandler(d.Profiling, logger))
			r.Post("/profiling/transcribe", transcribeHandler(d.Profiling, logger))

			// =============================================
			// Itineraries
			// =============================================
			r.Post("/profiling/sessions/{sessionId}/itinerary", generateItineraryHandler(d.Itineraries, d.Validator, logger))
			r.Get("/itineraries/{itineraryId}", getItineraryHandler(d.Itineraries, logger))
			r.Post("/itineraries/{itineraryId}/revisions", reviseItineraryHandler(d.Itineraries, d.Validator, logger))
			r.Post("/itineraries/{itineraryId}/trips", startTripHandler(d.Itineraries, logger))
		})
	})

	return r
}
