package handler

import (
	"net/http"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
	"github.com/boddenberg/rij-wellness-bfa/internal/service"
	"github.com/boddenberg/rij-wellness-bfa/internal/validation"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Itineraries
// ============================================================

func generateItineraryHandler(svc *service.ItineraryService, val *validation.Validator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/profiling/sessions/{sessionId}/itinerary")
		defer span.End()

		sessionID := chi.URLParam(r, "sessionId")
		span.SetAttributes(attribute.String("session.id", sessionID))

		var req domain.GenerateItineraryRequest
		if err := decodeBody(w, r, &req, true); err != nil {
			writeDecodeError(w, err)
			return
		}
		if err := val.ValidateRequest(req); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		it, err := svc.Generate(ctx, UserIDFromContext(ctx), sessionID, req.TargetDays)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, it)
	}
}

func getItineraryHandler(svc *service.ItineraryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/itineraries/{itineraryId}")
		defer span.End()

		it, err := svc.Get(ctx, UserIDFromContext(ctx), chi.URLParam(r, "itineraryId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, it)
	}
}

func reviseItineraryHandler(svc *service.ItineraryService, val *validation.Validator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/itineraries/{itineraryId}/revisions")
		defer span.End()

		itineraryID := chi.URLParam(r, "itineraryId")
		span.SetAttributes(attribute.String("itinerary.id", itineraryID))

		var req domain.ReviseItineraryRequest
		if err := decodeBody(w, r, &req, false); err != nil {
			writeDecodeError(w, err)
			return
		}
		if err := val.ValidateRequest(req); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		resp, err := svc.Revise(ctx, UserIDFromContext(ctx), itineraryID, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, resp)
	}
}

func startTripHandler(svc *service.ItineraryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/itineraries/{itineraryId}/trips")
		defer span.End()

		var req domain.StartTripRequest
		if err := decodeBody(w, r, &req, true); err != nil {
			writeDecodeError(w, err)
			return
		}

		trip, err := svc.StartTrip(ctx, UserIDFromContext(ctx), chi.URLParam(r, "itineraryId"), req.PinnedBlockIDs)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, trip)
	}
}
