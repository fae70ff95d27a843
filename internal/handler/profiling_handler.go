package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
	"github.com/boddenberg/rij-wellness-bfa/internal/profiling"
	"github.com/boddenberg/rij-wellness-bfa/internal/service"
	"github.com/boddenberg/rij-wellness-bfa/internal/validation"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// maxAudioBytes bounds a transcription upload.
const maxAudioBytes = 10 << 20

// ============================================================
// Sessions
// ============================================================

func startSessionHandler(svc *service.ProfilingService, val *validation.Validator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/profiling/sessions")
		defer span.End()

		var req domain.StartSessionRequest
		if err := decodeBody(w, r, &req, true); err != nil {
			writeDecodeError(w, err)
			return
		}
		if err := val.ValidateRequest(req); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		snap, err := svc.Start(ctx, UserIDFromContext(ctx), req.Locale)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, sessionResponse(snap))
	}
}

func getSessionHandler(svc *service.ProfilingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/profiling/sessions/{sessionId}")
		defer span.End()

		sessionID := chi.URLParam(r, "sessionId")
		span.SetAttributes(attribute.String("session.id", sessionID))

		snap, err := svc.Get(ctx, UserIDFromContext(ctx), sessionID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, sessionResponse(snap))
	}
}

func submitTurnHandler(svc *service.ProfilingService, val *validation.Validator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/profiling/sessions/{sessionId}/turns")
		defer span.End()

		sessionID := chi.URLParam(r, "sessionId")
		span.SetAttributes(attribute.String("session.id", sessionID))

		var req domain.SubmitTurnRequest
		if err := decodeBody(w, r, &req, false); err != nil {
			writeDecodeError(w, err)
			return
		}
		if err := val.ValidateRequest(req); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		resp, err := svc.SubmitTurn(ctx, UserIDFromContext(ctx), sessionID, req.Text, req.InputMode)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func sessionSummaryHandler(svc *service.ProfilingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/profiling/sessions/{sessionId}/summary")
		defer span.End()

		resp, err := svc.Summary(ctx, UserIDFromContext(ctx), chi.URLParam(r, "sessionId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// ============================================================
// POST /v1/profiling/transcribe
// ============================================================

// transcribeHandler takes the raw audio as the body; Content-Type carries
// the mime type and ?locale= the spoken language.
func transcribeHandler(svc *service.ProfilingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/profiling/transcribe")
		defer span.End()

		audio, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAudioBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "audio too large")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(audio) == 0 {
			writeError(w, http.StatusBadRequest, "audio is required")
			return
		}

		locale := domain.Locale(r.URL.Query().Get("locale"))
		if locale != "" && !locale.Valid() {
			writeError(w, http.StatusBadRequest, "unsupported locale")
			return
		}

		text, err := svc.Transcribe(ctx, audio, r.Header.Get("Content-Type"), locale)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.TranscribeResponse{Text: text})
	}
}

func sessionResponse(snap *service.SessionSnapshot) domain.SessionResponse {
	return domain.SessionResponse{
		Session:  snap.Context,
		Status:   snap.Status,
		Progress: profiling.Progress(snap.Context.Phase),
	}
}
