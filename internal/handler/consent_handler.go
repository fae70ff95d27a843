package handler

import (
	"net/http"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
	"github.com/boddenberg/rij-wellness-bfa/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Consents
// ============================================================

func recordConsentsHandler(svc *service.ConsentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/consents")
		defer span.End()

		var req domain.ConsentRequest
		if err := decodeBody(w, r, &req, false); err != nil {
			writeDecodeError(w, err)
			return
		}

		consents, err := svc.Record(ctx, UserIDFromContext(ctx), req, clientIP(r), r.UserAgent())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, domain.ConsentResponse{Consents: consents})
	}
}

func listConsentsHandler(svc *service.ConsentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/consents")
		defer span.End()

		consents, err := svc.List(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.ConsentResponse{Consents: consents})
	}
}
