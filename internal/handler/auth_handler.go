package handler

import (
	"net/http"

	"github.com/boddenberg/rij-wellness-bfa/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// POST /v1/auth/anonymous
// ============================================================

func anonymousAuthHandler(authSvc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/anonymous")
		defer span.End()

		resp, err := authSvc.IssueAnonymous(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, resp)
	}
}
