package service

import (
	"errors"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
	"github.com/boddenberg/rij-wellness-bfa/internal/infra/observability"
)

// externalStoreErr counts store failures that are not the caller's fault
// and returns err unchanged.
func externalStoreErr(m *observability.Metrics, err error) error {
	var (
		external *domain.ErrExternalService
		timeout  *domain.ErrTimeout
		open     *domain.ErrCircuitOpen
	)
	if errors.As(err, &external) || errors.As(err, &timeout) || errors.As(err, &open) {
		m.IncrExternalError("store")
	}
	return err
}
