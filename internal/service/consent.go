package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
	"github.com/boddenberg/rij-wellness-bfa/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

var consentTracer = otel.Tracer("service/consent")

// ConsentService records the consents a traveler gives before profiling.
// Client IP and user agent are stored only as keyed digests.
type ConsentService struct {
	store   port.JourneyStore
	hashKey []byte
	logger  *zap.Logger
}

// NewConsentService creates a consent service. hashKey keys the BLAKE2b
// digests; blake2b accepts at most 64 bytes of key, longer keys are
// truncated.
func NewConsentService(store port.JourneyStore, hashKey string, logger *zap.Logger) *ConsentService {
	key := []byte(hashKey)
	if len(key) > blake2b.Size {
		key = key[:blake2b.Size]
	}
	return &ConsentService{store: store, hashKey: key, logger: logger}
}

// Record writes one row per consent type, consented or not.
func (s *ConsentService) Record(ctx context.Context, userID string, req domain.ConsentRequest, ip, userAgent string) ([]domain.ConsentRecord, error) {
	ctx, span := consentTracer.Start(ctx, "ConsentService.Record")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	ipHash, err := s.digest(ip)
	if err != nil {
		return nil, err
	}
	uaHash, err := s.digest(userAgent)
	if err != nil {
		return nil, err
	}

	given := []struct {
		kind domain.ConsentType
		ok   bool
	}{
		{domain.ConsentAudioRecording, req.AudioRecording},
		{domain.ConsentBiometricData, req.BiometricData},
		{domain.ConsentLocationTracking, req.LocationTracking},
	}
	rows := make([]domain.ConsentRecord, 0, len(given))
	for _, g := range given {
		rows = append(rows, domain.ConsentRecord{
			UserID:        userID,
			ConsentType:   g.kind,
			Version:       domain.ConsentVersion,
			Consented:     g.ok,
			IPHash:        ipHash,
			UserAgentHash: uaHash,
		})
	}

	out, err := s.store.CreateConsents(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("create consents: %w", err)
	}

	s.logger.Info("consents recorded",
		zap.String("user_id", userID),
		zap.Bool("audio_recording", req.AudioRecording),
		zap.Bool("biometric_data", req.BiometricData),
		zap.Bool("location_tracking", req.LocationTracking),
	)
	return out, nil
}

// List returns the consents recorded for a user.
func (s *ConsentService) List(ctx context.Context, userID string) ([]domain.ConsentRecord, error) {
	ctx, span := consentTracer.Start(ctx, "ConsentService.List")
	defer span.End()

	out, err := s.store.ListConsents(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list consents: %w", err)
	}
	if out == nil {
		out = []domain.ConsentRecord{}
	}
	return out, nil
}

// digest returns the hex keyed BLAKE2b-256 of v, or "" for an empty value.
func (s *ConsentService) digest(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	h, err := blake2b.New256(s.hashKey)
	if err != nil {
		return "", fmt.Errorf("init consent hash: %w", err)
	}
	h.Write([]byte(v))
	return hex.EncodeToString(h.Sum(nil)), nil
}
