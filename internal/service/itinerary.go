package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
	"github.com/boddenberg/rij-wellness-bfa/internal/infra/observability"
	"github.com/boddenberg/rij-wellness-bfa/internal/itinerary"
	"github.com/boddenberg/rij-wellness-bfa/internal/port"
	"github.com/boddenberg/rij-wellness-bfa/internal/profiling"
	"github.com/boddenberg/rij-wellness-bfa/internal/validation"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var itineraryTracer = otel.Tracer("service/itinerary")

// TripStatusActive is the status of a trip session when it is created.
const TripStatusActive = "active"

// ItineraryService builds itineraries from finished profiling sessions and
// handles revisions and trip start.
type ItineraryService struct {
	store     port.JourneyStore
	sessions  *ProfilingService
	engine    *itinerary.Engine
	validator *validation.Validator
	cache     port.Cache[*domain.ItineraryRecord]
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewItineraryService creates the itinerary service with all dependencies injected.
func NewItineraryService(
	store port.JourneyStore,
	sessions *ProfilingService,
	engine *itinerary.Engine,
	validator *validation.Validator,
	cache port.Cache[*domain.ItineraryRecord],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *ItineraryService {
	return &ItineraryService{
		store:     store,
		sessions:  sessions,
		engine:    engine,
		validator: validator,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
	}
}

// ============================================================
// Generate: POST /v1/profiling/sessions/{id}/itinerary
// ============================================================

// Generate builds and stores an itinerary from a finished, non-halted
// session, then marks the session completed.
func (s *ItineraryService) Generate(ctx context.Context, userID, sessionID string, targetDays int) (*domain.Itinerary, error) {
	ctx, span := itineraryTracer.Start(ctx, "ItineraryService.Generate")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("generate_itinerary", time.Since(start)) }()

	snap, err := s.sessions.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	switch {
	case snap.Status == domain.SessionHalted:
		return nil, &domain.ErrConflict{Message: "profiling session was halted"}
	case !profiling.IsComplete(snap.Context.Phase):
		return nil, &domain.ErrConflict{Message: "profiling session is not complete"}
	}

	in := domain.GenerationInput{
		ProfileData: snap.Context.ExtractedData,
		Locale:      snap.Context.Locale,
		TargetDays:  targetDays,
	}
	if err := s.validator.ValidateGenerationInput(in); err != nil {
		return nil, err
	}

	it, err := s.build(in)
	if err != nil {
		return nil, err
	}

	rec, err := s.store.CreateItinerary(ctx, itineraryRecord(it, userID, sessionID, in))
	if err != nil {
		return nil, externalStoreErr(s.metrics, fmt.Errorf("create itinerary: %w", err))
	}
	if err := s.sessions.markCompleted(ctx, snap); err != nil {
		return nil, err
	}

	s.cache.Set(rec.ID, rec)
	s.metrics.IncrItinerary("generated")
	s.logger.Info("itinerary generated",
		zap.String("itinerary_id", it.ID),
		zap.String("session_id", sessionID),
		zap.Int("total_days", it.TotalDays),
	)
	return it, nil
}

// ============================================================
// Get: GET /v1/itineraries/{id}
// ============================================================

func (s *ItineraryService) Get(ctx context.Context, userID, itineraryID string) (*domain.Itinerary, error) {
	ctx, span := itineraryTracer.Start(ctx, "ItineraryService.Get")
	defer span.End()

	rec, err := s.getOwned(ctx, userID, itineraryID)
	if err != nil {
		return nil, err
	}
	return rec.Itinerary(), nil
}

func (s *ItineraryService) getOwned(ctx context.Context, userID, itineraryID string) (*domain.ItineraryRecord, error) {
	rec, ok := s.cache.Get(itineraryID)
	if ok {
		s.metrics.IncrCacheHit("itinerary")
	} else {
		s.metrics.IncrCacheMiss("itinerary")
		var err error
		rec, err = s.store.GetItinerary(ctx, itineraryID)
		if err != nil {
			return nil, externalStoreErr(s.metrics, fmt.Errorf("get itinerary: %w", err))
		}
		if err := s.validator.ValidateItinerary(rec.Itinerary()); err != nil {
			s.logger.Error("stored itinerary failed validation",
				zap.String("itinerary_id", itineraryID),
				zap.Error(err),
			)
			return nil, fmt.Errorf("load itinerary %s: %w", itineraryID, err)
		}
		s.cache.Set(itineraryID, rec)
	}

	if rec.UserID != userID {
		return nil, &domain.ErrForbidden{Action: "access itinerary " + itineraryID}
	}
	return rec, nil
}

// ============================================================
// Revise: POST /v1/itineraries/{id}/revisions
// ============================================================

// Revise records the revision request and regenerates the itinerary from
// the stored profile. Pinned blocks keep their day and slot.
func (s *ItineraryService) Revise(ctx context.Context, userID, itineraryID string, req domain.ReviseItineraryRequest) (*domain.RevisionResponse, error) {
	ctx, span := itineraryTracer.Start(ctx, "ItineraryService.Revise")
	defer span.End()
	span.SetAttributes(
		attribute.String("itinerary.id", itineraryID),
		attribute.Int("revision.pinned", len(req.PinnedBlockIDs)),
	)

	request := strings.TrimSpace(req.Request)
	if request == "" {
		return nil, &domain.ErrValidation{Field: "request", Message: "is required"}
	}
	mode := req.InputMode
	if mode == "" {
		mode = domain.InputText
	}

	rec, err := s.getOwned(ctx, userID, itineraryID)
	if err != nil {
		return nil, err
	}
	current := rec.Itinerary()
	pinned, err := pinnedBlocks(current, req.PinnedBlockIDs)
	if err != nil {
		return nil, err
	}

	locale := rec.Metadata.Locale.OrDefault()
	in := domain.GenerationInput{
		ProfileData: rec.Metadata.ExtractedData,
		Locale:      locale,
		TargetDays:  rec.TotalDays,
	}
	fresh := s.engine.Generate(in)
	revised := itinerary.KeepPinned(fresh, pinned, locale)
	if err := s.validator.ValidateItinerary(revised); err != nil {
		return nil, fmt.Errorf("revised itinerary: %w", err)
	}

	newRec, err := s.store.CreateItinerary(ctx, itineraryRecord(revised, userID, rec.ProfileID, in))
	if err != nil {
		return nil, externalStoreErr(s.metrics, fmt.Errorf("create revised itinerary: %w", err))
	}
	rev, err := s.store.CreateItineraryRevision(ctx, &domain.ItineraryRevisionRecord{
		ItineraryID:     itineraryID,
		RevisedID:       newRec.ID,
		UserID:          userID,
		RevisionRequest: request,
		PinnedBlockIDs:  req.PinnedBlockIDs,
		InputMode:       mode,
	})
	if err != nil {
		return nil, externalStoreErr(s.metrics, fmt.Errorf("create itinerary revision: %w", err))
	}

	s.cache.Set(newRec.ID, newRec)
	s.metrics.IncrItinerary("revised")
	s.logger.Info("itinerary revised",
		zap.String("itinerary_id", itineraryID),
		zap.String("revised_itinerary_id", newRec.ID),
		zap.Int("pinned_blocks", len(pinned)),
	)

	return &domain.RevisionResponse{
		RevisionID:    rev.ID,
		Itinerary:     revised,
		ChangeSummary: changeSummary(request, len(pinned), locale),
	}, nil
}

// ============================================================
// StartTrip: POST /v1/itineraries/{id}/trips
// ============================================================

func (s *ItineraryService) StartTrip(ctx context.Context, userID, itineraryID string, pinnedBlockIDs []string) (*domain.TripSessionRecord, error) {
	ctx, span := itineraryTracer.Start(ctx, "ItineraryService.StartTrip")
	defer span.End()

	rec, err := s.getOwned(ctx, userID, itineraryID)
	if err != nil {
		return nil, err
	}
	if _, err := pinnedBlocks(rec.Itinerary(), pinnedBlockIDs); err != nil {
		return nil, err
	}

	trip, err := s.store.CreateTripSession(ctx, &domain.TripSessionRecord{
		UserID:       userID,
		ItineraryID:  itineraryID,
		Status:       TripStatusActive,
		PinnedBlocks: pinnedBlockIDs,
	})
	if err != nil {
		return nil, externalStoreErr(s.metrics, fmt.Errorf("create trip session: %w", err))
	}

	s.logger.Info("trip started",
		zap.String("trip_id", trip.ID),
		zap.String("itinerary_id", itineraryID),
	)
	return trip, nil
}

// ============================================================
// helpers
// ============================================================

func (s *ItineraryService) build(in domain.GenerationInput) (*domain.Itinerary, error) {
	it := s.engine.Generate(in)
	if err := s.validator.ValidateItinerary(it); err != nil {
		return nil, fmt.Errorf("generated itinerary: %w", err)
	}
	return it, nil
}

func itineraryRecord(it *domain.Itinerary, userID, profileID string, in domain.GenerationInput) *domain.ItineraryRecord {
	return &domain.ItineraryRecord{
		ID:          it.ID,
		UserID:      userID,
		ProfileID:   profileID,
		Title:       it.Title,
		Description: it.Description,
		TotalDays:   it.TotalDays,
		Metadata: domain.ItineraryMetadata{
			Locale:           in.Locale.OrDefault(),
			ExtractedData:    in.ProfileData.Clone(),
			PillarWeights:    it.PillarWeights,
			IntensityCurve:   it.IntensityCurve,
			OverallNarrative: it.OverallNarrative,
			Days:             it.Days,
		},
	}
}

// pinnedBlocks resolves block IDs against it. Unknown IDs are a validation
// error; duplicates are kept once.
func pinnedBlocks(it *domain.Itinerary, ids []string) ([]domain.Block, error) {
	seen := make(map[string]bool, len(ids))
	out := make([]domain.Block, 0, len(ids))
	for i, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		b, ok := itinerary.BlockByID(it, id)
		if !ok {
			return nil, &domain.ErrValidation{
				Field:   fmt.Sprintf("pinnedBlockIds[%d]", i),
				Message: fmt.Sprintf("block %s is not part of itinerary %s", id, it.ID),
			}
		}
		out = append(out, b)
	}
	return out, nil
}

func changeSummary(request string, pinned int, locale domain.Locale) string {
	if locale == domain.LocaleJA {
		msg := fmt.Sprintf("リクエストに基づいて旅程を更新しました：「%s」。", request)
		if pinned > 0 {
			msg += fmt.Sprintf("固定した%d件のアクティビティはそのまま残しています。", pinned)
		}
		return msg
	}
	msg := fmt.Sprintf("Updated your itinerary based on your request: \"%s\".", request)
	if pinned > 0 {
		msg += fmt.Sprintf(" Your %d pinned activities were kept in place.", pinned)
	}
	return msg
}
