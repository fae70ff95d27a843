package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
	"github.com/boddenberg/rij-wellness-bfa/internal/infra/observability"
	"github.com/boddenberg/rij-wellness-bfa/internal/infra/resilience"
	"github.com/boddenberg/rij-wellness-bfa/internal/port"
	"github.com/boddenberg/rij-wellness-bfa/internal/profiling"
	"github.com/boddenberg/rij-wellness-bfa/internal/validation"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var profilingTracer = otel.Tracer("service/profiling")

// SessionSnapshot is a profiling session as the service sees it: the core
// snapshot plus the persisted lifecycle status.
type SessionSnapshot struct {
	Context domain.SessionContext
	Status  domain.SessionStatus
}

func (s SessionSnapshot) clone() SessionSnapshot {
	return SessionSnapshot{Context: s.Context.Clone(), Status: s.Status}
}

// ProfilingService drives profiling sessions: it loads and persists the
// snapshots the orchestrator works on.
type ProfilingService struct {
	store        port.JourneyStore
	orchestrator *profiling.Orchestrator
	validator    *validation.Validator
	cache        port.Cache[SessionSnapshot]
	locks        *resilience.KeyedLock
	metrics      *observability.Metrics
	logger       *zap.Logger
}

// NewProfilingService creates the profiling service with all dependencies injected.
func NewProfilingService(
	store port.JourneyStore,
	orchestrator *profiling.Orchestrator,
	validator *validation.Validator,
	cache port.Cache[SessionSnapshot],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *ProfilingService {
	return &ProfilingService{
		store:        store,
		orchestrator: orchestrator,
		validator:    validator,
		cache:        cache,
		locks:        resilience.NewKeyedLock(),
		metrics:      metrics,
		logger:       logger,
	}
}

// ============================================================
// Start: POST /v1/profiling/sessions
// ============================================================

// Start opens a session for userID and persists the greeting turn.
func (s *ProfilingService) Start(ctx context.Context, userID string, locale domain.Locale) (*SessionSnapshot, error) {
	ctx, span := profilingTracer.Start(ctx, "ProfilingService.Start")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("start_session", time.Since(start)) }()

	sc := s.orchestrator.InitializeSession(userID, locale)
	if err := s.validator.ValidateSession(sc); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("session.id", sc.SessionID))

	_, err := s.store.CreateProfilingSession(ctx, &domain.ProfilingSessionRecord{
		ID:       sc.SessionID,
		UserID:   userID,
		Status:   domain.SessionActive,
		Metadata: sessionMetadata(sc),
	})
	if err != nil {
		return nil, externalStoreErr(s.metrics, fmt.Errorf("create profiling session: %w", err))
	}
	if err := s.store.CreateProfilingTurns(ctx, turnRecords(sc.SessionID, sc.Turns, sc.Phase, sc.Phase)); err != nil {
		return nil, externalStoreErr(s.metrics, fmt.Errorf("create greeting turn: %w", err))
	}

	snap := SessionSnapshot{Context: sc, Status: domain.SessionActive}
	s.cache.Set(sc.SessionID, snap.clone())
	s.metrics.IncrSessionStarted(sc.Locale)

	s.logger.Info("profiling session started",
		zap.String("session_id", sc.SessionID),
		zap.String("user_id", userID),
		zap.String("locale", string(sc.Locale)),
	)
	return &snap, nil
}

// ============================================================
// Get / Load
// ============================================================

// Get returns a session owned by userID.
func (s *ProfilingService) Get(ctx context.Context, userID, sessionID string) (*SessionSnapshot, error) {
	ctx, span := profilingTracer.Start(ctx, "ProfilingService.Get")
	defer span.End()

	snap, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if snap.Context.UserID != userID {
		return nil, &domain.ErrForbidden{Action: "access profiling session " + sessionID}
	}
	return snap, nil
}

// Load returns the session snapshot from the cache, or rebuilds it from the
// session row and its turns, which are fetched concurrently. Rebuilt
// snapshots pass the validation gate before the core sees them.
func (s *ProfilingService) Load(ctx context.Context, sessionID string) (*SessionSnapshot, error) {
	ctx, span := profilingTracer.Start(ctx, "ProfilingService.Load")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	if cached, ok := s.cache.Get(sessionID); ok {
		s.metrics.IncrCacheHit("session")
		snap := cached.clone()
		return &snap, nil
	}
	s.metrics.IncrCacheMiss("session")

	var (
		rec   *domain.ProfilingSessionRecord
		turns []domain.ProfilingTurnRecord
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.store.GetProfilingSession(gCtx, sessionID)
		if err != nil {
			return externalStoreErr(s.metrics, fmt.Errorf("get profiling session: %w", err))
		}
		rec = r
		return nil
	})
	g.Go(func() error {
		t, err := s.store.ListProfilingTurns(gCtx, sessionID)
		if err != nil {
			return externalStoreErr(s.metrics, fmt.Errorf("list profiling turns: %w", err))
		}
		turns = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sc := domain.SessionContext{
		SessionID:     rec.ID,
		UserID:        rec.UserID,
		Phase:         rec.Metadata.CurrentPhase,
		Turns:         make([]domain.Turn, 0, len(turns)),
		ExtractedData: rec.Metadata.ExtractedData,
		Locale:        rec.Metadata.Locale,
	}
	for _, t := range turns {
		sc.Turns = append(sc.Turns, t.Turn())
	}
	if err := s.validator.ValidateSession(sc); err != nil {
		s.logger.Error("stored profiling session failed validation",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("rebuild session %s: %w", sessionID, err)
	}

	snap := SessionSnapshot{Context: sc, Status: rec.Status}
	s.cache.Set(sessionID, snap.clone())
	return &snap, nil
}

// ============================================================
// SubmitTurn: POST /v1/profiling/sessions/{id}/turns
// ============================================================

// SubmitTurn processes one user message. Calls for the same session are
// serialized; the orchestrator assumes a single writer per snapshot.
func (s *ProfilingService) SubmitTurn(ctx context.Context, userID, sessionID, text string, mode domain.InputMode) (*domain.TurnResponse, error) {
	ctx, span := profilingTracer.Start(ctx, "ProfilingService.SubmitTurn")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("submit_turn", time.Since(start)) }()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &domain.ErrValidation{Field: "text", Message: "is required"}
	}
	if mode == "" {
		mode = domain.InputText
	}
	if mode != domain.InputText && mode != domain.InputVoice {
		return nil, &domain.ErrValidation{Field: "inputMode", Message: fmt.Sprintf("must be text or voice, got %q", mode)}
	}

	unlock, err := s.locks.Lock(ctx, sessionID)
	if err != nil {
		return nil, &domain.ErrTimeout{Operation: "lock session " + sessionID}
	}
	defer unlock()

	snap, err := s.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	switch {
	case snap.Status == domain.SessionHalted:
		return nil, &domain.ErrConflict{Message: "profiling session was halted"}
	case profiling.IsComplete(snap.Context.Phase):
		return nil, &domain.ErrConflict{Message: "profiling session is already complete"}
	}

	prev := snap.Context
	out, err := s.orchestrator.ProcessTurn(ctx, profiling.ProcessTurnInput{
		SessionContext: prev,
		UserInput:      text,
		InputMode:      mode,
	})
	if err != nil {
		return nil, fmt.Errorf("process turn: %w", err)
	}
	next := out.UpdatedContext

	status := domain.SessionActive
	if out.ShouldStop {
		status = domain.SessionHalted
	}

	if err := s.persistTurn(ctx, prev, next, status); err != nil {
		if status == domain.SessionHalted {
			// a stop stays in force for this process even when the store missed it
			s.cache.Set(sessionID, SessionSnapshot{Context: next.Clone(), Status: status})
		} else {
			s.cache.Delete(sessionID)
		}
		return nil, err
	}
	s.cache.Set(sessionID, SessionSnapshot{Context: next.Clone(), Status: status})

	s.metrics.IncrTurn(prev.Phase)
	for _, flag := range out.Safety.Flags {
		s.metrics.IncrSafetyFlag(flag)
	}
	if out.ShouldStop {
		// audit entry: never the user's words
		s.logger.Warn("safety_stop",
			zap.String("session_id", sessionID),
			zap.String("phase", string(prev.Phase)),
			zap.Int("turn_number", len(prev.Turns)+1),
			zap.Strings("flags", flagNames(out.Safety.Flags)),
		)
	}

	return &domain.TurnResponse{
		Session:           next,
		AssistantResponse: out.AssistantResponse,
		ShouldStop:        out.ShouldStop,
		ReadyForItinerary: out.ReadyForItinerary,
		SafetyFlags:       out.Safety.Flags,
		EmergencyMessage:  out.Safety.EmergencyMessage,
		Progress:          profiling.Progress(next.Phase),
	}, nil
}

// persistTurn writes the turns added by one ProcessTurn, in order, and the
// updated session row. A halted row is written before its turns, so a stored
// emergency turn always belongs to a halted session.
func (s *ProfilingService) persistTurn(ctx context.Context, prev, next domain.SessionContext, status domain.SessionStatus) error {
	writeTurns := func() error {
		added := next.Turns[len(prev.Turns):]
		if err := s.store.CreateProfilingTurns(ctx, turnRecords(next.SessionID, added, prev.Phase, next.Phase)); err != nil {
			return externalStoreErr(s.metrics, fmt.Errorf("create profiling turns: %w", err))
		}
		return nil
	}
	updateRow := func() error {
		if err := s.store.UpdateProfilingSession(ctx, next.SessionID, status, sessionMetadata(next)); err != nil {
			return externalStoreErr(s.metrics, fmt.Errorf("update profiling session: %w", err))
		}
		return nil
	}

	if status == domain.SessionHalted {
		if err := updateRow(); err != nil {
			return err
		}
		return writeTurns()
	}
	if err := writeTurns(); err != nil {
		return err
	}
	return updateRow()
}

// markCompleted flags a finished session once an itinerary was built from it.
func (s *ProfilingService) markCompleted(ctx context.Context, snap *SessionSnapshot) error {
	if snap.Status == domain.SessionCompleted {
		return nil
	}
	sessionID := snap.Context.SessionID
	if err := s.store.UpdateProfilingSession(ctx, sessionID, domain.SessionCompleted, sessionMetadata(snap.Context)); err != nil {
		return externalStoreErr(s.metrics, fmt.Errorf("complete profiling session: %w", err))
	}
	s.cache.Set(sessionID, SessionSnapshot{Context: snap.Context.Clone(), Status: domain.SessionCompleted})
	return nil
}

// ============================================================
// Transcribe: POST /v1/profiling/transcribe
// ============================================================

// Transcribe converts recorded audio into text for the user to review.
func (s *ProfilingService) Transcribe(ctx context.Context, audio []byte, mimeType string, locale domain.Locale) (string, error) {
	ctx, span := profilingTracer.Start(ctx, "ProfilingService.Transcribe")
	defer span.End()
	span.SetAttributes(
		attribute.Int("audio.bytes", len(audio)),
		attribute.String("audio.mime_type", mimeType),
	)

	text, err := s.orchestrator.TranscribeAudio(ctx, audio, mimeType, locale.OrDefault())
	if err != nil {
		return "", err
	}
	return text, nil
}

// ============================================================
// Summary: GET /v1/profiling/sessions/{id}/summary
// ============================================================

func (s *ProfilingService) Summary(ctx context.Context, userID, sessionID string) (*domain.SummaryResponse, error) {
	ctx, span := profilingTracer.Start(ctx, "ProfilingService.Summary")
	defer span.End()

	snap, err := s.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	sc := snap.Context
	return &domain.SummaryResponse{
		SessionID:     sc.SessionID,
		Phase:         sc.Phase,
		Status:        snap.Status,
		Progress:      profiling.Progress(sc.Phase),
		IsComplete:    profiling.IsComplete(sc.Phase),
		Summary:       profiling.ProfileSummary(sc.ExtractedData, sc.Locale),
		ExtractedData: sc.ExtractedData,
	}, nil
}

// ============================================================
// helpers
// ============================================================

func sessionMetadata(sc domain.SessionContext) domain.SessionMetadata {
	return domain.SessionMetadata{
		Locale:        sc.Locale,
		CurrentPhase:  sc.Phase,
		ExtractedData: sc.ExtractedData.Clone(),
	}
}

// turnRecords maps turns to rows. User turns belong to the phase they
// answered; assistant turns to the phase whose question they ask.
func turnRecords(sessionID string, turns []domain.Turn, answered, asked domain.Phase) []domain.ProfilingTurnRecord {
	out := make([]domain.ProfilingTurnRecord, 0, len(turns))
	for _, t := range turns {
		phase := asked
		if t.Role == domain.RoleUser {
			phase = answered
		}
		out = append(out, domain.ProfilingTurnRecord{
			SessionID:  sessionID,
			TurnNumber: t.TurnNumber,
			Role:       t.Role,
			Content:    t.Content,
			InputMode:  t.InputMode,
			Phase:      phase,
			CreatedAt:  t.Timestamp,
		})
	}
	return out
}

func flagNames(flags []domain.SafetyFlag) []string {
	out := make([]string, len(flags))
	for i, f := range flags {
		out[i] = string(f)
	}
	return out
}
