// Package profiling implements the conversational state machine that walks a
// traveler through the fixed profiling phases.
//
// The orchestrator holds no session-scoped state. Every call takes a
// SessionContext snapshot and returns a new one; persisting it is the
// caller's job. Turn numbers are derived from the snapshot's turn count, so
// callers must serialize ProcessTurn per session.
package profiling

import (
	"context"
	"fmt"
	"time"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
	"github.com/boddenberg/rij-wellness-bfa/internal/port"
	"github.com/boddenberg/rij-wellness-bfa/internal/safety"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("profiling/orchestrator")

const (
	greetingEN = "Hello! I'm here to help you plan a wellness journey in Japan. To start, how have you been feeling lately?"
	greetingJA = "こんにちは！日本でのウェルネス旅行をお手伝いできることを嬉しく思います。まず、最近どのようにお過ごしか教えていただけますか？"
)

// ProcessTurnInput is one user message against a session snapshot.
type ProcessTurnInput struct {
	SessionContext domain.SessionContext
	UserInput      string
	InputMode      domain.InputMode
}

// ProcessTurnOutput carries the new snapshot and what to show the user.
type ProcessTurnOutput struct {
	UpdatedContext    domain.SessionContext
	AssistantResponse string
	ShouldStop        bool
	ReadyForItinerary bool
	// Safety is the pre-turn classification, exposed for auditing.
	Safety domain.SafetyCheckResult
}

// Orchestrator sequences profiling phases, intercepts unsafe input and merges
// extracted preferences across turns.
type Orchestrator struct {
	responder   port.Responder
	transcriber port.Transcriber
	newID       func() string
	now         func() time.Time
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithIDGenerator replaces the session identifier generator.
func WithIDGenerator(fn func() string) Option {
	return func(o *Orchestrator) { o.newID = fn }
}

// WithClock replaces the turn timestamp source.
func WithClock(fn func() time.Time) Option {
	return func(o *Orchestrator) { o.now = fn }
}

// NewOrchestrator creates an orchestrator with its collaborators injected.
func NewOrchestrator(responder port.Responder, transcriber port.Transcriber, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		responder:   responder,
		transcriber: transcriber,
		newID:       uuid.NewString,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// InitializeSession starts a conversation in the state phase with a single
// assistant greeting as turn 1.
func (o *Orchestrator) InitializeSession(userID string, locale domain.Locale) domain.SessionContext {
	locale = locale.OrDefault()
	greeting := greetingEN
	if locale == domain.LocaleJA {
		greeting = greetingJA
	}

	return domain.SessionContext{
		SessionID: o.newID(),
		UserID:    userID,
		Phase:     domain.PhaseState,
		Turns: []domain.Turn{{
			TurnNumber: 1,
			Role:       domain.RoleAssistant,
			Content:    greeting,
			InputMode:  domain.InputSystem,
			Timestamp:  o.now(),
		}},
		Locale: locale,
	}
}

// ProcessTurn runs one user message through the safety check and the
// responder and returns the next snapshot.
//
// On a safety stop only the emergency assistant turn is appended and the
// phase jumps straight to done; the responder is not called. Otherwise the
// user turn and the assistant turn are appended, in that order.
func (o *Orchestrator) ProcessTurn(ctx context.Context, in ProcessTurnInput) (*ProcessTurnOutput, error) {
	ctx, span := tracer.Start(ctx, "Orchestrator.ProcessTurn")
	defer span.End()

	sc := in.SessionContext
	span.SetAttributes(
		attribute.String("session.id", sc.SessionID),
		attribute.String("profiling.phase", string(sc.Phase)),
	)

	check := safety.DetectFlags(in.UserInput, sc.Locale)
	if safety.ShouldStop(check) {
		span.SetAttributes(attribute.Bool("profiling.safety_stop", true))
		updated := sc.Clone()
		updated.Phase = domain.PhaseDone
		updated.Turns = append(updated.Turns, domain.Turn{
			TurnNumber: len(sc.Turns) + 1,
			Role:       domain.RoleAssistant,
			Content:    check.EmergencyMessage,
			InputMode:  domain.InputSystem,
			Timestamp:  o.now(),
		})
		return &ProcessTurnOutput{
			UpdatedContext:    updated,
			AssistantResponse: check.EmergencyMessage,
			ShouldStop:        true,
			Safety:            check,
		}, nil
	}

	userTurn := domain.Turn{
		TurnNumber: len(sc.Turns) + 1,
		Role:       domain.RoleUser,
		Content:    in.UserInput,
		InputMode:  in.InputMode,
		Timestamp:  o.now(),
	}

	reply, err := o.responder.NextTurn(ctx, domain.NextTurnInput{
		Phase:          sc.Phase,
		Transcript:     in.UserInput,
		SessionContext: sc.Clone(),
		Locale:         sc.Locale,
	})
	if err != nil {
		return nil, fmt.Errorf("next turn: %w", err)
	}

	assistantTurn := domain.Turn{
		TurnNumber: len(sc.Turns) + 2,
		Role:       domain.RoleAssistant,
		Content:    reply.Response,
		InputMode:  domain.InputSystem,
		Timestamp:  o.now(),
	}

	updated := sc.Clone()
	updated.Phase = reply.NextPhase
	updated.Turns = append(updated.Turns, userTurn, assistantTurn)
	updated.ExtractedData = MergeExtractedData(sc.ExtractedData, reply.ExtractedData)

	return &ProcessTurnOutput{
		UpdatedContext:    updated,
		AssistantResponse: reply.Response,
		ReadyForItinerary: reply.ShouldProceedToItinerary,
		Safety:            check,
	}, nil
}

// TranscribeAudio returns the transcribed text of audio. Collaborator errors
// are returned unchanged apart from wrapping.
func (o *Orchestrator) TranscribeAudio(ctx context.Context, audio []byte, mimeType string, locale domain.Locale) (string, error) {
	ctx, span := tracer.Start(ctx, "Orchestrator.TranscribeAudio")
	defer span.End()

	res, err := o.transcriber.Transcribe(ctx, audio, mimeType, locale)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	return res.Text, nil
}

// CurrentPhaseIndex returns the position of phase in the phase order.
func CurrentPhaseIndex(phase domain.Phase) int {
	return phase.Index()
}

// Progress returns completion as an integer percentage: 0 at state, 100 at done.
func Progress(phase domain.Phase) int {
	idx := CurrentPhaseIndex(phase)
	if idx < 0 {
		return 0
	}
	total := len(domain.PhaseOrder) - 1
	return (idx*100 + total/2) / total
}

// IsComplete reports whether the conversation has reached its terminal phase.
func IsComplete(phase domain.Phase) bool {
	return phase == domain.PhaseDone
}
