// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
)

// Transcriber converts recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string, locale domain.Locale) (*domain.Transcription, error)
}

// Responder produces the assistant's reply for one profiling turn.
// Any conforming implementation can drive the orchestrator.
type Responder interface {
	NextTurn(ctx context.Context, in domain.NextTurnInput) (*domain.NextTurnOutput, error)
}

// Cache is a process-local key/value cache. Implementations decide eviction.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// JourneyStore is the persistence collaborator for consents, profiling
// sessions, itineraries and trips. Every call is an independent keyed
// insert/select/update; callers never rely on atomicity across calls.
// Implemented by the Supabase adapter and the SQL store.
type JourneyStore interface {
	// Consents
	CreateConsents(ctx context.Context, consents []domain.ConsentRecord) ([]domain.ConsentRecord, error)
	ListConsents(ctx context.Context, userID string) ([]domain.ConsentRecord, error)

	// Profiling sessions
	CreateProfilingSession(ctx context.Context, rec *domain.ProfilingSessionRecord) (*domain.ProfilingSessionRecord, error)
	GetProfilingSession(ctx context.Context, sessionID string) (*domain.ProfilingSessionRecord, error)
	UpdateProfilingSession(ctx context.Context, sessionID string, status domain.SessionStatus, meta domain.SessionMetadata) error

	// Profiling turns
	CreateProfilingTurns(ctx context.Context, turns []domain.ProfilingTurnRecord) error
	ListProfilingTurns(ctx context.Context, sessionID string) ([]domain.ProfilingTurnRecord, error)

	// Itineraries
	CreateItinerary(ctx context.Context, rec *domain.ItineraryRecord) (*domain.ItineraryRecord, error)
	GetItinerary(ctx context.Context, itineraryID string) (*domain.ItineraryRecord, error)
	CreateItineraryRevision(ctx context.Context, rec *domain.ItineraryRevisionRecord) (*domain.ItineraryRevisionRecord, error)

	// Trips
	CreateTripSession(ctx context.Context, rec *domain.TripSessionRecord) (*domain.TripSessionRecord, error)

	// Health
	Ping(ctx context.Context) error
}
