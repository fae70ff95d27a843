package sqlstore_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
	"github.com/boddenberg/rij-wellness-bfa/internal/infra/sqlstore"
	"github.com/boddenberg/rij-wellness-bfa/internal/itinerary"
	"github.com/boddenberg/rij-wellness-bfa/internal/port"
)

var _ port.JourneyStore = (*sqlstore.Store)(nil)

func newStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	s, err := sqlstore.NewSQLite(context.Background(), filepath.Join(t.TempDir(), "rij.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rij.db")
	for i := 0; i < 2; i++ {
		s, err := sqlstore.NewSQLite(context.Background(), path, zap.NewNop())
		require.NoError(t, err)
		require.NoError(t, s.Ping(context.Background()))
		require.NoError(t, s.Close())
	}
}

func TestConsents_RoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	userID := uuid.NewString()

	created, err := s.CreateConsents(ctx, []domain.ConsentRecord{
		{UserID: userID, ConsentType: domain.ConsentAudioRecording, Version: domain.ConsentVersion, Consented: true, IPHash: "aa"},
		{UserID: userID, ConsentType: domain.ConsentLocationTracking, Version: domain.ConsentVersion, Consented: false},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.NotEmpty(t, created[0].ID)

	got, err := s.ListConsents(ctx, userID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	byType := map[domain.ConsentType]domain.ConsentRecord{}
	for _, c := range got {
		byType[c.ConsentType] = c
	}
	assert.True(t, byType[domain.ConsentAudioRecording].Consented)
	assert.Equal(t, "aa", byType[domain.ConsentAudioRecording].IPHash)
	assert.False(t, byType[domain.ConsentLocationTracking].Consented)

	none, err := s.ListConsents(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestProfilingSession_Lifecycle(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	rec, err := s.CreateProfilingSession(ctx, &domain.ProfilingSessionRecord{
		UserID: uuid.NewString(),
		Status: domain.SessionActive,
		Metadata: domain.SessionMetadata{
			Locale:       domain.LocaleJA,
			CurrentPhase: domain.PhaseState,
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)

	err = s.UpdateProfilingSession(ctx, rec.ID, domain.SessionHalted, domain.SessionMetadata{
		Locale:       domain.LocaleJA,
		CurrentPhase: domain.PhaseDone,
		ExtractedData: domain.ExtractedData{
			StressLevel:      domain.Ptr(8),
			PreferredPillars: []domain.Pillar{domain.PillarZen, domain.PillarToji},
		},
	})
	require.NoError(t, err)

	got, err := s.GetProfilingSession(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionHalted, got.Status)
	assert.Equal(t, domain.PhaseDone, got.Metadata.CurrentPhase)
	assert.Equal(t, 8, *got.Metadata.ExtractedData.StressLevel)
	assert.Equal(t, []domain.Pillar{domain.PillarZen, domain.PillarToji}, got.Metadata.ExtractedData.PreferredPillars)
	assert.Nil(t, got.Metadata.ExtractedData.SleepQuality)

	var nf *domain.ErrNotFound
	_, err = s.GetProfilingSession(ctx, "missing")
	require.ErrorAs(t, err, &nf)
	require.ErrorAs(t, s.UpdateProfilingSession(ctx, "missing", domain.SessionActive, domain.SessionMetadata{}), &nf)
}

func TestProfilingTurns_OrderedAndUnique(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	sess, err := s.CreateProfilingSession(ctx, &domain.ProfilingSessionRecord{UserID: uuid.NewString(), Status: domain.SessionActive})
	require.NoError(t, err)

	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.CreateProfilingTurns(ctx, []domain.ProfilingTurnRecord{
		{SessionID: sess.ID, TurnNumber: 2, Role: domain.RoleUser, Content: "tired", InputMode: domain.InputText, Phase: domain.PhaseState, CreatedAt: ts.Add(time.Minute)},
		{SessionID: sess.ID, TurnNumber: 3, Role: domain.RoleAssistant, Content: "how is your body?", InputMode: domain.InputText, Phase: domain.PhaseBody, CreatedAt: ts.Add(time.Minute)},
	}))
	require.NoError(t, s.CreateProfilingTurns(ctx, []domain.ProfilingTurnRecord{
		{SessionID: sess.ID, TurnNumber: 1, Role: domain.RoleAssistant, Content: "welcome", InputMode: domain.InputSystem, Phase: domain.PhaseState, CreatedAt: ts},
	}))

	turns, err := s.ListProfilingTurns(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	for i, tr := range turns {
		assert.Equal(t, i+1, tr.TurnNumber)
	}
	assert.True(t, turns[0].CreatedAt.Equal(ts))

	// duplicate turn number rolls back the whole batch
	err = s.CreateProfilingTurns(ctx, []domain.ProfilingTurnRecord{
		{SessionID: sess.ID, TurnNumber: 4, Role: domain.RoleUser, Content: "x", InputMode: domain.InputText, Phase: domain.PhaseBody},
		{SessionID: sess.ID, TurnNumber: 3, Role: domain.RoleUser, Content: "dup", InputMode: domain.InputText, Phase: domain.PhaseBody},
	})
	var ext *domain.ErrExternalService
	require.ErrorAs(t, err, &ext)

	turns, err = s.ListProfilingTurns(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, turns, 3)
}

func TestItinerary_RoundTripWithRevisionAndTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	userID := uuid.NewString()

	it := itinerary.NewEngine().Generate(domain.GenerationInput{
		ProfileData: domain.ExtractedData{PreferredPillars: []domain.Pillar{domain.PillarShokuyojo}},
		Locale:      domain.LocaleEN,
	})

	rec, err := s.CreateItinerary(ctx, &domain.ItineraryRecord{
		ID:          it.ID,
		UserID:      userID,
		ProfileID:   uuid.NewString(),
		Title:       it.Title,
		Description: it.Description,
		TotalDays:   it.TotalDays,
		Metadata: domain.ItineraryMetadata{
			Locale:           domain.LocaleEN,
			PillarWeights:    it.PillarWeights,
			IntensityCurve:   it.IntensityCurve,
			OverallNarrative: it.OverallNarrative,
			Days:             it.Days,
		},
	})
	require.NoError(t, err)

	got, err := s.GetItinerary(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, it, got.Itinerary())

	rev, err := s.CreateItineraryRevision(ctx, &domain.ItineraryRevisionRecord{
		ItineraryID:     rec.ID,
		UserID:          userID,
		RevisionRequest: "more rest please",
		InputMode:       domain.InputText,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{}, rev.PinnedBlockIDs)

	trip, err := s.CreateTripSession(ctx, &domain.TripSessionRecord{
		UserID:       userID,
		ItineraryID:  rec.ID,
		Status:       "active",
		PinnedBlocks: []string{it.Days[0].Blocks[0].ID},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, trip.ID)

	var nf *domain.ErrNotFound
	_, err = s.GetItinerary(ctx, "missing")
	require.ErrorAs(t, err, &nf)
}

func TestConcurrentWrites(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateProfilingSession(ctx, &domain.ProfilingSessionRecord{UserID: uuid.NewString(), Status: domain.SessionActive})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}
