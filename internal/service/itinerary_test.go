package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
	"github.com/boddenberg/rij-wellness-bfa/internal/validation"
)

func TestItinerary_GenerateRequiresFinishedSession(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := newUser()

	snap, err := e.profiling.Start(ctx, user, domain.LocaleEN)
	require.NoError(t, err)

	_, err = e.itineraries.Generate(ctx, user, snap.Context.SessionID, 0)
	var conflict *domain.ErrConflict
	require.ErrorAs(t, err, &conflict)

	_, err = e.profiling.SubmitTurn(ctx, user, snap.Context.SessionID, "I want to kill myself", domain.InputText)
	require.NoError(t, err)
	_, err = e.itineraries.Generate(ctx, user, snap.Context.SessionID, 0)
	require.ErrorAs(t, err, &conflict, "halted sessions never get an itinerary")
}

func TestItinerary_GenerateGetAndComplete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := newUser()
	sessionID := e.completeSession(t, user, domain.LocaleEN)

	it, err := e.itineraries.Generate(ctx, user, sessionID, 4)
	require.NoError(t, err)
	require.NoError(t, validation.New().ValidateItinerary(it))
	assert.Equal(t, 4, it.TotalDays)

	rec, err := e.store.GetProfilingSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, rec.Status)

	got, err := e.itineraries.Get(ctx, user, it.ID)
	require.NoError(t, err)
	assert.Equal(t, it.Days, got.Days)

	// uncached path goes through the store
	fresh := newEnvOn(t, e.store)
	stored, err := fresh.itineraries.Get(ctx, user, it.ID)
	require.NoError(t, err)
	assert.Equal(t, it, stored)

	var forbidden *domain.ErrForbidden
	_, err = fresh.itineraries.Get(ctx, newUser(), it.ID)
	require.ErrorAs(t, err, &forbidden)

	assert.Equal(t, int64(1), e.metrics.GetProfilingSnapshot().ItinerariesGenerated)
}

func TestItinerary_GenerateRejectsBadDays(t *testing.T) {
	e := newEnv(t)
	user := newUser()
	sessionID := e.completeSession(t, user, domain.LocaleEN)

	_, err := e.itineraries.Generate(context.Background(), user, sessionID, -2)
	var verr *domain.ErrValidation
	require.ErrorAs(t, err, &verr)
}

func TestItinerary_ReviseKeepsPinnedBlocks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := newUser()
	sessionID := e.completeSession(t, user, domain.LocaleEN)

	it, err := e.itineraries.Generate(ctx, user, sessionID, 0)
	require.NoError(t, err)
	pinned := it.Days[1].Blocks[2]

	resp, err := e.itineraries.Revise(ctx, user, it.ID, domain.ReviseItineraryRequest{
		Request:        "more quiet mornings",
		PinnedBlockIDs: []string{pinned.ID},
	})
	require.NoError(t, err)
	assert.NotEqual(t, it.ID, resp.Itinerary.ID)
	assert.Equal(t, pinned, resp.Itinerary.Days[1].Blocks[2])
	assert.NotEqual(t, it.Days[0].Blocks[0].ID, resp.Itinerary.Days[0].Blocks[0].ID)
	assert.Contains(t, resp.ChangeSummary, `"more quiet mornings"`)
	assert.Contains(t, resp.ChangeSummary, "1 pinned")
	assert.NotEmpty(t, resp.RevisionID)

	revised, err := e.itineraries.Get(ctx, user, resp.Itinerary.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Itinerary.Days, revised.Days)
}

func TestItinerary_ReviseValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := newUser()
	sessionID := e.completeSession(t, user, domain.LocaleJA)
	it, err := e.itineraries.Generate(ctx, user, sessionID, 0)
	require.NoError(t, err)

	var verr *domain.ErrValidation
	_, err = e.itineraries.Revise(ctx, user, it.ID, domain.ReviseItineraryRequest{Request: "  "})
	require.ErrorAs(t, err, &verr)

	_, err = e.itineraries.Revise(ctx, user, it.ID, domain.ReviseItineraryRequest{
		Request: "もっと休みたい", PinnedBlockIDs: []string{"not-a-block"},
	})
	require.ErrorAs(t, err, &verr)

	resp, err := e.itineraries.Revise(ctx, user, it.ID, domain.ReviseItineraryRequest{Request: "もっと休みたい"})
	require.NoError(t, err)
	assert.Contains(t, resp.ChangeSummary, "「もっと休みたい」")
}

func TestItinerary_StartTrip(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := newUser()
	sessionID := e.completeSession(t, user, domain.LocaleEN)
	it, err := e.itineraries.Generate(ctx, user, sessionID, 0)
	require.NoError(t, err)

	trip, err := e.itineraries.StartTrip(ctx, user, it.ID, []string{it.Days[0].Blocks[0].ID})
	require.NoError(t, err)
	assert.Equal(t, "active", trip.Status)
	assert.Equal(t, it.ID, trip.ItineraryID)

	var verr *domain.ErrValidation
	_, err = e.itineraries.StartTrip(ctx, user, it.ID, []string{"nope"})
	require.ErrorAs(t, err, &verr)

	var forbidden *domain.ErrForbidden
	_, err = e.itineraries.StartTrip(ctx, newUser(), it.ID, nil)
	require.ErrorAs(t, err, &forbidden)
}
