package supabase

import (
	"context"
	"net/http"
	"net/url"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Journey persistence (implements port.JourneyStore)
// ============================================================

const (
	tableConsents  = "rij_consents"
	tableSessions  = "rij_profiling_sessions"
	tableTurns     = "rij_profiling_turns"
	tableItinerary = "rij_itineraries"
	tableRevisions = "rij_itinerary_revisions"
	tableTrips     = "rij_trip_sessions"
)

// --- Consents ---

func (c *Client) CreateConsents(ctx context.Context, consents []domain.ConsentRecord) ([]domain.ConsentRecord, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateConsents")
	defer span.End()
	if len(consents) == 0 {
		return nil, nil
	}

	rows := make([]domain.ConsentRecord, len(consents))
	for i, rec := range consents {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = c.now().UTC()
		}
		rows[i] = rec
	}

	var out []domain.ConsentRecord
	err := c.call(ctx, "consents", func() error {
		var err error
		out, err = insert[domain.ConsentRecord](ctx, c, tableConsents, rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListConsents(ctx context.Context, userID string) ([]domain.ConsentRecord, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListConsents")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var out []domain.ConsentRecord
	err := c.call(ctx, "consents", func() error {
		var err error
		out, err = selectRows[domain.ConsentRecord](ctx, c, tableConsents, url.Values{
			"user_id": {eq(userID)},
			"order":   {"created_at.asc"},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// --- Profiling sessions ---

func (c *Client) CreateProfilingSession(ctx context.Context, rec *domain.ProfilingSessionRecord) (*domain.ProfilingSessionRecord, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateProfilingSession")
	defer span.End()

	row := *rec
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	now := c.now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = row.CreatedAt
	span.SetAttributes(attribute.String("session.id", row.ID))

	var out []domain.ProfilingSessionRecord
	err := c.call(ctx, "profiling_sessions", func() error {
		var err error
		out, err = insert[domain.ProfilingSessionRecord](ctx, c, tableSessions, row)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return &row, nil
	}
	return &out[0], nil
}

func (c *Client) GetProfilingSession(ctx context.Context, sessionID string) (*domain.ProfilingSessionRecord, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetProfilingSession")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	var rec *domain.ProfilingSessionRecord
	err := c.call(ctx, "profiling_sessions", func() error {
		rows, err := selectRows[domain.ProfilingSessionRecord](ctx, c, tableSessions, url.Values{
			"id":    {eq(sessionID)},
			"limit": {"1"},
		})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return &domain.ErrNotFound{Resource: "profiling session", ID: sessionID}
		}
		rec = &rows[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *Client) UpdateProfilingSession(ctx context.Context, sessionID string, status domain.SessionStatus, meta domain.SessionMetadata) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateProfilingSession")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", sessionID),
		attribute.String("session.status", string(status)),
	)

	return c.call(ctx, "profiling_sessions", func() error {
		return c.patch(ctx, tableSessions, url.Values{"id": {eq(sessionID)}}, map[string]any{
			"status":     status,
			"metadata":   meta,
			"updated_at": c.now().UTC(),
		})
	})
}

// --- Profiling turns ---

func (c *Client) CreateProfilingTurns(ctx context.Context, turns []domain.ProfilingTurnRecord) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateProfilingTurns")
	defer span.End()
	span.SetAttributes(attribute.Int("turns.count", len(turns)))
	if len(turns) == 0 {
		return nil
	}

	// turns are keyed by (session_id, turn_number); a retried insert skips rows already written
	path := query(tableTurns, url.Values{"on_conflict": {"session_id,turn_number"}})
	return c.call(ctx, "profiling_turns", func() error {
		_, err := c.doRequest(ctx, http.MethodPost, path, turns, "return=minimal,resolution=ignore-duplicates")
		return err
	})
}

func (c *Client) ListProfilingTurns(ctx context.Context, sessionID string) ([]domain.ProfilingTurnRecord, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListProfilingTurns")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	var out []domain.ProfilingTurnRecord
	err := c.call(ctx, "profiling_turns", func() error {
		var err error
		out, err = selectRows[domain.ProfilingTurnRecord](ctx, c, tableTurns, url.Values{
			"session_id": {eq(sessionID)},
			"order":      {"turn_number.asc"},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// --- Itineraries ---

func (c *Client) CreateItinerary(ctx context.Context, rec *domain.ItineraryRecord) (*domain.ItineraryRecord, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateItinerary")
	defer span.End()

	row := *rec
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = c.now().UTC()
	}
	span.SetAttributes(attribute.String("itinerary.id", row.ID))

	var out []domain.ItineraryRecord
	err := c.call(ctx, "itineraries", func() error {
		var err error
		out, err = insert[domain.ItineraryRecord](ctx, c, tableItinerary, row)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return &row, nil
	}
	return &out[0], nil
}

func (c *Client) GetItinerary(ctx context.Context, itineraryID string) (*domain.ItineraryRecord, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetItinerary")
	defer span.End()
	span.SetAttributes(attribute.String("itinerary.id", itineraryID))

	var rec *domain.ItineraryRecord
	err := c.call(ctx, "itineraries", func() error {
		rows, err := selectRows[domain.ItineraryRecord](ctx, c, tableItinerary, url.Values{
			"id":    {eq(itineraryID)},
			"limit": {"1"},
		})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return &domain.ErrNotFound{Resource: "itinerary", ID: itineraryID}
		}
		rec = &rows[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *Client) CreateItineraryRevision(ctx context.Context, rec *domain.ItineraryRevisionRecord) (*domain.ItineraryRevisionRecord, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateItineraryRevision")
	defer span.End()

	row := *rec
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = c.now().UTC()
	}
	if row.PinnedBlockIDs == nil {
		row.PinnedBlockIDs = []string{}
	}

	var out []domain.ItineraryRevisionRecord
	err := c.call(ctx, "itinerary_revisions", func() error {
		var err error
		out, err = insert[domain.ItineraryRevisionRecord](ctx, c, tableRevisions, row)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return &row, nil
	}
	return &out[0], nil
}

// --- Trips ---

func (c *Client) CreateTripSession(ctx context.Context, rec *domain.TripSessionRecord) (*domain.TripSessionRecord, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateTripSession")
	defer span.End()

	row := *rec
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = c.now().UTC()
	}
	if row.PinnedBlocks == nil {
		row.PinnedBlocks = []string{}
	}

	var out []domain.TripSessionRecord
	err := c.call(ctx, "trip_sessions", func() error {
		var err error
		out, err = insert[domain.TripSessionRecord](ctx, c, tableTrips, row)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return &row, nil
	}
	return &out[0], nil
}
