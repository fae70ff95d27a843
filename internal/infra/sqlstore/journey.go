package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Consents
// ============================================================

func (s *Store) CreateConsents(ctx context.Context, consents []domain.ConsentRecord) ([]domain.ConsentRecord, error) {
	ctx, span := tracer.Start(ctx, "SQL.CreateConsents")
	defer span.End()

	out := make([]domain.ConsentRecord, 0, len(consents))
	err := s.inTx(ctx, "create_consents", func(tx *sql.Tx) error {
		q := s.rebind(`INSERT INTO rij_consents
			(id, user_id, consent_type, version, consented, ip_address, user_agent, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		for _, rec := range consents {
			if rec.ID == "" {
				rec.ID = uuid.NewString()
			}
			if rec.CreatedAt.IsZero() {
				rec.CreatedAt = s.now().UTC()
			}
			if _, err := tx.ExecContext(ctx, q,
				rec.ID, rec.UserID, string(rec.ConsentType), rec.Version, boolInt(rec.Consented),
				rec.IPHash, rec.UserAgentHash, formatTime(rec.CreatedAt),
			); err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ListConsents(ctx context.Context, userID string) ([]domain.ConsentRecord, error) {
	ctx, span := tracer.Start(ctx, "SQL.ListConsents")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT
		id, user_id, consent_type, version, consented, ip_address, user_agent, created_at
		FROM rij_consents WHERE user_id = ? ORDER BY created_at, id`), userID)
	if err != nil {
		return nil, s.wrap("list_consents", err)
	}
	defer rows.Close()

	var out []domain.ConsentRecord
	for rows.Next() {
		var (
			rec       domain.ConsentRecord
			consented int
			created   string
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.ConsentType, &rec.Version, &consented,
			&rec.IPHash, &rec.UserAgentHash, &created); err != nil {
			return nil, s.wrap("list_consents", err)
		}
		rec.Consented = consented != 0
		if rec.CreatedAt, err = parseTime(created); err != nil {
			return nil, s.wrap("list_consents", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("list_consents", err)
	}
	return out, nil
}

// ============================================================
// Profiling sessions
// ============================================================

func (s *Store) CreateProfilingSession(ctx context.Context, rec *domain.ProfilingSessionRecord) (*domain.ProfilingSessionRecord, error) {
	ctx, span := tracer.Start(ctx, "SQL.CreateProfilingSession")
	defer span.End()

	row := *rec
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = s.now().UTC()
	}
	row.UpdatedAt = row.CreatedAt
	span.SetAttributes(attribute.String("session.id", row.ID))

	meta, err := encodeJSON(row.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encode session metadata: %w", err)
	}
	_, err = s.db.ExecContext(ctx, s.rebind(`INSERT INTO rij_profiling_sessions
		(id, user_id, status, metadata, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`),
		row.ID, row.UserID, string(row.Status), meta, formatTime(row.CreatedAt), formatTime(row.UpdatedAt))
	if err != nil {
		return nil, s.wrap("create_profiling_session", err)
	}
	return &row, nil
}

func (s *Store) GetProfilingSession(ctx context.Context, sessionID string) (*domain.ProfilingSessionRecord, error) {
	ctx, span := tracer.Start(ctx, "SQL.GetProfilingSession")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	var (
		rec              domain.ProfilingSessionRecord
		meta             string
		created, updated string
	)
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT id, user_id, status, metadata, created_at, updated_at
		FROM rij_profiling_sessions WHERE id = ?`), sessionID).
		Scan(&rec.ID, &rec.UserID, &rec.Status, &meta, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "profiling session", ID: sessionID}
	}
	if err != nil {
		return nil, s.wrap("get_profiling_session", err)
	}
	if err := json.Unmarshal([]byte(meta), &rec.Metadata); err != nil {
		return nil, &domain.ErrValidation{Field: "rij_profiling_sessions.metadata", Message: err.Error()}
	}
	if rec.CreatedAt, err = parseTime(created); err != nil {
		return nil, s.wrap("get_profiling_session", err)
	}
	if rec.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, s.wrap("get_profiling_session", err)
	}
	return &rec, nil
}

func (s *Store) UpdateProfilingSession(ctx context.Context, sessionID string, status domain.SessionStatus, meta domain.SessionMetadata) error {
	ctx, span := tracer.Start(ctx, "SQL.UpdateProfilingSession")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", sessionID),
		attribute.String("session.status", string(status)),
	)

	encoded, err := encodeJSON(meta)
	if err != nil {
		return fmt.Errorf("encode session metadata: %w", err)
	}
	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE rij_profiling_sessions
		SET status = ?, metadata = ?, updated_at = ? WHERE id = ?`),
		string(status), encoded, formatTime(s.now()), sessionID)
	if err != nil {
		return s.wrap("update_profiling_session", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &domain.ErrNotFound{Resource: "profiling session", ID: sessionID}
	}
	return nil
}

// ============================================================
// Profiling turns
// ============================================================

// CreateProfilingTurns inserts the turns in one transaction, in order.
func (s *Store) CreateProfilingTurns(ctx context.Context, turns []domain.ProfilingTurnRecord) error {
	ctx, span := tracer.Start(ctx, "SQL.CreateProfilingTurns")
	defer span.End()
	span.SetAttributes(attribute.Int("turns.count", len(turns)))

	return s.inTx(ctx, "create_profiling_turns", func(tx *sql.Tx) error {
		q := s.rebind(`INSERT INTO rij_profiling_turns
			(session_id, turn_number, role, content, input_mode, phase, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		for _, t := range turns {
			created := t.CreatedAt
			if created.IsZero() {
				created = s.now()
			}
			if _, err := tx.ExecContext(ctx, q, t.SessionID, t.TurnNumber, string(t.Role), t.Content,
				string(t.InputMode), string(t.Phase), formatTime(created)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) ListProfilingTurns(ctx context.Context, sessionID string) ([]domain.ProfilingTurnRecord, error) {
	ctx, span := tracer.Start(ctx, "SQL.ListProfilingTurns")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT
		session_id, turn_number, role, content, input_mode, phase, created_at
		FROM rij_profiling_turns WHERE session_id = ? ORDER BY turn_number`), sessionID)
	if err != nil {
		return nil, s.wrap("list_profiling_turns", err)
	}
	defer rows.Close()

	var out []domain.ProfilingTurnRecord
	for rows.Next() {
		var (
			t       domain.ProfilingTurnRecord
			created string
		)
		if err := rows.Scan(&t.SessionID, &t.TurnNumber, &t.Role, &t.Content, &t.InputMode, &t.Phase, &created); err != nil {
			return nil, s.wrap("list_profiling_turns", err)
		}
		if t.CreatedAt, err = parseTime(created); err != nil {
			return nil, s.wrap("list_profiling_turns", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("list_profiling_turns", err)
	}
	return out, nil
}

// ============================================================
// Itineraries, revisions, trips
// ============================================================

func (s *Store) CreateItinerary(ctx context.Context, rec *domain.ItineraryRecord) (*domain.ItineraryRecord, error) {
	ctx, span := tracer.Start(ctx, "SQL.CreateItinerary")
	defer span.End()

	row := *rec
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = s.now().UTC()
	}
	span.SetAttributes(attribute.String("itinerary.id", row.ID))

	meta, err := encodeJSON(row.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encode itinerary metadata: %w", err)
	}
	_, err = s.db.ExecContext(ctx, s.rebind(`INSERT INTO rij_itineraries
		(id, user_id, profile_id, title, description, total_days, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		row.ID, row.UserID, row.ProfileID, row.Title, row.Description, row.TotalDays, meta, formatTime(row.CreatedAt))
	if err != nil {
		return nil, s.wrap("create_itinerary", err)
	}
	return &row, nil
}

func (s *Store) GetItinerary(ctx context.Context, itineraryID string) (*domain.ItineraryRecord, error) {
	ctx, span := tracer.Start(ctx, "SQL.GetItinerary")
	defer span.End()
	span.SetAttributes(attribute.String("itinerary.id", itineraryID))

	var (
		rec     domain.ItineraryRecord
		meta    string
		created string
	)
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT
		id, user_id, profile_id, title, description, total_days, metadata, created_at
		FROM rij_itineraries WHERE id = ?`), itineraryID).
		Scan(&rec.ID, &rec.UserID, &rec.ProfileID, &rec.Title, &rec.Description, &rec.TotalDays, &meta, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "itinerary", ID: itineraryID}
	}
	if err != nil {
		return nil, s.wrap("get_itinerary", err)
	}
	if err := json.Unmarshal([]byte(meta), &rec.Metadata); err != nil {
		return nil, &domain.ErrValidation{Field: "rij_itineraries.metadata", Message: err.Error()}
	}
	if rec.CreatedAt, err = parseTime(created); err != nil {
		return nil, s.wrap("get_itinerary", err)
	}
	return &rec, nil
}

func (s *Store) CreateItineraryRevision(ctx context.Context, rec *domain.ItineraryRevisionRecord) (*domain.ItineraryRevisionRecord, error) {
	ctx, span := tracer.Start(ctx, "SQL.CreateItineraryRevision")
	defer span.End()

	row := *rec
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = s.now().UTC()
	}
	if row.PinnedBlockIDs == nil {
		row.PinnedBlockIDs = []string{}
	}
	pinned, err := encodeJSON(row.PinnedBlockIDs)
	if err != nil {
		return nil, fmt.Errorf("encode pinned blocks: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`INSERT INTO rij_itinerary_revisions
		(id, itinerary_id, revised_itinerary_id, user_id, revision_request, pinned_block_ids, input_mode, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		row.ID, row.ItineraryID, row.RevisedID, row.UserID, row.RevisionRequest, pinned, string(row.InputMode), formatTime(row.CreatedAt))
	if err != nil {
		return nil, s.wrap("create_itinerary_revision", err)
	}
	return &row, nil
}

func (s *Store) CreateTripSession(ctx context.Context, rec *domain.TripSessionRecord) (*domain.TripSessionRecord, error) {
	ctx, span := tracer.Start(ctx, "SQL.CreateTripSession")
	defer span.End()

	row := *rec
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = s.now().UTC()
	}
	if row.PinnedBlocks == nil {
		row.PinnedBlocks = []string{}
	}
	pinned, err := encodeJSON(row.PinnedBlocks)
	if err != nil {
		return nil, fmt.Errorf("encode pinned blocks: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`INSERT INTO rij_trip_sessions
		(id, user_id, itinerary_id, status, pinned_blocks, created_at) VALUES (?, ?, ?, ?, ?, ?)`),
		row.ID, row.UserID, row.ItineraryID, row.Status, pinned, formatTime(row.CreatedAt))
	if err != nil {
		return nil, s.wrap("create_trip_session", err)
	}
	return &row, nil
}

// inTx runs fn in a transaction, rolling back on error.
func (s *Store) inTx(ctx context.Context, op string, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.wrap(op, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return s.wrap(op, err)
	}
	if err := tx.Commit(); err != nil {
		return s.wrap(op, err)
	}
	return nil
}
