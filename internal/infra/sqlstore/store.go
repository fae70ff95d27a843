// Package sqlstore persists profiling journeys through database/sql, on
// SQLite for local runs and tests or on Postgres (the Supabase database
// reached directly).
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var tracer = otel.Tracer("sqlstore")

// Driver names registered by the imported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// schema uses only TEXT and INTEGER columns so the same statements run on
// both drivers. JSON documents and timestamps are stored as text.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS rij_consents (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		consent_type TEXT NOT NULL,
		version      TEXT NOT NULL,
		consented    INTEGER NOT NULL,
		ip_address   TEXT NOT NULL DEFAULT '',
		user_agent   TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS rij_consents_user ON rij_consents (user_id)`,
	`CREATE TABLE IF NOT EXISTS rij_profiling_sessions (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		status     TEXT NOT NULL,
		metadata   TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rij_profiling_turns (
		session_id  TEXT NOT NULL REFERENCES rij_profiling_sessions (id),
		turn_number INTEGER NOT NULL,
		role        TEXT NOT NULL,
		content     TEXT NOT NULL,
		input_mode  TEXT NOT NULL,
		phase       TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		PRIMARY KEY (session_id, turn_number)
	)`,
	`CREATE TABLE IF NOT EXISTS rij_itineraries (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		profile_id  TEXT NOT NULL,
		title       TEXT NOT NULL,
		description TEXT NOT NULL,
		total_days  INTEGER NOT NULL,
		metadata    TEXT NOT NULL,
		created_at  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rij_itinerary_revisions (
		id                   TEXT PRIMARY KEY,
		itinerary_id         TEXT NOT NULL REFERENCES rij_itineraries (id),
		revised_itinerary_id TEXT NOT NULL DEFAULT '',
		user_id              TEXT NOT NULL,
		revision_request     TEXT NOT NULL,
		pinned_block_ids     TEXT NOT NULL,
		input_mode           TEXT NOT NULL,
		created_at           TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rij_trip_sessions (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL,
		itinerary_id  TEXT NOT NULL REFERENCES rij_itineraries (id),
		status        TEXT NOT NULL,
		pinned_blocks TEXT NOT NULL,
		created_at    TEXT NOT NULL
	)`,
}

// Store implements port.JourneyStore on a SQL database.
type Store struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
	now    func() time.Time
}

// Open connects with the given driver, pings the database and runs the
// migrations.
func Open(ctx context.Context, driver, dsn string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open(driver, strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if driver == DriverSQLite {
		// one writer at a time; avoids SQLITE_BUSY under concurrent requests
		db.SetMaxOpenConns(1)
		for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("pragma: %w", err)
			}
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	logger.Info("sql store ready", zap.String("driver", driver))
	return &Store{db: db, driver: driver, logger: logger, now: time.Now}, nil
}

// NewSQLite opens (creating if needed) a SQLite database file.
func NewSQLite(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	return Open(ctx, DriverSQLite, path, logger)
}

// NewPostgres connects to Postgres through the pgx stdlib driver.
func NewPostgres(ctx context.Context, dsn string, logger *zap.Logger) (*Store, error) {
	return Open(ctx, DriverPostgres, dsn, logger)
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return s.wrap("ping", err)
	}
	return nil
}

// rebind rewrites ? placeholders into $n for Postgres.
func (s *Store) rebind(q string) string {
	if s.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) wrap(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.ErrTimeout{Operation: "sql/" + op}
	}
	s.logger.Error("sql store: query failed", zap.String("op", op), zap.Error(err))
	return &domain.ErrExternalService{Service: "sql/" + op, Err: err}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(v string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, v)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
