package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// SQLiteRepo stores events in a single SQLite table with a JSON payload
// column. BySession returns payloads as json.RawMessage.
type SQLiteRepo struct {
	db *sql.DB
}

// Open creates a SQLiteRepo at dsn, applying pragmas and creating the
// schema if needed.
func Open(dsn string) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// Close closes the underlying database.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

var _ Repo = (*SQLiteRepo)(nil)

// Append writes one event. The auto-increment id provides append order.
func (r *SQLiteRepo) Append(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO events (type, session_id, timestamp, payload) VALUES (?, ?, ?, ?)`,
		string(ev.Type), ev.SessionID, ts.UTC().Format(time.RFC3339Nano), string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// BySession returns a session's events in append order.
func (r *SQLiteRepo) BySession(ctx context.Context, sessionID string) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT type, session_id, timestamp, payload FROM events WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			typ, sid, ts string
			payload      []byte
		)
		if err := rows.Scan(&typ, &sid, &ts, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		ev := Event{Type: Type(typ), SessionID: sid, Payload: json.RawMessage(payload)}
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			ev.Timestamp = parsed
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// CountByType returns the number of events of the given type.
func (r *SQLiteRepo) CountByType(ctx context.Context, t Type) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE type = ?`, string(t),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		session_id TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		payload TEXT NOT NULL
	)`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_events_session ON events (session_id, id)`)
	return err
}
