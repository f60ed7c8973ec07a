package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/kbase/pkg/kbase/store"
)

// sqliteStore implements store.Journal using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite journal with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" journals on one database
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS journal (
	id TEXT PRIMARY KEY,
	session TEXT NOT NULL,
	ts TEXT NOT NULL,
	event TEXT NOT NULL,
	kind TEXT NOT NULL,
	item TEXT NOT NULL,
	support TEXT
);

CREATE INDEX IF NOT EXISTS journal_event_kind ON journal(event, kind);
CREATE INDEX IF NOT EXISTS journal_item ON journal(item);
CREATE INDEX IF NOT EXISTS journal_session ON journal(session);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// Append inserts an entry
func (s *sqliteStore) Append(ctx context.Context, e store.Entry) error {
	support, err := json.Marshal(e.Support)
	if err != nil {
		return fmt.Errorf("encode support: %w", err)
	}

	const stmt = `
INSERT INTO journal (id, session, ts, event, kind, item, support)
VALUES (?, ?, ?, ?, ?, ?, ?)
`
	_, err = s.db.ExecContext(ctx, stmt,
		e.ID,
		e.Session,
		e.Time.UTC().Format(time.RFC3339Nano),
		e.Event,
		e.Kind,
		e.Item,
		string(support),
	)
	return err
}

// Entries returns matching entries ordered by ID (time order)
func (s *sqliteStore) Entries(ctx context.Context, f store.Filter) ([]store.Entry, error) {
	var (
		where []string
		args  []any
	)
	if f.Session != "" {
		where = append(where, "session = ?")
		args = append(args, f.Session)
	}
	if f.Event != "" {
		where = append(where, "event = ?")
		args = append(args, f.Event)
	}
	if f.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, f.Kind)
	}
	if f.Item != "" {
		where = append(where, "item = ?")
		args = append(args, f.Item)
	}

	query := "SELECT id, session, ts, event, kind, item, support FROM journal"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Entry
	for rows.Next() {
		var (
			e       store.Entry
			ts      string
			support sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Session, &ts, &e.Event, &e.Kind, &e.Item, &support); err != nil {
			return nil, err
		}
		if e.Time, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("entry %s: parse time: %w", e.ID, err)
		}
		if support.Valid && support.String != "" {
			if err := json.Unmarshal([]byte(support.String), &e.Support); err != nil {
				return nil, fmt.Errorf("entry %s: decode support: %w", e.ID, err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Counts returns entry counts per event/kind
func (s *sqliteStore) Counts(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT event, kind, COUNT(*) FROM journal GROUP BY event, kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			event, kind string
			n           int64
		)
		if err := rows.Scan(&event, &kind, &n); err != nil {
			return nil, err
		}
		counts[store.CountKey(event, kind)] = n
	}
	return counts, rows.Err()
}
