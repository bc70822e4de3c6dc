package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run statuses.
const (
	StatusOK     = "OK"
	StatusFailed = "FAILED"
)

// Entry is one recorded parse run.
type Entry struct {
	ID           uuid.UUID
	Source       string // "image" | "text"
	SourceName   string // file path or label
	Status       string
	ErrorMessage string
	ResultJSON   string
	Duration     time.Duration
	CreatedAt    time.Time
}

// Store persists parse runs in a local SQLite database. It exists for batch
// processing and export; single parses can skip it entirely.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

const createTable = `
CREATE TABLE IF NOT EXISTS parse_runs (
	id          TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	source_name TEXT NOT NULL,
	status      TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	result_json TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_parse_runs_created_at ON parse_runs(created_at);
`

// Open opens (creating if needed) the store at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(createTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one run. A zero ID or CreatedAt is filled in.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO parse_runs (id, source, source_name, status, error, result_json, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.Source, e.SourceName, e.Status, e.ErrorMessage, e.ResultJSON,
		e.Duration.Milliseconds(), e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	s.logger.Debug("history.record", "id", e.ID, "source", e.Source, "status", e.Status)
	return nil
}

// List returns up to limit runs, newest first. limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	q := `SELECT id, source, source_name, status, error, result_json, duration_ms, created_at
	      FROM parse_runs ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e          Entry
			id         string
			durationMS int64
			createdAt  string
		)
		if err := rows.Scan(&id, &e.Source, &e.SourceName, &e.Status, &e.ErrorMessage, &e.ResultJSON, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse run id %q: %w", id, err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", createdAt, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
