// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records submitted searches in a local SQLite database
// so request handles survive process exits and their results can be
// inspected, fetched, or resubmitted later.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aurorax-space/go-aurorax/pkg/aurorax"
)

// Entry is one recorded search. WindowStart and WindowEnd keep the
// query's time window in wire format; Query keeps the submitted query
// verbatim for resubmission.
type Entry struct {
	RequestID   string
	Kind        string
	SubmittedAt time.Time
	WindowStart string
	WindowEnd   string
	Completed   bool
	ResultCount *int64
	FileSize    *int64
	DataURI     string
	Query       json.RawMessage
}

// submittedLayout is fixed width so submitted_at sorts correctly as
// text. RFC3339Nano would drop trailing fraction zeros and break the
// ordering.
const submittedLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the search history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path, creating the
// schema and parent directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS searches (
			request_id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			submitted_at TEXT NOT NULL,
			window_start TEXT NOT NULL DEFAULT '',
			window_end TEXT NOT NULL DEFAULT '',
			completed INTEGER NOT NULL DEFAULT 0,
			result_count INTEGER,
			file_size INTEGER,
			data_uri TEXT NOT NULL DEFAULT '',
			query TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_searches_submitted_at ON searches(submitted_at)`,
		`CREATE INDEX IF NOT EXISTS idx_searches_kind ON searches(kind)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record upserts an entry. Recording the same request ID again replaces
// the stored row, which is how completion state gets persisted.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.RequestID == "" {
		return fmt.Errorf("%w: history entry without request ID", aurorax.ErrBadParameters)
	}
	query := string(e.Query)
	if query == "" {
		query = "{}"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO searches (request_id, kind, submitted_at, window_start, window_end,
			completed, result_count, file_size, data_uri, query)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(request_id) DO UPDATE SET
			kind=excluded.kind, submitted_at=excluded.submitted_at,
			window_start=excluded.window_start, window_end=excluded.window_end,
			completed=excluded.completed, result_count=excluded.result_count,
			file_size=excluded.file_size, data_uri=excluded.data_uri,
			query=excluded.query`,
		e.RequestID, e.Kind, e.SubmittedAt.UTC().Format(submittedLayout),
		e.WindowStart, e.WindowEnd, e.Completed, e.ResultCount, e.FileSize,
		e.DataURI, query,
	)
	if err != nil {
		return fmt.Errorf("recording search %s: %w", e.RequestID, err)
	}
	return nil
}

// List returns recorded searches, newest first. A limit of zero or less
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	q := `SELECT request_id, kind, submitted_at, window_start, window_end,
			completed, result_count, file_size, data_uri, query
		  FROM searches ORDER BY submitted_at DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing searches: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing searches: %w", err)
	}
	return entries, nil
}

// Get resolves ref to one recorded search. Ref is a full request ID or
// an unambiguous prefix of one.
func (s *Store) Get(ctx context.Context, ref string) (Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT request_id, kind, submitted_at, window_start, window_end,
			completed, result_count, file_size, data_uri, query
		 FROM searches WHERE request_id = ? OR request_id LIKE ? || '%'
		 ORDER BY request_id LIMIT 3`,
		ref, ref,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("looking up search %q: %w", ref, err)
	}
	defer rows.Close()

	var matches []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return Entry{}, err
		}
		if e.RequestID == ref {
			return e, nil
		}
		matches = append(matches, e)
	}
	if err := rows.Err(); err != nil {
		return Entry{}, fmt.Errorf("looking up search %q: %w", ref, err)
	}

	switch len(matches) {
	case 0:
		return Entry{}, fmt.Errorf("%w: no recorded search matching %q", aurorax.ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return Entry{}, fmt.Errorf("%w: request ID prefix %q is ambiguous", aurorax.ErrBadParameters, ref)
	}
}

// Prune keeps the newest keep entries and deletes the rest, returning
// the number removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM searches WHERE request_id NOT IN (
			SELECT request_id FROM searches ORDER BY submitted_at DESC LIMIT ?
		 )`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning searches: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning searches: %w", err)
	}
	return removed, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e         Entry
		submitted string
		query     []byte
	)
	err := rows.Scan(&e.RequestID, &e.Kind, &submitted, &e.WindowStart, &e.WindowEnd,
		&e.Completed, &e.ResultCount, &e.FileSize, &e.DataURI, &query)
	if err != nil {
		return Entry{}, fmt.Errorf("scanning search row: %w", err)
	}
	if t, perr := time.Parse(time.RFC3339Nano, submitted); perr == nil {
		e.SubmittedAt = t
	}
	e.Query = json.RawMessage(query)
	return e, nil
}
