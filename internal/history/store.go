// Package history persists finished download jobs in a local SQLite
// database.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ytget/yt-desktop/internal/model"
)

// FileName is the database file created inside the data directory
const FileName = "history.db"

// DefaultLimit is used by List when no positive limit is given
const DefaultLimit = 50

// ErrNotFound is returned by Get for an unknown job id
var ErrNotFound = errors.New("history entry not found")

// Store is a SQLite-backed download history
type Store struct {
	db *sql.DB
}

// Open creates dataDir if needed and opens the history database in it
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dataDir, FileName))
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open history db: %w", err)
	}

	// jobs record from their own goroutines
	if _, err := db.Exec(`
		PRAGMA busy_timeout = 5000;
		PRAGMA journal_mode = WAL;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure history db: %w", err)
	}

	s := &Store{db: db}
	if err := s.initTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history table: %w", err)
	}
	return s, nil
}

// initTable creates the downloads table if it doesn't exist
func (s *Store) initTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS downloads (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		url TEXT NOT NULL,
		title TEXT,
		selector TEXT,
		status TEXT NOT NULL,
		error TEXT,
		filename TEXT,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_downloads_finished_at ON downloads(finished_at);
	`
	_, err := s.db.Exec(query)
	return err
}

// Record inserts or replaces one entry
func (s *Store) Record(ctx context.Context, e model.HistoryEntry) error {
	query := `INSERT OR REPLACE INTO downloads
		(id, kind, url, title, selector, status, error, filename, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.Kind, e.URL, e.Title, e.Selector, string(e.Status), e.Error, e.Filename,
		toMillis(e.StartedAt), toMillis(e.FinishedAt))
	if err != nil {
		return fmt.Errorf("record %s: %w", e.ID, err)
	}
	return nil
}

// List returns the most recently finished entries first
func (s *Store) List(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	query := `SELECT id, kind, url, title, selector, status, error, filename, started_at, finished_at
		FROM downloads ORDER BY finished_at DESC, id LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]model.HistoryEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns one entry by job id
func (s *Store) Get(ctx context.Context, id string) (model.HistoryEntry, error) {
	query := `SELECT id, kind, url, title, selector, status, error, filename, started_at, finished_at
		FROM downloads WHERE id = ?`
	e, err := scanEntry(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.HistoryEntry{}, ErrNotFound
	}
	return e, err
}

// Clear deletes every entry and reports how many were removed
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM downloads`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (model.HistoryEntry, error) {
	var e model.HistoryEntry
	var title, selector, errMsg, filename sql.NullString
	var status string
	var started, finished int64
	if err := row.Scan(&e.ID, &e.Kind, &e.URL, &title, &selector, &status, &errMsg, &filename, &started, &finished); err != nil {
		return model.HistoryEntry{}, err
	}
	e.Title = title.String
	e.Selector = selector.String
	e.Status = model.ProgressStatus(status)
	e.Error = errMsg.String
	e.Filename = filename.String
	e.StartedAt = fromMillis(started)
	e.FinishedAt = fromMillis(finished)
	return e, nil
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
