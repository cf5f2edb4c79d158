package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists run journal entries in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Entry is one recorded file outcome.
type Entry struct {
	ID           int64
	RunID        string
	Path         string
	Backup       string
	Outcome      string
	Error        string
	Inconsistent bool
	RecordedAt   time.Time
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

// Open creates or opens the journal database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Workers share one connection so writes never contend inside a run.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun records the start of a batch run.
func (s *Store) BeginRun(ctx context.Context, runID, mode string) error {
	if strings.TrimSpace(runID) == "" {
		return errors.New("journal: run id required")
	}
	return s.exec(ctx,
		"INSERT INTO runs (id, started_at, mode) VALUES (?, ?, ?)",
		runID, time.Now().UTC().Format(time.RFC3339Nano), mode,
	)
}

// Record stores the outcome of one file in runID.
func (s *Store) Record(ctx context.Context, runID string, entry Entry) error {
	recorded := entry.RecordedAt
	if recorded.IsZero() {
		recorded = time.Now()
	}
	return s.exec(ctx,
		`INSERT INTO entries (run_id, path, backup, outcome, error, inconsistent, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, entry.Path, entry.Backup, entry.Outcome, entry.Error,
		boolToInt(entry.Inconsistent), recorded.UTC().Format(time.RFC3339Nano),
	)
}

// Inconsistent lists inconsistent entries whose path has not been converted
// successfully since.
func (s *Store) Inconsistent(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.run_id, e.path, e.backup, e.outcome, e.error, e.inconsistent, e.recorded_at
		FROM entries e
		WHERE e.inconsistent = 1
		  AND NOT EXISTS (
		      SELECT 1 FROM entries later
		      WHERE later.path = e.path AND later.id > e.id AND later.outcome = 'succeeded'
		  )
		ORDER BY e.id`)
	if err != nil {
		return nil, fmt.Errorf("query inconsistent entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry        Entry
			inconsistent int
			recorded     string
		)
		if err := rows.Scan(&entry.ID, &entry.RunID, &entry.Path, &entry.Backup, &entry.Outcome,
			&entry.Error, &inconsistent, &recorded); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entry.Inconsistent = inconsistent != 0
		if ts, err := time.Parse(time.RFC3339Nano, recorded); err == nil {
			entry.RecordedAt = ts
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
