package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	driverName   = "sqlite"
	maxAttempts  = 5
	defaultLimit = 20
)

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) RecordRun(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(run.ID) == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	finishedTS := ""
	if !run.FinishedAt.IsZero() {
		finishedTS = run.FinishedAt.UTC().Format(time.RFC3339Nano)
	}

	query := `
INSERT INTO runs (
  id, started_at_utc, finished_at_utc, input_path, output_path, first_index, last_index,
  attempted, succeeded, success_rate, interrupted
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  finished_at_utc=excluded.finished_at_utc,
  input_path=excluded.input_path,
  output_path=excluded.output_path,
  first_index=excluded.first_index,
  last_index=excluded.last_index,
  attempted=excluded.attempted,
  succeeded=excluded.succeeded,
  success_rate=excluded.success_rate,
  interrupted=excluded.interrupted
`
	return s.withRetry("record run", func() error {
		_, err := s.db.Exec(
			query,
			run.ID,
			run.StartedAt.UTC().Format(time.RFC3339Nano),
			finishedTS,
			run.InputPath,
			run.OutputPath,
			run.FirstIndex,
			run.LastIndex,
			run.Attempted,
			run.Succeeded,
			run.SuccessRate,
			boolToInt(run.Interrupted),
		)
		return err
	})
}

func (s *Store) RecentRuns(limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = defaultLimit
	}

	query := `
SELECT
  id, started_at_utc, finished_at_utc, input_path, output_path, first_index, last_index,
  attempted, succeeded, success_rate, interrupted
FROM runs
ORDER BY started_at_utc DESC, id DESC
LIMIT ?
`
	var rows *sql.Rows
	err := s.withRetry("load recent runs", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, limit)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0, limit)
	for rows.Next() {
		var (
			startedRaw  string
			finishedRaw string
			interrupted int
			run         Run
		)
		if err := rows.Scan(
			&run.ID,
			&startedRaw,
			&finishedRaw,
			&run.InputPath,
			&run.OutputPath,
			&run.FirstIndex,
			&run.LastIndex,
			&run.Attempted,
			&run.Succeeded,
			&run.SuccessRate,
			&interrupted,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}

		started, err := time.Parse(time.RFC3339Nano, startedRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run start timestamp %q: %w", startedRaw, err)
		}
		run.StartedAt = started.UTC()

		if finishedRaw != "" {
			finished, err := time.Parse(time.RFC3339Nano, finishedRaw)
			if err != nil {
				return nil, fmt.Errorf("parse run finish timestamp %q: %w", finishedRaw, err)
			}
			run.FinishedAt = finished.UTC()
		}
		run.Interrupted = interrupted != 0

		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}

	return runs, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func IsCorruptError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed") || strings.Contains(msg, "not a database") || errors.Is(err, os.ErrInvalid)
}
