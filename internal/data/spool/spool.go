// # internal/data/spool/spool.go
package spool

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"benchlens/internal/core/errors"
	"benchlens/internal/core/ports"
)

var _ ports.ResultSpool = (*SQLiteSpool)(nil)

// SQLiteSpool persists parsed results until they are flushed to the output
// file and acknowledged. Rows are scoped by output key so multiple output
// files can share one spool database.
type SQLiteSpool struct {
	db        *sql.DB
	outputKey string
}

// spoolPayload versions the serialized result so older rows stay readable
// after the result shape grows new fields.
type spoolPayload struct {
	Version int                   `json:"version"`
	Result  ports.BenchmarkResult `json:"result"`
}

const payloadVersion = 1

// Open prepares the spool database at path for results destined for outputKey.
func Open(path, outputKey string) (*SQLiteSpool, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New(errors.CodeConfiguration, "spool path is empty")
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return nil, errors.New(errors.CodeConfiguration, fmt.Sprintf("spool path %s is a directory", path))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, errors.CodeConfiguration, "create spool directory")
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfiguration, "open spool database")
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.CodeConfiguration, "ping spool database")
	}
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	if strings.TrimSpace(outputKey) == "" {
		outputKey = "default"
	}
	return &SQLiteSpool{db: db, outputKey: outputKey}, nil
}

// Enqueue stores one result and returns its row id for later acknowledgement.
func (s *SQLiteSpool) Enqueue(res ports.BenchmarkResult) (int64, error) {
	payload, err := json.Marshal(spoolPayload{Version: payloadVersion, Result: res})
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeInternal, "marshal spool payload")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	result, err := s.db.Exec(
		`INSERT INTO result_spool (output_key, method_name, payload, attempts, created_at, last_error)
		 VALUES (?, ?, ?, 0, ?, '')`,
		s.outputKey, res.MethodName, payload, now,
	)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeInternal, "enqueue result")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeInternal, "read spool row id")
	}
	return id, nil
}

// Pending returns every unacknowledged row for this output key, oldest first.
func (s *SQLiteSpool) Pending(ctx context.Context) ([]ports.SpoolRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, payload, attempts, last_error
		 FROM result_spool
		 WHERE output_key = ?
		 ORDER BY id ASC`,
		s.outputKey,
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "query pending results")
	}
	defer rows.Close()

	var pending []ports.SpoolRow
	for rows.Next() {
		var (
			row     ports.SpoolRow
			payload []byte
		)
		if err := rows.Scan(&row.ID, &payload, &row.Attempts, &row.LastError); err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "scan spool row")
		}
		var decoded spoolPayload
		if err := json.Unmarshal(payload, &decoded); err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, fmt.Sprintf("decode spool row %d", row.ID))
		}
		row.Result = decoded.Result
		pending = append(pending, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "iterate spool rows")
	}
	return pending, nil
}

// Ack deletes flushed rows.
func (s *SQLiteSpool) Ack(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "begin ack transaction")
	}
	stmt, err := tx.Prepare(`DELETE FROM result_spool WHERE id = ?`)
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, errors.CodeInternal, "prepare ack statement")
	}
	defer stmt.Close()
	for _, id := range ids {
		if _, err := stmt.Exec(id); err != nil {
			tx.Rollback()
			return errors.Wrap(err, errors.CodeInternal, fmt.Sprintf("ack spool row %d", id))
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "commit ack transaction")
	}
	return nil
}

// MarkFlushFailure records a failed flush attempt on the given rows. The rows
// stay pending; the bookkeeping only aids diagnosis of repeatedly failing
// output paths.
func (s *SQLiteSpool) MarkFlushFailure(ids []int64, lastErr string) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "begin failure transaction")
	}
	stmt, err := tx.Prepare(`UPDATE result_spool SET attempts = attempts + 1, last_error = ? WHERE id = ?`)
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, errors.CodeInternal, "prepare failure statement")
	}
	defer stmt.Close()
	for _, id := range ids {
		if _, err := stmt.Exec(lastErr, id); err != nil {
			tx.Rollback()
			return errors.Wrap(err, errors.CodeInternal, fmt.Sprintf("mark spool row %d", id))
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "commit failure transaction")
	}
	return nil
}

// PendingCount reports how many rows await acknowledgement for this output key.
func (s *SQLiteSpool) PendingCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM result_spool WHERE output_key = ?`,
		s.outputKey,
	).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeInternal, "count pending results")
	}
	return count, nil
}

// Close releases the underlying database handle.
func (s *SQLiteSpool) Close() error {
	return s.db.Close()
}
