// # internal/core/app/sink.go
package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"benchlens/internal/core/errors"
	"benchlens/internal/core/ports"
	"benchlens/internal/shared/observability"
	"benchlens/internal/shared/util"
)

// Sink buffers the results of one run and writes them out as a single JSON
// array. Flush finalizes once: the first successful write wins and later
// calls no-op, so the runner can flush on every exit path without double
// writes. A failed write does not finalize; the sink stays retryable.
//
// With a spool attached, every appended result is made durable immediately
// and acknowledged only after a successful flush, so a crash between parse
// and flush loses nothing.
type Sink struct {
	path   string
	pretty bool
	spool  ports.ResultSpool

	mu       sync.Mutex
	results  []ports.BenchmarkResult
	spoolIDs []int64
	flushed  bool
}

// NewSink creates a sink for one run. spool may be nil when durability is
// disabled.
func NewSink(path string, pretty bool, spool ports.ResultSpool) *Sink {
	return &Sink{
		path:    path,
		pretty:  pretty,
		spool:   spool,
		results: []ports.BenchmarkResult{},
	}
}

// Recover loads results a crashed run left behind in the spool. Call once,
// before the first Append; recovered results are flushed together with the
// new run's output.
func (s *Sink) Recover(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spool == nil {
		return 0, nil
	}
	rows, err := s.spool.Pending(ctx)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		s.results = append(s.results, row.Result)
		s.spoolIDs = append(s.spoolIDs, row.ID)
		if row.Attempts > 0 {
			slog.Debug("recovered result had failed flushes",
				"method", row.Result.MethodName,
				"attempts", row.Attempts,
				"last_error", row.LastError)
		}
	}
	if len(rows) > 0 {
		observability.SpoolRecoveredTotal.Add(float64(len(rows)))
	}
	observability.SpoolDepth.Set(float64(len(s.spoolIDs)))
	return len(rows), nil
}

// Append buffers one result and spools it when durability is enabled. A
// spool write failure degrades durability for that entry but never fails
// the run.
func (s *Sink) Append(res ports.BenchmarkResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flushed {
		return errors.New(errors.CodeInternal, "sink already finalized")
	}
	s.results = append(s.results, res)
	if s.spool == nil {
		return nil
	}
	id, err := s.spool.Enqueue(res)
	if err != nil {
		slog.Warn("spooling result failed",
			"method", res.MethodName,
			"error", err)
		return nil
	}
	s.spoolIDs = append(s.spoolIDs, id)
	observability.SpoolDepth.Set(float64(len(s.spoolIDs)))
	return nil
}

// Len reports how many results the sink currently holds.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// Path returns the output destination.
func (s *Sink) Path() string {
	return s.path
}

// Flush writes the buffered results to the output file. An empty buffer
// still writes an empty array. After a successful flush the spooled rows
// are acknowledged; an acknowledgement failure is logged but not fatal
// since the output already exists on disk.
func (s *Sink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flushed {
		return nil
	}

	started := time.Now()
	var (
		data []byte
		err  error
	)
	if s.pretty {
		data, err = json.MarshalIndent(s.results, "", "  ")
	} else {
		data, err = json.Marshal(s.results)
	}
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "marshal results")
	}

	if err := util.WriteFileWithDirs(s.path, data, 0o644); err != nil {
		werr := errors.Wrap(err, errors.CodeConfiguration, "write output file")
		werr = errors.AddContext(werr, errors.CtxPath, s.path)
		if s.spool != nil && len(s.spoolIDs) > 0 {
			if mErr := s.spool.MarkFlushFailure(s.spoolIDs, err.Error()); mErr != nil {
				slog.Warn("recording flush failure failed", "error", mErr)
			}
		}
		return werr
	}

	s.flushed = true
	observability.SinkFlushLatencySeconds.Observe(time.Since(started).Seconds())
	if s.spool != nil {
		if len(s.spoolIDs) > 0 {
			if err := s.spool.Ack(s.spoolIDs); err != nil {
				slog.Warn("acknowledging flushed results failed; the next run may recover duplicates", "error", err)
			} else {
				s.spoolIDs = nil
			}
		}
		observability.SpoolDepth.Set(float64(len(s.spoolIDs)))
	}
	return nil
}
