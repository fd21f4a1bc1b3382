package ports

import (
	"context"
	"time"

	"benchlens/internal/data/history"
	"benchlens/internal/engine/metrics"
)

// MethodParser abstracts method-level metric extraction and Java-file support checks.
type MethodParser interface {
	ParseMethod(path string, methodName string) (*metrics.ParsedMethod, error)
	IsSupportedPath(path string) bool
}

// HistoryStore abstracts run-history persistence for trend/report workflows.
type HistoryStore interface {
	RecordRun(run history.Run) error
	RecentRuns(limit int) ([]history.Run, error)
}

// BenchmarkResult is one output record: extracted metrics joined with the
// measured stability value from the input list.
type BenchmarkResult struct {
	metrics.ParsedMethod
	StabilityMetricValue    float64  `json:"stabilityMetricValue"`
	CodeCoverageMetricValue *float64 `json:"codeCoverageMetricValue,omitempty"`
}

// SpoolRow is one durable spool entry awaiting acknowledgement.
type SpoolRow struct {
	ID        int64
	Result    BenchmarkResult
	Attempts  int
	LastError string
}

// ResultSpool abstracts crash-safe buffering of results between parse and
// flush. Rows stay in the spool until Ack removes them, so a crashed run
// leaves its unflushed results behind for the next startup to recover.
type ResultSpool interface {
	Enqueue(res BenchmarkResult) (int64, error)
	Pending(ctx context.Context) ([]SpoolRow, error)
	Ack(ids []int64) error
	MarkFlushFailure(ids []int64, lastErr string) error
	PendingCount(ctx context.Context) (int, error)
	Close() error
}

// BatchRequest defines one batch run request for driving adapters. First and
// Last select a slice of the input list; a nil Last means through the end.
type BatchRequest struct {
	First int
	Last  *int
}

// BatchResult summarizes a completed batch run.
type BatchResult struct {
	RunID       string
	Attempted   int
	Succeeded   int
	Filtered    int
	SuccessRate float64
	Interrupted bool
	OutputPath  string
	Duration    time.Duration
}

// ItemOutcome classifies how a single benchmark entry was handled.
type ItemOutcome string

const (
	OutcomeParsed     ItemOutcome = "parsed"
	OutcomeNotFound   ItemOutcome = "not_found"
	OutcomeParseError ItemOutcome = "parse_error"
	OutcomeFiltered   ItemOutcome = "filtered"
)

// ItemUpdate is emitted once per processed benchmark for progress surfaces.
type ItemUpdate struct {
	Index       int
	Total       int
	Benchmark   string
	MethodName  string
	SourcePath  string
	Outcome     ItemOutcome
	Reason      string
	SuccessRate float64
}

// WatchUpdate contains state emitted to driving adapters after a watch-triggered run.
type WatchUpdate struct {
	Trigger     string
	ChangedPath string
	Result      BatchResult
	CompletedAt time.Time
}

// WatchService exposes watch lifecycle and updates for driving adapters.
type WatchService interface {
	Start(ctx context.Context) error
	CurrentUpdate(ctx context.Context) (WatchUpdate, error)
	Subscribe(ctx context.Context, handler func(WatchUpdate)) error
}

// BatchService defines the driving-port surface over batch parse use cases.
type BatchService interface {
	RunBatch(ctx context.Context, req BatchRequest) (BatchResult, error)
	ParseOne(ctx context.Context, path string, methodName string) (*metrics.ParsedMethod, error)
	Subscribe(ctx context.Context, handler func(ItemUpdate)) error
	WatchService() WatchService
}
