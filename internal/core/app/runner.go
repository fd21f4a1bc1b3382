// # internal/core/app/runner.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"benchlens/internal/core/errors"
	"benchlens/internal/core/ports"
	"benchlens/internal/data/history"
	"benchlens/internal/shared/observability"
)

// RunBatch parses the configured slice of the benchmark list and writes the
// collected results. The loop degrades gracefully: NotFound and ParseError
// skip the item and continue, a cancelled context stops between items, and
// the sink is flushed on every exit path past range validation. A malformed
// list or an inverted index range aborts before any work.
func (a *App) RunBatch(ctx context.Context, req ports.BatchRequest) (res ports.BatchResult, err error) {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	started := time.Now()
	res.RunID = uuid.NewString()

	entries, err := LoadBenchmarkList(a.Paths.BenchmarkList, a.Config.Input.Delimiter)
	if err != nil {
		return res, err
	}
	var coverage map[string]float64
	if a.Paths.CoverageList != "" {
		coverage, err = LoadCoverageList(a.Paths.CoverageList)
		if err != nil {
			return res, err
		}
	}

	first := req.First
	last := len(entries) - 1
	if req.Last != nil {
		last = *req.Last
	}
	if first < 0 {
		first = 0
	}
	if last > len(entries)-1 {
		last = len(entries) - 1
	}
	if first > last {
		return res, errors.New(errors.CodeConfiguration,
			fmt.Sprintf("benchmark index range [%d, %d] selects nothing from %d entries", first, last, len(entries)))
	}

	sink := NewSink(a.Paths.OutputPath, a.Config.Output.Pretty, a.spool)
	defer func() {
		if ferr := sink.Flush(); ferr != nil {
			slog.Error("flushing results failed", "path", sink.Path(), "error", ferr)
			if err == nil {
				err = ferr
			}
		}
	}()

	if recovered, rerr := sink.Recover(ctx); rerr != nil {
		slog.Warn("recovering spooled results failed", "error", rerr)
	} else if recovered > 0 {
		slog.Info("recovered results from an earlier interrupted run", "count", recovered)
	}

	total := last - first + 1
	slog.Info("starting batch",
		"run_id", res.RunID,
		"list", a.Paths.BenchmarkList,
		"first", first,
		"last", last,
		"total", total)

	for i := first; i <= last; i++ {
		if cerr := ctx.Err(); cerr != nil {
			res.Interrupted = true
			slog.Warn("run interrupted",
				"run_id", res.RunID,
				"completed", i-first,
				"remaining", last-i+1)
			break
		}

		entry := entries[i]
		if !a.matchBenchmark(entry.Name.Full) {
			res.Filtered++
			a.emitItem(ports.ItemUpdate{
				Index:       i,
				Total:       total,
				Benchmark:   entry.Name.Full,
				MethodName:  entry.Name.Method,
				Outcome:     ports.OutcomeFiltered,
				SuccessRate: res.SuccessRate,
			})
			continue
		}

		res.Attempted++
		observability.ParseAttemptsTotal.Inc()
		sourcePath := entry.Name.SourcePath(a.Paths.TestSourceRoot)

		_, span := observability.Tracer.Start(ctx, "app.ParseMethod",
			trace.WithAttributes(
				attribute.String("benchmark", entry.Name.Full),
				attribute.String("path", sourcePath),
			))
		parseStart := time.Now()
		parsed, perr := a.Engine.ParseMethod(sourcePath, entry.Name.Method)
		observability.ParsingDuration.Observe(time.Since(parseStart).Seconds())
		span.End()

		if perr != nil {
			if !errors.IsRecoverable(perr) {
				return res, errors.AddContext(perr, errors.CtxBenchmark, entry.Name.Full)
			}
			outcome := ports.OutcomeParseError
			reason := "parse_error"
			if errors.IsCode(perr, errors.CodeNotFound) {
				outcome = ports.OutcomeNotFound
				reason = "not_found"
			}
			observability.ParseFailuresTotal.WithLabelValues(reason).Inc()
			res.SuccessRate = successRate(res.Succeeded, res.Attempted)
			if a.allowProgressLog() {
				slog.Warn("skipped benchmark",
					"index", i,
					"total", total,
					"benchmark", entry.Name.Full,
					"path", sourcePath,
					"outcome", string(outcome),
					"success_rate", res.SuccessRate,
					"error", perr)
			}
			a.emitItem(ports.ItemUpdate{
				Index:       i,
				Total:       total,
				Benchmark:   entry.Name.Full,
				MethodName:  entry.Name.Method,
				SourcePath:  sourcePath,
				Outcome:     outcome,
				Reason:      perr.Error(),
				SuccessRate: res.SuccessRate,
			})
			continue
		}

		result := ports.BenchmarkResult{
			ParsedMethod:         *parsed,
			StabilityMetricValue: entry.Stability,
		}
		if cov, ok := coverage[entry.Name.Full]; ok {
			value := cov
			result.CodeCoverageMetricValue = &value
		}
		if aerr := sink.Append(result); aerr != nil {
			return res, aerr
		}

		res.Succeeded++
		observability.ParseSuccessTotal.Inc()
		observability.PackageAccessesExtracted.Add(float64(parsed.TotalAccesses()))
		res.SuccessRate = successRate(res.Succeeded, res.Attempted)
		if a.allowProgressLog() {
			slog.Info("parsed benchmark",
				"index", i,
				"total", total,
				"benchmark", entry.Name.Full,
				"method", entry.Name.Method,
				"success_rate", res.SuccessRate)
		}
		a.emitItem(ports.ItemUpdate{
			Index:       i,
			Total:       total,
			Benchmark:   entry.Name.Full,
			MethodName:  entry.Name.Method,
			SourcePath:  sourcePath,
			Outcome:     ports.OutcomeParsed,
			SuccessRate: res.SuccessRate,
		})
	}

	res.OutputPath = sink.Path()
	res.Duration = time.Since(started)
	observability.BatchDuration.Observe(res.Duration.Seconds())
	observability.BatchSuccessRate.Set(res.SuccessRate)

	a.recordRun(res, first, last, started)
	slog.Info("batch finished",
		"run_id", res.RunID,
		"attempted", res.Attempted,
		"succeeded", res.Succeeded,
		"filtered", res.Filtered,
		"success_rate", res.SuccessRate,
		"interrupted", res.Interrupted,
		"duration", res.Duration)
	return res, nil
}

// successRate follows the original reporting formula: percentage with two
// decimal places.
func successRate(succeeded, attempted int) float64 {
	if attempted == 0 {
		return 0
	}
	return math.Round(float64(succeeded)/float64(attempted)*10000) / 100
}

func (a *App) matchBenchmark(name string) bool {
	if len(a.include) > 0 {
		matched := false
		for _, g := range a.include {
			if g.Match(name) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, g := range a.exclude {
		if g.Match(name) {
			return false
		}
	}
	return true
}

func (a *App) allowProgressLog() bool {
	return a.progressLimiter == nil || a.progressLimiter.Allow(1)
}

func (a *App) recordRun(res ports.BatchResult, first, last int, started time.Time) {
	if a.history == nil {
		return
	}
	run := history.Run{
		ID:          res.RunID,
		StartedAt:   started.UTC(),
		FinishedAt:  time.Now().UTC(),
		InputPath:   a.Paths.BenchmarkList,
		OutputPath:  res.OutputPath,
		FirstIndex:  first,
		LastIndex:   last,
		Attempted:   res.Attempted,
		Succeeded:   res.Succeeded,
		SuccessRate: res.SuccessRate,
		Interrupted: res.Interrupted,
	}
	if err := a.history.RecordRun(run); err != nil {
		slog.Warn("recording run history failed", "run_id", res.RunID, "error", err)
	}
}
