// # internal/core/app/watch.go
package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"benchlens/internal/core/errors"
	"benchlens/internal/core/ports"
	"benchlens/internal/core/watcher"
)

// defaultExcludedDirs are build products and VCS internals no benchmark
// source lives under.
var defaultExcludedDirs = []string{".git", "target", "build", "out", "node_modules"}

// StartWatcher begins watching the test-source root and the benchmark list,
// re-running the batch after each debounced change. The output file is
// excluded by name so a flush never triggers the next cycle.
func (a *App) StartWatcher(ctx context.Context) error {
	if a.watcher != nil {
		return errors.New(errors.CodeInternal, "watcher already started")
	}
	if a.Paths.BenchmarkList == "" {
		return errors.New(errors.CodeConfiguration, "watch mode requires input.benchmark_list")
	}

	excludeFiles := []string{filepath.Base(a.Paths.OutputPath)}
	w, err := watcher.NewWatcher(a.Config.Watch.Debounce, defaultExcludedDirs, excludeFiles, func(paths []string) {
		a.handleChanges(ctx, paths)
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeConfiguration, "create file watcher")
	}
	w.SetFileFilters([]string{".java"}, []string{filepath.Base(a.Paths.BenchmarkList)})

	if err := w.Watch([]string{a.Paths.TestSourceRoot, a.Paths.BenchmarkList}); err != nil {
		w.Close()
		return errors.Wrap(err, errors.CodeConfiguration, "watch input paths")
	}
	a.watcher = w
	slog.Info("watching for changes",
		"source_root", a.Paths.TestSourceRoot,
		"benchmark_list", a.Paths.BenchmarkList,
		"debounce", a.Config.Watch.Debounce)
	return nil
}

// handleChanges is the watcher callback: it paces change bursts, re-runs
// the batch, and publishes the cycle result.
func (a *App) handleChanges(ctx context.Context, paths []string) {
	if len(paths) == 0 {
		return
	}
	if err := a.rerunLimiter.Wait(ctx, 1); err != nil {
		return
	}
	slog.Info("change detected; re-running batch", "changed", len(paths), "path", paths[0])

	res, err := a.RunBatch(ctx, ports.BatchRequest{First: a.Config.Input.First, Last: a.Config.Input.Last})
	if err != nil {
		slog.Error("watch-triggered run failed", "error", err)
		return
	}
	a.emitWatch(ports.WatchUpdate{
		Trigger:     "file_change",
		ChangedPath: paths[0],
		Result:      res,
		CompletedAt: time.Now().UTC(),
	})
}
