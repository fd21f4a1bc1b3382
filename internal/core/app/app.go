// # internal/core/app/app.go
package app

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gobwas/glob"

	"benchlens/internal/core/config"
	"benchlens/internal/core/errors"
	"benchlens/internal/core/ports"
	"benchlens/internal/core/watcher"
	"benchlens/internal/data/history"
	"benchlens/internal/data/spool"
	"benchlens/internal/engine/metrics"
	"benchlens/internal/engine/parser"
	"benchlens/internal/shared/util"
)

// App wires the parse engine, the optional history store and result spool,
// benchmark name filters, and the file watcher behind one lifecycle. One App
// serves any number of batch runs; runs are serialized so concurrent
// triggers (watch events, manual invocations) never race on the output file.
type App struct {
	Config *config.Config
	Paths  config.ResolvedPaths
	Engine ports.MethodParser

	include []glob.Glob
	exclude []glob.Glob

	spool   ports.ResultSpool
	history *history.Store

	progressLimiter *util.Limiter
	rerunLimiter    *util.Limiter

	runMu sync.Mutex

	handlerMu sync.RWMutex
	onItem    func(ports.ItemUpdate)
	onWatch   func(ports.WatchUpdate)

	watchMu   sync.RWMutex
	lastWatch ports.WatchUpdate
	hasWatch  bool
	watcher   *watcher.Watcher
}

// New resolves paths, compiles filters, and opens the stores the
// configuration enables. The returned App owns those handles until Close.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New(errors.CodeConfiguration, "config is required")
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfiguration, "determine working directory")
	}
	return NewAt(cfg, cwd)
}

// NewAt is New anchored at an explicit working directory.
func NewAt(cfg *config.Config, cwd string) (*App, error) {
	if cfg == nil {
		return nil, errors.New(errors.CodeConfiguration, "config is required")
	}
	paths, err := config.ResolvePaths(cfg, cwd)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfiguration, "resolve project paths")
	}

	include, err := compileGlobs(cfg.Input.Include, "input.include")
	if err != nil {
		return nil, err
	}
	exclude, err := compileGlobs(cfg.Input.Exclude, "input.exclude")
	if err != nil {
		return nil, err
	}

	engine := metrics.NewEngine(
		parser.NewParser(parser.NewGrammarLoader()),
		cfg.Engine.FallbackPackage,
		cfg.Engine.MaxFileSize,
	)

	a := &App{
		Config:  cfg,
		Paths:   paths,
		Engine:  engine,
		include: include,
		exclude: exclude,
		// Progress logs cap at 20/s; a full-speed batch would otherwise
		// drown the terminal in per-item lines.
		progressLimiter: util.NewLimiter(20, 40),
		rerunLimiter:    util.NewLimiter(0.5, 1),
	}

	if cfg.DB.IsEnabled() {
		store, err := openHistory(paths.DBPath)
		if err != nil {
			return nil, err
		}
		a.history = store

		if cfg.DB.Spool.Enabled {
			sp, err := spool.Open(paths.SpoolPath, paths.OutputPath)
			if err != nil {
				store.Close()
				return nil, err
			}
			a.spool = sp
		}
	}
	return a, nil
}

// openHistory opens the run-history store, moving a corrupt database file
// aside and recreating it rather than refusing to start.
func openHistory(path string) (*history.Store, error) {
	store, err := history.Open(path)
	if err == nil {
		return store, nil
	}
	if !history.IsCorruptError(err) {
		return nil, err
	}
	backup := fmt.Sprintf("%s.corrupt-%s", path, time.Now().UTC().Format("20060102T150405Z"))
	if mvErr := os.Rename(path, backup); mvErr != nil {
		return nil, errors.Wrap(err, errors.CodeConfiguration, "history database is corrupt and could not be moved aside")
	}
	slog.Warn("history database was corrupt; moved aside and recreated", "backup", backup)
	return history.Open(path)
}

func compileGlobs(patterns []string, label string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			cerr := errors.Wrap(err, errors.CodeConfiguration, fmt.Sprintf("%s pattern %q is invalid", label, pattern))
			return nil, cerr
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// History exposes the run-history store, nil when the database is disabled.
func (a *App) History() ports.HistoryStore {
	if a.history == nil {
		return nil
	}
	return a.history
}

// SetItemHandler registers the per-item progress callback. Pass nil to
// unregister.
func (a *App) SetItemHandler(handler func(ports.ItemUpdate)) {
	a.handlerMu.Lock()
	defer a.handlerMu.Unlock()
	a.onItem = handler
}

// SetWatchHandler registers the watch-cycle callback. Pass nil to
// unregister.
func (a *App) SetWatchHandler(handler func(ports.WatchUpdate)) {
	a.handlerMu.Lock()
	defer a.handlerMu.Unlock()
	a.onWatch = handler
}

func (a *App) emitItem(update ports.ItemUpdate) {
	a.handlerMu.RLock()
	handler := a.onItem
	a.handlerMu.RUnlock()
	if handler != nil {
		handler(update)
	}
}

func (a *App) emitWatch(update ports.WatchUpdate) {
	a.watchMu.Lock()
	a.lastWatch = update
	a.hasWatch = true
	a.watchMu.Unlock()

	a.handlerMu.RLock()
	handler := a.onWatch
	a.handlerMu.RUnlock()
	if handler != nil {
		handler(update)
	}
}

// LastWatchUpdate returns the most recent completed watch cycle, if any.
func (a *App) LastWatchUpdate() (ports.WatchUpdate, bool) {
	a.watchMu.RLock()
	defer a.watchMu.RUnlock()
	return a.lastWatch, a.hasWatch
}

// Close releases the watcher and store handles. Safe to call once after all
// runs have finished.
func (a *App) Close() error {
	var firstErr error
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			slog.Warn("closing watcher failed", "error", err)
			firstErr = err
		}
		a.watcher = nil
	}
	if a.spool != nil {
		if err := a.spool.Close(); err != nil {
			slog.Warn("closing result spool failed", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
		a.spool = nil
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			slog.Warn("closing history store failed", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
		a.history = nil
	}
	return firstErr
}
