package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	coreapp "benchlens/internal/core/app"
	"benchlens/internal/core/config"
	"benchlens/internal/core/ports"
	"benchlens/internal/data/history"
	"benchlens/internal/engine/metrics"
	"benchlens/internal/shared/observability"
	"benchlens/internal/shared/version"
)

func Run(args []string) int {
	opts, err := parseOptions(args)
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Printf("benchlens v%s\n", version.Version)
		return 0
	}

	cleanupLogs := configureLogging(opts.ui, opts.verbose)
	defer cleanupLogs()

	cwd, err := os.Getwd()
	if err != nil {
		slog.Error("failed to detect working directory", "error", err)
		return 1
	}

	cfg, cfgPath, err := loadConfig(opts.configPath, cwd)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	config.ApplyEnvOverrides(cfg)

	if err := applyModeOptions(&opts, cfg); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	application, err := coreapp.NewAt(cfg, cwd)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}
	defer func() {
		if cerr := application.Close(); cerr != nil {
			slog.Warn("shutdown left resources unclosed", "error", cerr)
		}
	}()

	service := coreapp.NewBatchService(application)

	if stop, code := runParseCommand(ctx, service, opts); stop {
		return code
	}
	if stop, code := runHistoryCommand(application, opts); stop {
		return code
	}

	if cfg.Tracing.Enabled {
		shutdown, terr := observability.InitTracing(ctx, cfg.Tracing.OTLPEndpoint)
		if terr != nil {
			slog.Warn("tracing stays disabled: exporter init failed", "error", terr, "endpoint", cfg.Tracing.OTLPEndpoint)
		} else {
			defer func() {
				flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer flushCancel()
				if serr := shutdown(flushCtx); serr != nil {
					slog.Warn("tracing shutdown failed", "error", serr)
				}
			}()
		}
	}

	if cfg.Observability.Enabled {
		obs := NewObservabilityServer(fmt.Sprintf(":%d", cfg.Observability.Port), coreapp.NewHealthService(application))
		if err := obs.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return 1
		}
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer stopCancel()
			if serr := obs.Stop(stopCtx); serr != nil {
				slog.Warn("observability server shutdown failed", "error", serr)
			}
		}()
	}

	res, err := service.RunBatch(ctx, ports.BatchRequest{
		First: cfg.Input.First,
		Last:  cfg.Input.Last,
	})
	if err != nil {
		slog.Error("batch run failed", "error", err)
		return 1
	}

	if !opts.ui {
		printRunSummary(res)
	}

	if !opts.watch {
		if res.Interrupted {
			// 130 is the shell convention for a SIGINT death.
			return 130
		}
		return 0
	}
	if ctx.Err() != nil {
		return 130
	}

	watch := service.WatchService()
	if watch == nil {
		slog.Error("watch service unavailable")
		return 1
	}
	if err := watch.Start(ctx); err != nil {
		slog.Error("failed to start watcher", "error", err)
		return 1
	}

	if cfgPath != "" {
		cfgWatcher := config.NewWatcher(cfgPath, func(_ *config.Config) {
			slog.Info("config file changed on disk; restart benchlens to apply it", "path", cfgPath)
		})
		if err := cfgWatcher.Start(ctx); err != nil {
			slog.Warn("config watcher unavailable", "error", err, "path", cfgPath)
		} else {
			defer cfgWatcher.Stop()
		}
	}

	if opts.ui {
		if err := runUI(ctx, service, application.History(), cfg.UI.HistoryRows, res); err != nil {
			slog.Error("failed to run UI", "error", err)
			return 1
		}
		return 0
	}

	<-ctx.Done()
	return 0
}

func runParseCommand(ctx context.Context, service ports.BatchService, opts cliOptions) (bool, int) {
	if opts.parseTarget == "" {
		return false, 0
	}
	if service == nil {
		fmt.Fprintln(os.Stderr, "batch service unavailable")
		return true, 1
	}

	path, method, err := parseParseTarget(opts.parseTarget)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return true, 1
	}

	parsed, err := service.ParseOne(ctx, path, method)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return true, 1
	}

	raw, err := formatParsedMethod(parsed)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return true, 1
	}
	fmt.Println(string(raw))
	return true, 0
}

func runHistoryCommand(application *coreapp.App, opts cliOptions) (bool, int) {
	if !opts.history {
		return false, 0
	}

	store := application.History()
	if store == nil {
		fmt.Fprintln(os.Stderr, "-history requires db.enabled=true in config")
		return true, 1
	}

	runs, err := store.RecentRuns(opts.historyLimit)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return true, 1
	}
	if len(runs) == 0 {
		fmt.Println("History: no recorded runs yet.")
		return true, 0
	}

	fmt.Printf("History: %d most recent runs\n", len(runs))
	for _, run := range runs {
		fmt.Println(formatRunRow(run))
	}
	return true, 0
}

func formatParsedMethod(parsed *metrics.ParsedMethod) ([]byte, error) {
	if parsed == nil {
		return nil, fmt.Errorf("no parsed method to render")
	}
	return json.MarshalIndent(parsed, "", "  ")
}

func formatRunRow(run history.Run) string {
	status := "ok"
	if run.Interrupted {
		status = "interrupted"
	}
	return fmt.Sprintf(
		"  %s  %s  [%d..%d]  parsed %d/%d (%.2f%%)  %s  %s",
		run.StartedAt.Local().Format("2006-01-02 15:04:05"),
		shortRunID(run.ID),
		run.FirstIndex,
		run.LastIndex,
		run.Succeeded,
		run.Attempted,
		run.SuccessRate,
		status,
		run.OutputPath,
	)
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printRunSummary(res ports.BatchResult) {
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Run %s: %d/%d parsed (%.2f%%) in %v\n",
		shortRunID(res.RunID), res.Succeeded, res.Attempted, res.SuccessRate, res.Duration.Round(time.Millisecond))
	if res.Filtered > 0 {
		fmt.Printf("Filtered by include/exclude patterns: %d\n", res.Filtered)
	}
	switch {
	case res.Interrupted:
		fmt.Println("⚠️  Run interrupted; partial results were written.")
	case res.Attempted > 0 && res.Attempted == res.Succeeded:
		fmt.Println("✅ All attempted methods parsed.")
	case res.Attempted > res.Succeeded:
		fmt.Printf("⚠️  %d methods could not be parsed (missing file or method).\n", res.Attempted-res.Succeeded)
	}
	fmt.Printf("Results: %s\n", res.OutputPath)
	fmt.Println(strings.Repeat("-", 40))
}

func loadConfig(path, cwd string) (*config.Config, string, error) {
	if path != defaultConfigPath {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}

	candidates, err := discoverDefaultConfig(cwd)
	if err != nil {
		return nil, "", err
	}

	for _, candidate := range candidates {
		cfg, loadErr := config.Load(candidate)
		if loadErr == nil {
			if candidate == filepath.Clean(filepath.Join(cwd, "benchlens.toml")) {
				fmt.Fprintln(os.Stderr, "warning: using legacy config path ./benchlens.toml; migrate to ./data/config/benchlens.toml")
			}
			return cfg, candidate, nil
		}
		if os.IsNotExist(loadErr) {
			continue
		}
		return nil, "", loadErr
	}

	slog.Info("no config file found; using built-in defaults")
	return config.Default(), "", nil
}

func discoverDefaultConfig(cwd string) ([]string, error) {
	if strings.TrimSpace(cwd) == "" {
		return nil, fmt.Errorf("cwd must not be empty")
	}
	return []string{
		filepath.Clean(filepath.Join(cwd, "data/config/benchlens.toml")),
		filepath.Clean(filepath.Join(cwd, "benchlens.toml")),
		filepath.Clean(filepath.Join(cwd, "data/config/benchlens.example.toml")),
		filepath.Clean(filepath.Join(cwd, "benchlens.example.toml")),
	}, nil
}

func applyModeOptions(opts *cliOptions, cfg *config.Config) error {
	if opts.ui {
		opts.watch = true
	}
	if opts.once && opts.watch {
		return fmt.Errorf("-once cannot be combined with -watch or -ui")
	}
	if opts.parseTarget != "" {
		if opts.watch || opts.history {
			return fmt.Errorf("-parse cannot be combined with -watch, -ui, or -history")
		}
		if _, _, err := parseParseTarget(opts.parseTarget); err != nil {
			return err
		}
		// One-shot parses must not leave database files behind.
		disabled := false
		cfg.DB.Enabled = &disabled
		cfg.DB.Spool.Enabled = false
	}
	if opts.history && opts.watch {
		return fmt.Errorf("-history cannot be combined with -watch or -ui")
	}
	if opts.historyLimit < 0 {
		return fmt.Errorf("-history-limit must be >= 0, got %d", opts.historyLimit)
	}
	if opts.historyLimit > 0 && !opts.history {
		return fmt.Errorf("-history-limit requires -history")
	}

	if len(opts.args) > 1 {
		return fmt.Errorf("at most one positional argument (benchmark list path) is accepted, got %d", len(opts.args))
	}
	if len(opts.args) == 1 {
		cfg.Input.BenchmarkList = opts.args[0]
	}

	if opts.first >= 0 {
		cfg.Input.First = opts.first
	}
	if opts.last >= 0 {
		last := opts.last
		cfg.Input.Last = &last
	}
	return nil
}

func parseParseTarget(raw string) (string, string, error) {
	idx := strings.LastIndex(raw, ":")
	if idx < 0 {
		return "", "", fmt.Errorf("-parse must be formatted as <file.java>:<method>, got %q", raw)
	}
	path := strings.TrimSpace(raw[:idx])
	method := strings.TrimSpace(raw[idx+1:])
	if path == "" || method == "" {
		return "", "", fmt.Errorf("-parse must be formatted as <file.java>:<method>, got %q", raw)
	}
	return path, method, nil
}

func configureLogging(uiMode, verbose bool) func() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stdout
	var closeFn func() = func() {}
	if uiMode {
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
				fmt.Fprintf(os.Stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
			} else {
				f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
				if err == nil {
					output = f
					closeFn = func() { _ = f.Close() }
				} else {
					fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
				}
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return closeFn
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "benchlens", "benchlens.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "benchlens", "benchlens.log")
	}

	return "benchlens.log"
}
