package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: BENCHLENS_[SECTION]_[KEY] (e.g., BENCHLENS_OBSERVABILITY_PORT).
func ApplyEnvOverrides(cfg *Config) {
	// Paths
	setEnvString(&cfg.Paths.ProjectRoot, "BENCHLENS_PATHS_PROJECT_ROOT")
	setEnvString(&cfg.Paths.ConfigDir, "BENCHLENS_PATHS_CONFIG_DIR")
	setEnvString(&cfg.Paths.StateDir, "BENCHLENS_PATHS_STATE_DIR")
	setEnvString(&cfg.Paths.DatabaseDir, "BENCHLENS_PATHS_DATABASE_DIR")

	// Input
	setEnvString(&cfg.Input.BenchmarkList, "BENCHLENS_INPUT_BENCHMARK_LIST")
	setEnvString(&cfg.Input.CoverageList, "BENCHLENS_INPUT_COVERAGE_LIST")
	setEnvString(&cfg.Input.TestSourceRoot, "BENCHLENS_INPUT_TEST_SOURCE_ROOT")

	// Engine
	setEnvString(&cfg.Engine.FallbackPackage, "BENCHLENS_ENGINE_FALLBACK_PACKAGE")
	setEnvInt64(&cfg.Engine.MaxFileSize, "BENCHLENS_ENGINE_MAX_FILE_SIZE")

	// Output
	setEnvString(&cfg.Output.Path, "BENCHLENS_OUTPUT_PATH")
	setEnvBool(&cfg.Output.Pretty, "BENCHLENS_OUTPUT_PRETTY")

	// Database
	setEnvBoolPtr(&cfg.DB.Enabled, "BENCHLENS_DB_ENABLED")
	setEnvString(&cfg.DB.Driver, "BENCHLENS_DB_DRIVER")
	setEnvString(&cfg.DB.Path, "BENCHLENS_DB_PATH")
	setEnvDuration(&cfg.DB.BusyTimeout, "BENCHLENS_DB_BUSY_TIMEOUT")
	setEnvInt(&cfg.DB.HistoryLimit, "BENCHLENS_DB_HISTORY_LIMIT")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "BENCHLENS_WATCH_DEBOUNCE")

	// Observability
	setEnvBool(&cfg.Observability.Enabled, "BENCHLENS_OBSERVABILITY_ENABLED")
	setEnvInt(&cfg.Observability.Port, "BENCHLENS_OBSERVABILITY_PORT")
	setEnvBool(&cfg.Tracing.Enabled, "BENCHLENS_TRACING_ENABLED")
	setEnvString(&cfg.Tracing.OTLPEndpoint, "BENCHLENS_TRACING_OTLP_ENDPOINT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvInt64(target *int64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvBoolPtr(target **bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = &b
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
