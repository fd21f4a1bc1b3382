package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

func validateVersion(cfg *Config) error {
	if cfg.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", cfg.Version)
	}
	if cfg.Version > 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateInput(cfg *Config) error {
	for i, pattern := range cfg.Input.Include {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("input.include[%d] %q is invalid: %w", i, pattern, err)
		}
	}
	for i, pattern := range cfg.Input.Exclude {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("input.exclude[%d] %q is invalid: %w", i, pattern, err)
		}
	}
	return nil
}

func validateEngine(cfg *Config) error {
	pkg := cfg.Engine.FallbackPackage
	if pkg == "" {
		return fmt.Errorf("engine.fallback_package must not be empty")
	}
	if strings.ContainsAny(pkg, " \t\n") {
		return fmt.Errorf("engine.fallback_package must not contain whitespace")
	}
	if cfg.Engine.MaxFileSize < 1024 {
		return fmt.Errorf("engine.max_file_size must be >= 1024 bytes, got %d", cfg.Engine.MaxFileSize)
	}
	return nil
}

func validateOutput(cfg *Config) error {
	if cfg.Output.Path == "" {
		return fmt.Errorf("output.path must not be empty")
	}
	return nil
}

func validateDatabase(cfg *Config) error {
	if !cfg.DB.IsEnabled() {
		if cfg.DB.Spool.Enabled {
			return fmt.Errorf("db.spool.enabled=true requires db.enabled=true")
		}
		return nil
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	if driver != "sqlite" {
		return fmt.Errorf("db.driver must be sqlite, got %q", cfg.DB.Driver)
	}
	if cfg.DB.Path == "" {
		return fmt.Errorf("db.path must not be empty")
	}
	if cfg.DB.HistoryLimit < 0 {
		return fmt.Errorf("db.history_limit must be >= 0, got %d", cfg.DB.HistoryLimit)
	}
	if cfg.DB.Spool.Enabled && cfg.DB.Spool.Path == "" {
		return fmt.Errorf("db.spool.path must not be empty when db.spool.enabled=true")
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 10*time.Millisecond {
		return fmt.Errorf("watch.debounce must be >= 10ms, got %v", cfg.Watch.Debounce)
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if !cfg.Observability.Enabled {
		return nil
	}
	if cfg.Observability.Port < 1 || cfg.Observability.Port > 65535 {
		return fmt.Errorf("observability.port must be between 1 and 65535, got %d", cfg.Observability.Port)
	}
	return nil
}

func validateUI(cfg *Config) error {
	if cfg.UI.HistoryRows < 1 {
		return fmt.Errorf("ui.history_rows must be >= 1, got %d", cfg.UI.HistoryRows)
	}
	return nil
}
