package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	normalize(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateInput(&cfg); err != nil {
		return nil, err
	}
	if err := validateEngine(&cfg); err != nil {
		return nil, err
	}
	if err := validateOutput(&cfg); err != nil {
		return nil, err
	}
	if err := validateDatabase(&cfg); err != nil {
		return nil, err
	}
	if err := validateWatch(&cfg); err != nil {
		return nil, err
	}
	if err := validateObservability(&cfg); err != nil {
		return nil, err
	}
	if err := validateUI(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	normalize(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if strings.TrimSpace(cfg.Paths.ConfigDir) == "" {
		cfg.Paths.ConfigDir = "data/config"
	}
	if strings.TrimSpace(cfg.Paths.StateDir) == "" {
		cfg.Paths.StateDir = "data/state"
	}
	if strings.TrimSpace(cfg.Paths.DatabaseDir) == "" {
		cfg.Paths.DatabaseDir = "data/database"
	}

	if strings.TrimSpace(cfg.Input.TestSourceRoot) == "" {
		cfg.Input.TestSourceRoot = "src/test/java"
	}
	if strings.TrimSpace(cfg.Input.Delimiter) == "" {
		cfg.Input.Delimiter = "_Benchmark.benchmark_"
	}

	if strings.TrimSpace(cfg.Engine.FallbackPackage) == "" {
		cfg.Engine.FallbackPackage = "java.lang"
	}
	if cfg.Engine.MaxFileSize == 0 {
		cfg.Engine.MaxFileSize = 10 << 20
	}

	if strings.TrimSpace(cfg.Output.Path) == "" {
		cfg.Output.Path = "parsed-benchmarks.json"
	}

	if strings.TrimSpace(cfg.DB.Driver) == "" {
		cfg.DB.Driver = "sqlite"
	}
	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "history.db"
	}
	if cfg.DB.BusyTimeout <= 0 {
		cfg.DB.BusyTimeout = 5 * time.Second
	}
	if cfg.DB.HistoryLimit == 0 {
		cfg.DB.HistoryLimit = 50
	}
	if strings.TrimSpace(cfg.DB.Spool.Path) == "" {
		cfg.DB.Spool.Path = "spool.db"
	}

	// Default debounce if not set.
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}

	if cfg.Observability.Port == 0 {
		cfg.Observability.Port = 2112
	}
	if strings.TrimSpace(cfg.Tracing.OTLPEndpoint) == "" {
		cfg.Tracing.OTLPEndpoint = "127.0.0.1:4317"
	}

	if cfg.UI.HistoryRows == 0 {
		cfg.UI.HistoryRows = 10
	}
}

func normalize(cfg *Config) {
	cfg.Input.BenchmarkList = strings.TrimSpace(cfg.Input.BenchmarkList)
	cfg.Input.CoverageList = strings.TrimSpace(cfg.Input.CoverageList)
	cfg.Input.TestSourceRoot = strings.TrimSpace(cfg.Input.TestSourceRoot)
	cfg.Input.Delimiter = strings.TrimSpace(cfg.Input.Delimiter)
	cfg.Input.Include = normalizePatterns(cfg.Input.Include)
	cfg.Input.Exclude = normalizePatterns(cfg.Input.Exclude)
	cfg.Engine.FallbackPackage = strings.TrimSpace(cfg.Engine.FallbackPackage)
	cfg.Output.Path = strings.TrimSpace(cfg.Output.Path)
	cfg.DB.Path = strings.TrimSpace(cfg.DB.Path)
	cfg.DB.Spool.Path = strings.TrimSpace(cfg.DB.Spool.Path)
	cfg.Tracing.OTLPEndpoint = strings.TrimSpace(cfg.Tracing.OTLPEndpoint)
}

func normalizePatterns(patterns []string) []string {
	if len(patterns) == 0 {
		return patterns
	}
	normalized := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		normalized = append(normalized, p)
	}
	return normalized
}
