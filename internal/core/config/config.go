package config

import (
	"time"
)

type Config struct {
	Version       int           `toml:"version"`
	Paths         Paths         `toml:"paths"`
	Input         Input         `toml:"input"`
	Engine        Engine        `toml:"engine"`
	Output        Output        `toml:"output"`
	DB            Database      `toml:"db"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
	Tracing       Tracing       `toml:"tracing"`
	UI            UI            `toml:"ui"`
}

type Paths struct {
	ProjectRoot string `toml:"project_root"`
	ConfigDir   string `toml:"config_dir"`
	StateDir    string `toml:"state_dir"`
	DatabaseDir string `toml:"database_dir"`
}

type Input struct {
	BenchmarkList  string   `toml:"benchmark_list"`
	CoverageList   string   `toml:"coverage_list"`
	TestSourceRoot string   `toml:"test_source_root"`
	Delimiter      string   `toml:"delimiter"`
	Include        []string `toml:"include"`
	Exclude        []string `toml:"exclude"`
	First          int      `toml:"first"`
	Last           *int     `toml:"last"`
}

type Engine struct {
	FallbackPackage string `toml:"fallback_package"`
	MaxFileSize     int64  `toml:"max_file_size"`
}

type Output struct {
	Path   string `toml:"path"`
	Pretty bool   `toml:"pretty"`
}

type Database struct {
	Enabled      *bool         `toml:"enabled"`
	Driver       string        `toml:"driver"`
	Path         string        `toml:"path"`
	BusyTimeout  time.Duration `toml:"busy_timeout"`
	HistoryLimit int           `toml:"history_limit"`
	Spool        Spool         `toml:"spool"`
}

type Spool struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Observability struct {
	Enabled bool `toml:"enabled"`
	Port    int  `toml:"port"`
}

type Tracing struct {
	Enabled      bool   `toml:"enabled"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

type UI struct {
	HistoryRows int `toml:"history_rows"`
}

func (d Database) IsEnabled() bool {
	if d.Enabled == nil {
		return true
	}
	return *d.Enabled
}

// ResolvedLast maps the optional upper bound onto a list of the given
// size. An unset bound selects the final entry; explicit values pass
// through untouched so the range check downstream still sees them.
func (in Input) ResolvedLast(size int) int {
	if in.Last == nil {
		return size - 1
	}
	return *in.Last
}
