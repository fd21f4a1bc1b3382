package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	content := `
version = 1

[paths]
project_root = "."
state_dir = "data/state"
database_dir = "data/database"

[input]
benchmark_list = "benchmarks.json"
test_source_root = "src/test/java"
include = ["io.reactivex.*"]
exclude = ["*Perf*"]
first = 2
last = 40

[engine]
fallback_package = "java.lang"
max_file_size = 2097152

[output]
path = "results/parsed.json"
pretty = true

[db]
enabled = true
driver = "sqlite"
path = "history.db"
busy_timeout = "3s"
history_limit = 25

[db.spool]
enabled = true
path = "spool.db"

[watch]
debounce = "1s"

[observability]
enabled = true
port = 9105

[tracing]
enabled = false
otlp_endpoint = "127.0.0.1:4317"

[ui]
history_rows = 15
`
	tmpfile, err := os.CreateTemp("", "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Input.BenchmarkList != "benchmarks.json" {
		t.Errorf("Expected benchmark list benchmarks.json, got %s", cfg.Input.BenchmarkList)
	}
	if cfg.Input.TestSourceRoot != "src/test/java" {
		t.Errorf("Unexpected test source root: %s", cfg.Input.TestSourceRoot)
	}
	if len(cfg.Input.Include) != 1 || cfg.Input.Include[0] != "io.reactivex.*" {
		t.Errorf("Unexpected include patterns: %v", cfg.Input.Include)
	}
	if cfg.Input.First != 2 {
		t.Errorf("Expected first=2, got %d", cfg.Input.First)
	}
	if cfg.Input.Last == nil || *cfg.Input.Last != 40 {
		t.Errorf("Expected last=40, got %v", cfg.Input.Last)
	}
	if cfg.Engine.MaxFileSize != 2097152 {
		t.Errorf("Expected max_file_size 2097152, got %d", cfg.Engine.MaxFileSize)
	}
	if cfg.Output.Path != "results/parsed.json" {
		t.Errorf("Expected output path results/parsed.json, got %s", cfg.Output.Path)
	}
	if !cfg.Output.Pretty {
		t.Error("Expected pretty output to be enabled")
	}
	if cfg.DB.BusyTimeout != 3*time.Second {
		t.Errorf("Expected busy timeout 3s, got %v", cfg.DB.BusyTimeout)
	}
	if cfg.DB.HistoryLimit != 25 {
		t.Errorf("Expected history_limit 25, got %d", cfg.DB.HistoryLimit)
	}
	if !cfg.DB.Spool.Enabled || cfg.DB.Spool.Path != "spool.db" {
		t.Errorf("Unexpected spool settings: %+v", cfg.DB.Spool)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Observability.Port != 9105 {
		t.Errorf("Expected observability port 9105, got %d", cfg.Observability.Port)
	}
	if cfg.UI.HistoryRows != 15 {
		t.Errorf("Expected history_rows 15, got %d", cfg.UI.HistoryRows)
	}
}

func TestLoadDefaults(t *testing.T) {
	content := `
[input]
benchmark_list = "benchmarks.json"
`
	tmpfile, err := os.CreateTemp("", "config-defaults*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("Expected default version=1, got %d", cfg.Version)
	}
	if cfg.Paths.StateDir != "data/state" {
		t.Errorf("Expected default state dir data/state, got %q", cfg.Paths.StateDir)
	}
	if cfg.Input.TestSourceRoot != "src/test/java" {
		t.Errorf("Expected default test source root src/test/java, got %q", cfg.Input.TestSourceRoot)
	}
	if cfg.Input.Delimiter != "_Benchmark.benchmark_" {
		t.Errorf("Expected default delimiter, got %q", cfg.Input.Delimiter)
	}
	if cfg.Input.Last != nil {
		t.Errorf("Expected last to default to unset, got %v", *cfg.Input.Last)
	}
	if cfg.Engine.FallbackPackage != "java.lang" {
		t.Errorf("Expected default fallback package java.lang, got %q", cfg.Engine.FallbackPackage)
	}
	if cfg.Engine.MaxFileSize != 10<<20 {
		t.Errorf("Expected default max_file_size 10MiB, got %d", cfg.Engine.MaxFileSize)
	}
	if cfg.Output.Path != "parsed-benchmarks.json" {
		t.Errorf("Expected default output path parsed-benchmarks.json, got %q", cfg.Output.Path)
	}
	if !cfg.DB.IsEnabled() {
		t.Error("Expected database to default to enabled")
	}
	if cfg.DB.Driver != "sqlite" {
		t.Errorf("Expected default driver sqlite, got %q", cfg.DB.Driver)
	}
	if cfg.DB.BusyTimeout != 5*time.Second {
		t.Errorf("Expected default busy timeout 5s, got %v", cfg.DB.BusyTimeout)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
	if cfg.Observability.Port != 2112 {
		t.Errorf("Expected default observability port 2112, got %d", cfg.Observability.Port)
	}
	if cfg.Tracing.OTLPEndpoint != "127.0.0.1:4317" {
		t.Errorf("Expected default otlp endpoint, got %q", cfg.Tracing.OTLPEndpoint)
	}
	if cfg.UI.HistoryRows != 10 {
		t.Errorf("Expected default history_rows 10, got %d", cfg.UI.HistoryRows)
	}
}

func TestLoadError(t *testing.T) {
	_, err := Load("nonexistent.toml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}

	tmpfile, _ := os.CreateTemp("", "badconfig*.toml")
	defer os.Remove(tmpfile.Name())
	tmpfile.Write([]byte("bad = toml = format"))
	tmpfile.Close()

	_, err = Load(tmpfile.Name())
	if err == nil {
		t.Error("Expected error for malformed TOML")
	}
}

func TestLoad_DatabaseDisabled(t *testing.T) {
	content := `
[db]
enabled = false
`
	tmpfile, err := os.CreateTemp("", "config-db-disabled*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())
	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DB.IsEnabled() {
		t.Fatal("expected database to be disabled")
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errSub  string
	}{
		{
			name: "unsupported version",
			content: `
version = 3
`,
			errSub: "unsupported config version 3",
		},
		{
			name: "invalid include glob",
			content: `
[input]
include = ["[unterminated"]
`,
			errSub: "input.include[0]",
		},
		{
			name: "invalid exclude glob",
			content: `
[input]
exclude = ["[unterminated"]
`,
			errSub: "input.exclude[0]",
		},
		{
			name: "fallback package with whitespace",
			content: `
[engine]
fallback_package = "java. lang"
`,
			errSub: "engine.fallback_package must not contain whitespace",
		},
		{
			name: "tiny max file size",
			content: `
[engine]
max_file_size = 10
`,
			errSub: "engine.max_file_size must be >= 1024",
		},
		{
			name: "spool without database",
			content: `
[db]
enabled = false

[db.spool]
enabled = true
`,
			errSub: "db.spool.enabled=true requires db.enabled=true",
		},
		{
			name: "bad driver",
			content: `
[db]
driver = "postgres"
`,
			errSub: "db.driver must be sqlite",
		},
		{
			name: "negative history limit",
			content: `
[db]
history_limit = -2
`,
			errSub: "db.history_limit must be >= 0",
		},
		{
			name: "debounce too small",
			content: `
[watch]
debounce = "1ms"
`,
			errSub: "watch.debounce must be >= 10ms",
		},
		{
			name: "bad observability port",
			content: `
[observability]
enabled = true
port = 70000
`,
			errSub: "observability.port must be between 1 and 65535",
		},
		{
			name: "bad history rows",
			content: `
[ui]
history_rows = -1
`,
			errSub: "ui.history_rows must be >= 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpfile, err := os.CreateTemp("", "config-validate*.toml")
			if err != nil {
				t.Fatal(err)
			}
			defer os.Remove(tmpfile.Name())
			if _, err := tmpfile.Write([]byte(tt.content)); err != nil {
				t.Fatal(err)
			}
			if err := tmpfile.Close(); err != nil {
				t.Fatal(err)
			}

			_, err = Load(tmpfile.Name())
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.errSub) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoad_NormalizesPatterns(t *testing.T) {
	content := `
[input]
include = ["  io.reactivex.*  ", "", "org.example.*"]
`
	tmpfile, err := os.CreateTemp("", "config-normalize*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())
	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Input.Include) != 2 {
		t.Fatalf("expected 2 include patterns after normalization, got %v", cfg.Input.Include)
	}
	if cfg.Input.Include[0] != "io.reactivex.*" {
		t.Fatalf("expected trimmed pattern, got %q", cfg.Input.Include[0])
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Version != 1 {
		t.Fatalf("expected version 1, got %d", cfg.Version)
	}
	if cfg.Engine.FallbackPackage != "java.lang" {
		t.Fatalf("expected java.lang fallback, got %q", cfg.Engine.FallbackPackage)
	}
}

func TestResolvedLast(t *testing.T) {
	in := Input{}
	if got := in.ResolvedLast(10); got != 9 {
		t.Fatalf("expected unset last to resolve to 9, got %d", got)
	}

	explicit := 4
	in.Last = &explicit
	if got := in.ResolvedLast(10); got != 4 {
		t.Fatalf("expected explicit last to pass through, got %d", got)
	}

	negative := -1
	in.Last = &negative
	if got := in.ResolvedLast(10); got != -1 {
		t.Fatalf("expected negative explicit last to pass through, got %d", got)
	}
}
