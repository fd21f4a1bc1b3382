package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type ResolvedPaths struct {
	ProjectRoot    string
	ConfigDir      string
	StateDir       string
	DatabaseDir    string
	DBPath         string
	SpoolPath      string
	BenchmarkList  string
	CoverageList   string
	TestSourceRoot string
	OutputPath     string
}

func ResolvePaths(cfg *Config, cwd string) (ResolvedPaths, error) {
	if strings.TrimSpace(cwd) == "" {
		return ResolvedPaths{}, fmt.Errorf("cwd must not be empty")
	}

	projectRoot := strings.TrimSpace(cfg.Paths.ProjectRoot)
	if projectRoot != "" {
		projectRoot = ResolveRelative(cwd, projectRoot)
	} else {
		candidates := []string{ResolveRelative(cwd, cfg.Input.TestSourceRoot), cwd}
		root, err := DetectProjectRoot(candidates)
		if err != nil {
			return ResolvedPaths{}, err
		}
		projectRoot = root
	}

	configDir := ResolveRelative(projectRoot, cfg.Paths.ConfigDir)
	stateDir := ResolveRelative(projectRoot, cfg.Paths.StateDir)
	databaseDir := ResolveRelative(projectRoot, cfg.Paths.DatabaseDir)

	dbPath := strings.TrimSpace(cfg.DB.Path)
	if filepath.IsAbs(dbPath) {
		dbPath = filepath.Clean(dbPath)
	} else {
		dbPath = filepath.Join(databaseDir, dbPath)
	}

	spoolPath := strings.TrimSpace(cfg.DB.Spool.Path)
	if spoolPath != "" {
		if filepath.IsAbs(spoolPath) {
			spoolPath = filepath.Clean(spoolPath)
		} else {
			spoolPath = filepath.Join(stateDir, spoolPath)
		}
	}

	resolved := ResolvedPaths{
		ProjectRoot:    filepath.Clean(projectRoot),
		ConfigDir:      filepath.Clean(configDir),
		StateDir:       filepath.Clean(stateDir),
		DatabaseDir:    filepath.Clean(databaseDir),
		DBPath:         filepath.Clean(dbPath),
		TestSourceRoot: ResolveRelative(projectRoot, cfg.Input.TestSourceRoot),
		OutputPath:     ResolveRelative(projectRoot, cfg.Output.Path),
	}
	if spoolPath != "" {
		resolved.SpoolPath = filepath.Clean(spoolPath)
	}
	if list := strings.TrimSpace(cfg.Input.BenchmarkList); list != "" {
		resolved.BenchmarkList = ResolveRelative(projectRoot, list)
	}
	if list := strings.TrimSpace(cfg.Input.CoverageList); list != "" {
		resolved.CoverageList = ResolveRelative(projectRoot, list)
	}
	return resolved, nil
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}

func DetectProjectRoot(candidates []string) (string, error) {
	markers := []string{
		"pom.xml",
		"build.gradle",
		"build.gradle.kts",
		".git",
		"data/config/benchlens.toml",
		"benchlens.toml",
	}

	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}

		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		root := abs
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			root = filepath.Dir(abs)
		}

		for {
			for _, marker := range markers {
				if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
					return filepath.Clean(root), nil
				}
			}
			parent := filepath.Dir(root)
			if parent == root {
				break
			}
			root = parent
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Clean(cwd), nil
}
