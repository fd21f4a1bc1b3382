// # internal/core/watcher/watcher_test.go
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewWatcher_RejectsNilCallback(t *testing.T) {
	w, err := NewWatcher(100*time.Millisecond, nil, nil, nil)
	if err == nil {
		t.Fatal("expected error for nil callback")
	}
	if !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("expected os.ErrInvalid, got %v", err)
	}
	if w != nil {
		t.Fatal("expected nil watcher when callback is invalid")
	}
}

func TestWatcher(t *testing.T) {
	tmpDir, _ := os.MkdirTemp("", "watchertest")
	defer os.RemoveAll(tmpDir)

	changedFiles := make(chan []string, 1)
	w, err := NewWatcher(100*time.Millisecond, []string{"exclude_dir"}, []string{"*.exclude"}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	err = w.Watch([]string{tmpDir})
	if err != nil {
		t.Fatal(err)
	}

	// Create a file
	testFile := filepath.Join(tmpDir, "SumBench.java")
	os.WriteFile(testFile, []byte("class SumBench {}"), 0644)

	select {
	case paths := <-changedFiles:
		found := false
		for _, p := range paths {
			if p == testFile {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected to find %s in changed files %v", testFile, paths)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for file change event")
	}

	// Test exclusion
	excludeFile := filepath.Join(tmpDir, "test.exclude")
	os.WriteFile(excludeFile, []byte("exclude me"), 0644)

	select {
	case paths := <-changedFiles:
		for _, p := range paths {
			if filepath.Base(p) == "test.exclude" {
				t.Error("Excluded file triggered event")
			}
		}
	case <-time.After(500 * time.Millisecond):
		// Expected
	}

	// New directory should be recursively watched after create.
	subdir := filepath.Join(tmpDir, "newdir")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatal(err)
	}
	subFile := filepath.Join(subdir, "NestedBench.java")
	if err := os.WriteFile(subFile, []byte("class NestedBench {}"), 0644); err != nil {
		t.Fatal(err)
	}

	foundNested := false
	timeout := time.After(2 * time.Second)
	for !foundNested {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == subFile {
					foundNested = true
					break
				}
			}
		case <-timeout:
			t.Fatal("timed out waiting for nested file event in newly created directory")
		}
	}
}

func TestWatcher_RenameTriggersChange(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "watcher-rename")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(100*time.Millisecond, nil, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	oldPath := filepath.Join(tmpDir, "OldBench.java")
	newPath := filepath.Join(tmpDir, "NewBench.java")
	if err := os.WriteFile(oldPath, []byte("class OldBench {}"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(2 * time.Second)
	for {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == oldPath || p == newPath {
					return
				}
			}
		case <-timeout:
			t.Fatalf("timed out waiting for rename event, old=%s new=%s", oldPath, newPath)
		}
	}
}

func TestWatcher_FileFilters(t *testing.T) {
	changedFiles := make(chan []string, 1)
	w, err := NewWatcher(10*time.Millisecond, nil, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	w.SetFileFilters([]string{".java"}, []string{"benchmarks.json"})

	if w.shouldExcludeFile("main.py") == false {
		t.Fatal("expected .py to be excluded when .java is the only enabled extension")
	}
	if w.shouldExcludeFile("benchmarks.json") {
		t.Fatal("expected benchmarks.json to be included via filename filter")
	}
	if w.shouldExcludeFile("results.json") == false {
		t.Fatal("expected unrelated .json files to be excluded")
	}
}

func TestWatcher_WatchesSingleFileThroughParent(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "watcher-single")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	listPath := filepath.Join(tmpDir, "benchmarks.json")
	if err := os.WriteFile(listPath, []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}

	changedFiles := make(chan []string, 4)
	w, err := NewWatcher(50*time.Millisecond, nil, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	w.SetFileFilters([]string{".java"}, []string{"benchmarks.json"})
	if err := w.Watch([]string{listPath}); err != nil {
		t.Fatal(err)
	}

	// A sibling file in the same directory must not trigger.
	if err := os.WriteFile(filepath.Join(tmpDir, "results.json"), []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case paths := <-changedFiles:
		t.Fatalf("sibling file triggered event: %v", paths)
	case <-time.After(300 * time.Millisecond):
		// Expected
	}

	if err := os.WriteFile(listPath, []byte(`[["a.B._Benchmark.benchmark_c",1]]`), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case paths := <-changedFiles:
		found := false
		for _, p := range paths {
			if p == listPath {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected %s in changed files %v", listPath, paths)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for list change event")
	}
}

func TestWatcher_ContentHashing(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "watcher-hash-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	changedFiles := make(chan []string, 10)
	w, err := NewWatcher(50*time.Millisecond, nil, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	w.Watch([]string{tmpDir})
	time.Sleep(100 * time.Millisecond)

	testFile := filepath.Join(tmpDir, "HashBench.java")
	content := []byte(`class HashBench {
  void run() {}
}`)

	// Initial create
	if err := os.WriteFile(testFile, content, 0644); err != nil {
		t.Fatal(err)
	}

	// Wait for initial event
	select {
	case <-changedFiles:
		// OK
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for create event")
	}

	// Rewriting identical bytes must not schedule a re-run.
	if err := os.WriteFile(testFile, content, 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-changedFiles:
		t.Errorf("Received unexpected event for identical content: %v", paths)
	case <-time.After(200 * time.Millisecond):
		// Expected timeout - no event should fire
	}

	// Change content
	newContent := []byte(`class HashBench {
  void run() { int i = 1; }
}`)
	if err := os.WriteFile(testFile, newContent, 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-changedFiles:
		found := false
		for _, p := range paths {
			if p == testFile {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected event for %s, got %v", testFile, paths)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Timed out waiting for content change")
	}
}
