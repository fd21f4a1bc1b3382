package metrics

import (
	"path/filepath"
	"reflect"
	"testing"
)

func fixturePath(t *testing.T) string {
	t.Helper()
	return filepath.Join("testdata", "src", "test", "java",
		"io", "reactivex", "rxjava3", "internal", "schedulers",
		"InstantPeriodicTaskTest.java")
}

func TestParseMethod_GoldenDispose3(t *testing.T) {
	engine := newTestEngine(0)

	pm, err := engine.ParseMethod(fixturePath(t), "dispose3")
	if err != nil {
		t.Fatalf("ParseMethod failed: %v", err)
	}

	if pm.MethodName != "dispose3" {
		t.Errorf("Expected method name dispose3, got %q", pm.MethodName)
	}
	if pm.LinesOfCode != 141 {
		t.Errorf("Expected 141 lines of code, got %d", pm.LinesOfCode)
	}
	if pm.NumConditionals != 32 {
		t.Errorf("Expected 32 conditionals, got %d", pm.NumConditionals)
	}
	if pm.NumLoops != 2 {
		t.Errorf("Expected 2 loops, got %d", pm.NumLoops)
	}
	if pm.NumNestedLoops != 0 {
		t.Errorf("Expected 0 nested loops, got %d", pm.NumNestedLoops)
	}
	if pm.NumMethodCalls != 50 {
		t.Errorf("Expected 50 method calls, got %d", pm.NumMethodCalls)
	}

	want := map[string]int{
		"io.reactivex.rxjava3.plugins":             27,
		"java.lang":                                31,
		"java.util.concurrent":                     10,
		"java.util.concurrent.atomic":              6,
		"io.reactivex.rxjava3.internal.schedulers": 4,
		"io.reactivex.rxjava3.exceptions":          1,
		"org.junit":                                2,
	}
	if !reflect.DeepEqual(pm.PackageAccesses, want) {
		t.Errorf("packageAccesses mismatch:\n got:  %v\n want: %v", pm.PackageAccesses, want)
	}
	if pm.TotalAccesses() != 81 {
		t.Errorf("Expected 81 total accesses, got %d", pm.TotalAccesses())
	}
}

func TestParseMethod_GoldenDispose(t *testing.T) {
	engine := newTestEngine(0)

	pm, err := engine.ParseMethod(fixturePath(t), "dispose")
	if err != nil {
		t.Fatalf("ParseMethod failed: %v", err)
	}
	if pm.LinesOfCode != 5 {
		t.Errorf("Expected 5 lines, got %d", pm.LinesOfCode)
	}
	if pm.NumMethodCalls != 4 {
		t.Errorf("Expected 4 calls, got %d", pm.NumMethodCalls)
	}
	if pm.NumLoops != 0 || pm.NumConditionals != 0 {
		t.Errorf("Expected no loops or conditionals, got %+v", pm)
	}
}
