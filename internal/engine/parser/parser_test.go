package parser

import (
	"testing"

	"benchlens/internal/core/errors"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

const widgetSource = `package com.example.app;

import java.util.List;
import java.util.concurrent.*;
import static org.junit.Assert.assertTrue;
import static java.util.Collections.*;

public class Widget {
    private int counter;
    private List<String> names;

    public Widget() {
        this.counter = 0;
    }

    public void run() {
        counter++;
    }

    public void run(int times) {
        for (int i = 0; i < times; i++) {
            run();
        }
    }

    static class Inner {
        void ping() {
        }
    }
}

enum Color {
    RED,
    GREEN;
}
`

func parseSource(t *testing.T, source string) (*Parser, *sitter.Tree) {
	t.Helper()
	p := NewParser(NewGrammarLoader())
	tree, err := p.Parse([]byte(source))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	t.Cleanup(tree.Close)
	return p, tree
}

func TestParse_BuildsSourceUnit(t *testing.T) {
	p, tree := parseSource(t, widgetSource)
	unit := p.BuildSourceUnit(tree.RootNode(), []byte(widgetSource), "Widget.java")

	if unit.PackageName != "com.example.app" {
		t.Errorf("Expected package com.example.app, got %q", unit.PackageName)
	}

	if len(unit.Imports) != 4 {
		t.Fatalf("Expected 4 imports, got %d: %+v", len(unit.Imports), unit.Imports)
	}

	tests := []struct {
		simpleName string
		pkg        string
		isWildcard bool
		isStatic   bool
	}{
		{"List", "java.util", false, false},
		{"", "java.util.concurrent", true, false},
		{"assertTrue", "org.junit", false, true},
		{"", "java.util", true, true},
	}
	for i, want := range tests {
		got := unit.Imports[i]
		if got.SimpleName != want.simpleName {
			t.Errorf("import[%d]: expected simple name %q, got %q", i, want.simpleName, got.SimpleName)
		}
		if got.Package != want.pkg {
			t.Errorf("import[%d]: expected package %q, got %q", i, want.pkg, got.Package)
		}
		if got.IsWildcard != want.isWildcard {
			t.Errorf("import[%d]: expected wildcard=%v", i, want.isWildcard)
		}
		if got.IsStatic != want.isStatic {
			t.Errorf("import[%d]: expected static=%v", i, want.isStatic)
		}
	}

	if len(unit.Types) != 3 {
		t.Fatalf("Expected 3 type declarations, got %d: %+v", len(unit.Types), unit.Types)
	}
	if unit.Types[0].Name != "Widget" || unit.Types[0].Kind != "class" {
		t.Errorf("Unexpected first type: %+v", unit.Types[0])
	}
	if unit.Types[1].Name != "Inner" {
		t.Errorf("Expected nested type Inner, got %+v", unit.Types[1])
	}
	if unit.Types[2].Name != "Color" || unit.Types[2].Kind != "enum" {
		t.Errorf("Unexpected enum type: %+v", unit.Types[2])
	}

	for _, name := range []string{"Widget", "counter", "names", "run", "Inner", "ping", "Color", "RED", "GREEN"} {
		if !unit.DeclaresName(name) {
			t.Errorf("Expected declared name %q", name)
		}
	}
	for _, name := range []string{"i", "times", "missing"} {
		if unit.DeclaresName(name) {
			t.Errorf("Did not expect declared name %q", name)
		}
	}
}

func TestParse_SyntaxError(t *testing.T) {
	p := NewParser(NewGrammarLoader())
	_, err := p.Parse([]byte("class Broken {{{"))
	if err == nil {
		t.Fatal("expected parse error for malformed source")
	}
	if !errors.IsCode(err, errors.CodeParseError) {
		t.Fatalf("expected PARSE_ERROR code, got %v", err)
	}
}

func TestImportPackage(t *testing.T) {
	tests := []struct {
		qualified  string
		isStatic   bool
		isWildcard bool
		want       string
	}{
		{"java.util.List", false, false, "java.util"},
		{"java.util.concurrent", false, true, "java.util.concurrent"},
		{"org.junit.Assert.assertTrue", true, false, "org.junit"},
		{"java.util.Collections", true, true, "java.util"},
		{"Single", false, false, "Single"},
	}
	for _, tt := range tests {
		got := importPackage(tt.qualified, tt.isStatic, tt.isWildcard)
		if got != tt.want {
			t.Errorf("importPackage(%q, static=%v, wildcard=%v) = %q, want %q",
				tt.qualified, tt.isStatic, tt.isWildcard, got, tt.want)
		}
	}
}

func TestLocateMethod(t *testing.T) {
	_, tree := parseSource(t, widgetSource)
	source := []byte(widgetSource)

	method, ok := LocateMethod(tree.RootNode(), source, "run")
	if !ok {
		t.Fatal("expected to locate run")
	}
	if method.StartLine != 16 {
		t.Errorf("Expected first overload at line 16, got %d", method.StartLine)
	}
	if method.EndLine != 18 {
		t.Errorf("Expected end line 18, got %d", method.EndLine)
	}
	if method.ParameterCount != 0 {
		t.Errorf("Expected zero-parameter overload, got %d", method.ParameterCount)
	}

	nested, ok := LocateMethod(tree.RootNode(), source, "ping")
	if !ok {
		t.Fatal("expected to locate ping in nested class")
	}
	if nested.StartLine != 27 {
		t.Errorf("Expected ping at line 27, got %d", nested.StartLine)
	}

	ctor, ok := LocateMethod(tree.RootNode(), source, "Widget")
	if !ok {
		t.Fatal("expected to locate constructor")
	}
	if ctor.StartLine != 12 || ctor.EndLine != 14 {
		t.Errorf("Unexpected constructor span: %d-%d", ctor.StartLine, ctor.EndLine)
	}

	if _, ok := LocateMethod(tree.RootNode(), source, "missing"); ok {
		t.Error("did not expect to locate missing method")
	}
}

func TestLocateMethod_Deterministic(t *testing.T) {
	_, tree := parseSource(t, widgetSource)
	source := []byte(widgetSource)

	first, ok := LocateMethod(tree.RootNode(), source, "run")
	if !ok {
		t.Fatal("expected to locate run")
	}
	for i := 0; i < 5; i++ {
		again, ok := LocateMethod(tree.RootNode(), source, "run")
		if !ok {
			t.Fatal("expected to locate run on repeat")
		}
		if again.StartLine != first.StartLine || again.EndLine != first.EndLine {
			t.Fatalf("locator not deterministic: %d-%d vs %d-%d",
				again.StartLine, again.EndLine, first.StartLine, first.EndLine)
		}
	}
}

func TestParserPool(t *testing.T) {
	loader := NewGrammarLoader()
	pool := NewParserPool(loader.Language())

	sp := pool.Get()
	if sp == nil {
		t.Fatal("expected parser from pool")
	}
	if got := pool.Stats(); got != 1 {
		t.Errorf("Expected 1 active lease, got %d", got)
	}

	tree := sp.Parse([]byte("class A {}"), nil)
	if tree == nil {
		t.Fatal("parse failed")
	}
	tree.Close()

	pool.Put(sp)
	if got := pool.Stats(); got != 0 {
		t.Errorf("Expected 0 active leases after put, got %d", got)
	}

	sp2 := pool.Get()
	defer pool.Put(sp2)
	tree2 := sp2.Parse([]byte("class B {}"), nil)
	if tree2 == nil {
		t.Fatal("parse after reuse failed")
	}
	defer tree2.Close()
}

func TestIsSupportedPath(t *testing.T) {
	p := NewParser(NewGrammarLoader())
	if !p.IsSupportedPath("src/test/java/Example.java") {
		t.Error("expected .java to be supported")
	}
	if p.IsSupportedPath("script.py") {
		t.Error("did not expect .py to be supported")
	}
}
