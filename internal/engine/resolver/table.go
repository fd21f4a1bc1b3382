package resolver

import (
	"benchlens/internal/engine/parser"
)

// ImportTable indexes a source unit's import declarations for name lookup.
// Exact entries map a simple name to the package it was imported from.
// Wildcard packages keep declaration order; the first one wins during
// resolution, matching how readers scan an import block top to bottom.
type ImportTable struct {
	exact     map[string]string
	wildcards []string
}

func BuildImportTable(unit *parser.SourceUnit) *ImportTable {
	table := &ImportTable{
		exact: make(map[string]string),
	}
	for _, imp := range unit.Imports {
		if imp.IsWildcard {
			table.wildcards = append(table.wildcards, imp.Package)
			continue
		}
		if imp.SimpleName == "" {
			continue
		}
		// First declaration wins; javac rejects ambiguous duplicates anyway.
		if _, exists := table.exact[imp.SimpleName]; !exists {
			table.exact[imp.SimpleName] = imp.Package
		}
	}
	return table
}

func (t *ImportTable) Exact(name string) (string, bool) {
	pkg, ok := t.exact[name]
	return pkg, ok
}

func (t *ImportTable) FirstWildcard() (string, bool) {
	if len(t.wildcards) == 0 {
		return "", false
	}
	return t.wildcards[0], true
}

func (t *ImportTable) Wildcards() []string {
	return t.wildcards
}
