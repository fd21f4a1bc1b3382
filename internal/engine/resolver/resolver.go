package resolver

import (
	"benchlens/internal/engine/parser"
)

// Resolver attributes a simple name seen inside a method body to the
// package that owns it. It is bound to one source unit; the import table
// is built once at construction and shared across every lookup in that
// file.
//
// Resolution never fails. A name nothing in the file accounts for is
// attributed to the fallback package so that tally totals stay in step
// with the raw counts.
type Resolver struct {
	unit     *parser.SourceUnit
	table    *ImportTable
	fallback string
}

func New(unit *parser.SourceUnit, fallbackPackage string) *Resolver {
	return &Resolver{
		unit:     unit,
		table:    BuildImportTable(unit),
		fallback: fallbackPackage,
	}
}

func (r *Resolver) Resolve(name string) string {
	// 1. Exact import match (single-type or static single-member).
	if pkg, ok := r.table.Exact(name); ok {
		return pkg
	}

	// 2. First wildcard import in declaration order.
	if pkg, ok := r.table.FirstWildcard(); ok {
		return pkg
	}

	// 3. Names declared in this file belong to its own package.
	if r.unit.DeclaresName(name) && r.unit.PackageName != "" {
		return r.unit.PackageName
	}

	// 4. Everything else lands in the fallback package.
	return r.fallback
}

func (r *Resolver) Fallback() string {
	return r.fallback
}
