// # internal/engine/parser/types.go
package parser

import (
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// SourceUnit is the per-file summary the resolver works against: the
// declared package, the import table inputs, and every simple name the
// file declares (types, methods, fields, enum constants).
type SourceUnit struct {
	Path          string
	PackageName   string
	Imports       []ImportDeclaration
	Types         []TypeDeclaration
	DeclaredNames map[string]bool
	ParsedAt      time.Time
}

// ImportDeclaration is one import statement with its attribution package
// precomputed. Package is what a symbol resolved through this import is
// tallied under; for a static single-member import that is the package of
// the enclosing class, not the class itself.
type ImportDeclaration struct {
	SimpleName    string // imported class or member name; empty for wildcards
	QualifiedName string // dotted name as written, without any trailing .*
	Package       string
	IsWildcard    bool
	IsStatic      bool
	Location      Location
}

type TypeDeclaration struct {
	Name     string
	Kind     string // class, interface, enum, record, annotation
	Location Location
}

// MethodNode is a located method or constructor declaration. Node stays
// valid only while the owning tree is open; callers extract what they
// need before closing it.
type MethodNode struct {
	Name           string
	Node           *sitter.Node
	ParameterCount int
	StartLine      int // line of the name identifier, 1-based
	EndLine        int // line of the closing brace, 1-based
}

type Location struct {
	File   string
	Line   int
	Column int
}

// DeclaresName reports whether the file declares the given simple name.
func (u *SourceUnit) DeclaresName(name string) bool {
	return u.DeclaredNames[name]
}

func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}
