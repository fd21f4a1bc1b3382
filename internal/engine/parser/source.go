package parser

import (
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// JavaExtractor builds a SourceUnit from a parsed Java compilation unit.
type JavaExtractor struct{}

func NewJavaExtractor() *JavaExtractor { return &JavaExtractor{} }

func (e *JavaExtractor) Extract(root *sitter.Node, source []byte, filePath string) *SourceUnit {
	unit := &SourceUnit{
		Path:          filePath,
		DeclaredNames: make(map[string]bool),
		ParsedAt:      time.Now(),
	}

	ctx := &ExtractionContext{Source: source, Unit: unit}
	engine := NewExtractorEngine(map[string]NodeHandler{
		"package_declaration":         e.extractPackage,
		"import_declaration":          e.extractImport,
		"class_declaration":           e.extractType,
		"interface_declaration":       e.extractType,
		"enum_declaration":            e.extractType,
		"record_declaration":          e.extractType,
		"annotation_type_declaration": e.extractType,
		"method_declaration":          e.extractCallable,
		"constructor_declaration":     e.extractCallable,
		"field_declaration":           e.extractField,
		"enum_constant":               e.extractEnumConstant,
	})
	engine.Walk(ctx, root)

	return unit
}

func (e *JavaExtractor) extractPackage(ctx *ExtractionContext, node *sitter.Node) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "scoped_identifier", "identifier":
			ctx.Unit.PackageName = ctx.Text(child)
		}
	}
	return true
}

func (e *JavaExtractor) extractImport(ctx *ExtractionContext, node *sitter.Node) bool {
	var qualified string
	isStatic := false
	isWildcard := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "static":
			isStatic = true
		case "asterisk":
			isWildcard = true
		case "scoped_identifier", "identifier":
			qualified = ctx.Text(child)
		}
	}
	if qualified == "" {
		return true
	}

	decl := ImportDeclaration{
		QualifiedName: qualified,
		Package:       importPackage(qualified, isStatic, isWildcard),
		IsWildcard:    isWildcard,
		IsStatic:      isStatic,
		Location:      ctx.Location(node),
	}
	if !isWildcard {
		decl.SimpleName = lastSegment(qualified)
	}
	ctx.Unit.Imports = append(ctx.Unit.Imports, decl)
	return true
}

func (e *JavaExtractor) extractType(ctx *ExtractionContext, node *sitter.Node) bool {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return false
	}
	name := ctx.Text(nameNode)
	if name == "" {
		return false
	}

	ctx.Unit.Types = append(ctx.Unit.Types, TypeDeclaration{
		Name:     name,
		Kind:     typeKind(node.Kind()),
		Location: ctx.Location(node),
	})
	ctx.Unit.DeclaredNames[name] = true
	return false // continue into the body for nested declarations
}

func (e *JavaExtractor) extractCallable(ctx *ExtractionContext, node *sitter.Node) bool {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return false
	}
	name := ctx.Text(nameNode)
	if name != "" {
		ctx.Unit.DeclaredNames[name] = true
	}
	return false // local classes inside the body are declarations too
}

func (e *JavaExtractor) extractField(ctx *ExtractionContext, node *sitter.Node) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "variable_declarator" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		if name := ctx.Text(nameNode); name != "" {
			ctx.Unit.DeclaredNames[name] = true
		}
	}
	return true
}

func (e *JavaExtractor) extractEnumConstant(ctx *ExtractionContext, node *sitter.Node) bool {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return true
	}
	if name := ctx.Text(nameNode); name != "" {
		ctx.Unit.DeclaredNames[name] = true
	}
	return true
}

func typeKind(nodeKind string) string {
	switch nodeKind {
	case "class_declaration":
		return "class"
	case "interface_declaration":
		return "interface"
	case "enum_declaration":
		return "enum"
	case "record_declaration":
		return "record"
	case "annotation_type_declaration":
		return "annotation"
	}
	return "type"
}

// importPackage derives the attribution package for an import statement.
// Single-type imports drop the class name, static member imports drop the
// member and the class, wildcards already name a package, and static
// wildcards drop only the class.
func importPackage(qualified string, isStatic, isWildcard bool) string {
	drop := 1
	switch {
	case isStatic && isWildcard:
		drop = 1
	case isStatic:
		drop = 2
	case isWildcard:
		drop = 0
	}
	if drop == 0 {
		return qualified
	}
	segments := strings.Split(qualified, ".")
	if len(segments) <= drop {
		return qualified
	}
	return strings.Join(segments[:len(segments)-drop], ".")
}

func lastSegment(qualified string) string {
	if idx := strings.LastIndex(qualified, "."); idx >= 0 {
		return qualified[idx+1:]
	}
	return qualified
}
