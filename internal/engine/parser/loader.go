// # internal/engine/parser/loader.go
package parser

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

// GrammarLoader owns the statically linked Java grammar. The binding is
// process-wide and immutable, so a single loader can back any number of
// parsers and pools.
type GrammarLoader struct {
	language *sitter.Language
}

func NewGrammarLoader() *GrammarLoader {
	return &GrammarLoader{
		language: sitter.NewLanguage(tree_sitter_java.Language()),
	}
}

func (gl *GrammarLoader) Language() *sitter.Language {
	return gl.language
}

func (gl *GrammarLoader) SupportedExtensions() []string {
	return []string{".java"}
}

func (gl *GrammarLoader) IsSupportedPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range gl.SupportedExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}
