// # internal/engine/parser/parser.go
package parser

import (
	"benchlens/internal/core/errors"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Parser turns Java source bytes into syntax trees, recycling tree-sitter
// parser instances through a pool. It holds no per-file state and is safe
// for concurrent use.
type Parser struct {
	loader    *GrammarLoader
	pool      *ParserPool
	extractor *JavaExtractor
}

func NewParser(loader *GrammarLoader) *Parser {
	return &Parser{
		loader:    loader,
		pool:      NewParserPool(loader.Language()),
		extractor: NewJavaExtractor(),
	}
}

// Parse builds a syntax tree for the given source. The caller owns the
// returned tree and must Close it. Malformed source yields a PARSE_ERROR
// so batch callers can skip the file and continue.
func (p *Parser) Parse(content []byte) (*sitter.Tree, error) {
	sp := p.pool.Get()
	defer p.pool.Put(sp)

	tree := sp.Parse(content, nil)
	if tree == nil {
		return nil, errors.New(errors.CodeParseError, "parse failed")
	}
	if tree.RootNode().HasError() {
		tree.Close()
		return nil, errors.New(errors.CodeParseError, "source contains syntax errors")
	}
	return tree, nil
}

// BuildSourceUnit extracts the file-level summary (package, imports,
// declared names) from a parsed tree.
func (p *Parser) BuildSourceUnit(root *sitter.Node, content []byte, path string) *SourceUnit {
	return p.extractor.Extract(root, content, path)
}

// IsSupportedPath reports whether the path looks like a source file this
// parser can handle.
func (p *Parser) IsSupportedPath(path string) bool {
	return p.loader.IsSupportedPath(path)
}

// PoolStats returns the number of parser instances currently leased.
func (p *Parser) PoolStats() int {
	return p.pool.Stats()
}
