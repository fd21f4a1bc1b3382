package metrics

import (
	"os"

	"benchlens/internal/core/errors"
	"benchlens/internal/engine/parser"
	"benchlens/internal/engine/resolver"
)

// Engine is the parse pipeline entry point: one file read, one tree build,
// one traversal per invocation. It keeps no state between calls beyond the
// parser pool, so concurrent invocations for different files are safe.
type Engine struct {
	parser          *parser.Parser
	fallbackPackage string
	maxFileSize     int64
}

func NewEngine(p *parser.Parser, fallbackPackage string, maxFileSize int64) *Engine {
	return &Engine{
		parser:          p,
		fallbackPackage: fallbackPackage,
		maxFileSize:     maxFileSize,
	}
}

// IsSupportedPath reports whether ParseMethod can handle the given file.
func (e *Engine) IsSupportedPath(path string) bool {
	return e.parser.IsSupportedPath(path)
}

// ParseMethod reads the source file, locates the named method, and extracts
// its metrics. Failures surface as coded errors the batch driver can triage:
// CodeNotFound when the method is absent, CodeParseError when the file is
// unreadable, oversized, unsupported, or syntactically invalid. Both are
// recoverable skips; neither aborts a batch.
func (e *Engine) ParseMethod(path, methodName string) (*ParsedMethod, error) {
	if !e.parser.IsSupportedPath(path) {
		err := errors.New(errors.CodeParseError, "unsupported file type")
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		wrapped := errors.Wrap(err, errors.CodeParseError, "source file unreadable")
		return nil, errors.AddContext(wrapped, errors.CtxPath, path)
	}
	if e.maxFileSize > 0 && info.Size() > e.maxFileSize {
		sizeErr := errors.New(errors.CodeParseError, "source file exceeds size limit")
		sizeErr = errors.AddContext(sizeErr, errors.CtxPath, path)
		return nil, errors.AddContext(sizeErr, "size", info.Size())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		wrapped := errors.Wrap(err, errors.CodeParseError, "reading source file")
		return nil, errors.AddContext(wrapped, errors.CtxPath, path)
	}

	tree, err := e.parser.Parse(content)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	defer tree.Close()

	root := tree.RootNode()
	unit := e.parser.BuildSourceUnit(root, content, path)

	method, ok := parser.LocateMethod(root, content, methodName)
	if !ok {
		notFound := errors.New(errors.CodeNotFound, "method not found in source file")
		notFound = errors.AddContext(notFound, errors.CtxPath, path)
		return nil, errors.AddContext(notFound, errors.CtxMethod, methodName)
	}

	res := resolver.New(unit, e.fallbackPackage)
	return Extract(method, content, res), nil
}
