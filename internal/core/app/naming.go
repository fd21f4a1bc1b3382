// # internal/core/app/naming.go
package app

import (
	"path/filepath"
	"strings"

	"benchlens/internal/core/errors"
)

// DefaultDelimiter separates the generated benchmark wrapper from the
// original test method in ju2jmh-style benchmark names.
const DefaultDelimiter = "_Benchmark.benchmark_"

// BenchmarkName is a decomposed fully qualified benchmark name such as
// pkg.TestClass._Benchmark.benchmark_method: the class that owns the test
// method and the method itself.
type BenchmarkName struct {
	Full     string
	ClassFQN string
	Method   string
}

// ParseBenchmarkName splits a full benchmark name at the first occurrence of
// delimiter. Everything after the delimiter is the method name; everything
// before it, minus a trailing dot, is the owning class.
func ParseBenchmarkName(full, delimiter string) (BenchmarkName, error) {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	idx := strings.Index(full, delimiter)
	if idx < 0 {
		err := errors.New(errors.CodeValidation, "benchmark name missing delimiter")
		return BenchmarkName{}, errors.AddContext(err, errors.CtxBenchmark, full)
	}
	method := full[idx+len(delimiter):]
	if method == "" {
		err := errors.New(errors.CodeValidation, "benchmark name has empty method segment")
		return BenchmarkName{}, errors.AddContext(err, errors.CtxBenchmark, full)
	}
	class := strings.TrimSuffix(full[:idx], ".")
	if class == "" {
		err := errors.New(errors.CodeValidation, "benchmark name has empty class segment")
		return BenchmarkName{}, errors.AddContext(err, errors.CtxBenchmark, full)
	}
	return BenchmarkName{Full: full, ClassFQN: class, Method: method}, nil
}

// SourcePath maps the owning class onto its .java file under root, one path
// component per package segment.
func (n BenchmarkName) SourcePath(root string) string {
	parts := append([]string{root}, strings.Split(n.ClassFQN, ".")...)
	return filepath.Join(parts...) + ".java"
}
