package metrics

// accumulator holds the mutable counters for one traversal. It is confined
// to the extraction call that created it and converted into a ParsedMethod
// once the walk finishes, so partially-built state never escapes.
type accumulator struct {
	conditionals int
	loops        int
	nestedLoops  int
	methodCalls  int
	accesses     map[string]int
}

func newAccumulator() *accumulator {
	return &accumulator{accesses: make(map[string]int)}
}

func (a *accumulator) tally(pkg string) {
	a.accesses[pkg]++
}

func (a *accumulator) finalize(methodName string, startLine, endLine int) *ParsedMethod {
	accesses := make(map[string]int, len(a.accesses))
	for pkg, n := range a.accesses {
		accesses[pkg] = n
	}
	return &ParsedMethod{
		MethodName:      methodName,
		PackageAccesses: accesses,
		NumConditionals: a.conditionals,
		NumLoops:        a.loops,
		NumNestedLoops:  a.nestedLoops,
		NumMethodCalls:  a.methodCalls,
		LinesOfCode:     endLine - startLine + 1,
	}
}
