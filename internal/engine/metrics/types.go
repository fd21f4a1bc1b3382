package metrics

// ParsedMethod is the immutable metric record for one analyzed method.
// It is produced by finalizing an accumulator after a single traversal and
// is never mutated afterwards; the downstream serializer and any attached
// benchmark values treat it as read-only.
type ParsedMethod struct {
	MethodName      string         `json:"methodName"`
	PackageAccesses map[string]int `json:"packageAccesses"`
	NumConditionals int            `json:"numConditionals"`
	NumLoops        int            `json:"numLoops"`
	NumNestedLoops  int            `json:"numNestedLoops"`
	NumMethodCalls  int            `json:"numMethodCalls"`
	LinesOfCode     int            `json:"linesOfCode"`
}

// TotalAccesses sums the per-package tallies. Equals the number of
// resolved references (method calls plus bare type uses) in the method.
func (p *ParsedMethod) TotalAccesses() int {
	total := 0
	for _, n := range p.PackageAccesses {
		total += n
	}
	return total
}
