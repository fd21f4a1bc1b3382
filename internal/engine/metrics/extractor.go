package metrics

import (
	"benchlens/internal/engine/parser"
	"benchlens/internal/engine/resolver"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Extract walks one located method subtree and produces its metric record.
// A single pre-order pass visits every nested scope (lambda bodies,
// anonymous classes, nested blocks) exactly once, carrying an explicit
// loop depth so nested loops can be told apart from top-level ones.
// LinesOfCode comes from the node span, not from the walk.
func Extract(method *parser.MethodNode, source []byte, res *resolver.Resolver) *ParsedMethod {
	w := &walker{source: source, res: res, acc: newAccumulator()}
	w.walk(method.Node)
	return w.acc.finalize(method.Name, method.StartLine, method.EndLine)
}

type walker struct {
	source    []byte
	res       *resolver.Resolver
	acc       *accumulator
	loopDepth int
}

func (w *walker) walk(node *sitter.Node) {
	switch node.Kind() {
	case "for_statement", "enhanced_for_statement", "while_statement", "do_statement":
		w.acc.loops++
		if w.loopDepth > 0 {
			w.acc.nestedLoops++
		}
		w.loopDepth++
		w.walkChildren(node)
		w.loopDepth--
		return

	case "if_statement", "ternary_expression":
		// an else-if chain is nested if_statements, so each arm counts;
		// a bare else adds nothing
		w.acc.conditionals++

	case "switch_label":
		// one conditional per case label, none for default; a multi-value
		// label (case 1, 2:) still has a single case token
		if labelHasCase(node) {
			w.acc.conditionals++
		}
		return

	case "method_invocation":
		w.acc.methodCalls++
		if target := w.callTarget(node); target != "" {
			w.acc.tally(w.res.Resolve(target))
		}

	case "type_identifier":
		// bare type reference: declared variable types, constructor types,
		// casts, catch and throws clauses, generic arguments
		w.acc.tally(w.res.Resolve(w.text(node)))
		return

	case "scoped_type_identifier":
		w.walkScopedType(node)
		return
	}
	w.walkChildren(node)
}

func (w *walker) walkChildren(node *sitter.Node) {
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		w.walk(child)
	}
}

// walkScopedType tallies only the outermost qualifier of a dotted type
// like Map.Entry; the trailing member names add nothing, while generic
// arguments anywhere in the chain are still real type references.
func (w *walker) walkScopedType(node *sitter.Node) {
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "type_identifier":
			if i == 0 {
				w.acc.tally(w.res.Resolve(w.text(child)))
			}
		case "scoped_type_identifier":
			w.walkScopedType(child)
		case "generic_type", "type_arguments":
			w.walk(child)
		}
	}
}

// callTarget picks the symbol an invocation is attributed to: the leftmost
// identifier of the receiver chain (obj.run(), Clazz.of(), plugin.hook().run()
// all descend to their first name). Unqualified calls and receivers that are
// not name chains (this, super, literals, array elements, fresh instances)
// attribute to the invoked method name instead. Every call yields exactly
// one attribution.
func (w *walker) callTarget(node *sitter.Node) string {
	obj := node.ChildByFieldName("object")
chain:
	for obj != nil {
		switch obj.Kind() {
		case "identifier":
			return w.text(obj)
		case "field_access":
			obj = obj.ChildByFieldName("object")
		case "method_invocation":
			inner := obj.ChildByFieldName("object")
			if inner == nil {
				if name := obj.ChildByFieldName("name"); name != nil {
					return w.text(name)
				}
				break chain
			}
			obj = inner
		default:
			break chain
		}
	}
	if name := node.ChildByFieldName("name"); name != nil {
		return w.text(name)
	}
	return ""
}

func labelHasCase(node *sitter.Node) bool {
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == "case" {
			return true
		}
	}
	return false
}

func (w *walker) text(node *sitter.Node) string {
	return string(w.source[node.StartByte():node.EndByte()])
}
