package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// LocateMethod finds the first method or constructor declaration named
// methodName, in document order, searching every type declaration in the
// tree including nested, local and anonymous classes. Overloads share a
// name; the first declaration wins so repeated runs select the same
// candidate.
func LocateMethod(root *sitter.Node, source []byte, methodName string) (*MethodNode, bool) {
	var found *MethodNode

	var walk func(node *sitter.Node) bool
	walk = func(node *sitter.Node) bool {
		if node == nil {
			return false
		}

		switch node.Kind() {
		case "method_declaration", "constructor_declaration":
			nameNode := node.ChildByFieldName("name")
			if nameNode != nil && nodeText(nameNode, source) == methodName {
				found = &MethodNode{
					Name:           methodName,
					Node:           node,
					ParameterCount: countParameters(node),
					StartLine:      int(nameNode.StartPosition().Row) + 1,
					EndLine:        int(node.EndPosition().Row) + 1,
				}
				return true
			}
		}

		for i := uint(0); i < node.ChildCount(); i++ {
			if walk(node.Child(i)) {
				return true
			}
		}
		return false
	}

	if walk(root) {
		return found, true
	}
	return nil, false
}

func countParameters(node *sitter.Node) int {
	params := node.ChildByFieldName("parameters")
	if params == nil {
		return 0
	}
	count := 0
	for i := uint(0); i < params.ChildCount(); i++ {
		switch params.Child(i).Kind() {
		case "formal_parameter", "spread_parameter":
			count++
		}
	}
	return count
}
