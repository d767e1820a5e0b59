// # internal/engine/imports/interface.go
package imports

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ParseInterfaceMembers returns the string elements assigned to a top-level
// __all__ in source, in declaration order. Augmented assignments extend the
// result. Sources without __all__ yield nil.
func ParseInterfaceMembers(source []byte) []string {
	parser := acquireParser()
	defer releaseParser(parser)

	tree := parser.Parse(source, nil)
	defer tree.Close()

	var members []string
	root := tree.RootNode()
	for i := uint(0); i < root.ChildCount(); i++ {
		stmt := root.Child(i)
		if stmt.Kind() != "expression_statement" {
			continue
		}
		for j := uint(0); j < stmt.ChildCount(); j++ {
			node := stmt.Child(j)
			if node.Kind() != "assignment" && node.Kind() != "augmented_assignment" {
				continue
			}
			left := node.ChildByFieldName("left")
			if left == nil || string(source[left.StartByte():left.EndByte()]) != "__all__" {
				continue
			}
			if right := node.ChildByFieldName("right"); right != nil {
				collectStringElements(right, source, &members)
			}
		}
	}
	return members
}

func collectStringElements(node *sitter.Node, source []byte, out *[]string) {
	if node.Kind() == "string" {
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child.Kind() == "string_content" {
				*out = append(*out, string(source[child.StartByte():child.EndByte()]))
			}
		}
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		collectStringElements(node.Child(i), source, out)
	}
}
