// # internal/engine/modules/tree.go
package modules

import (
	"sort"
	"strings"

	"fence/internal/core/config"
)

// ModuleNode is one node of the module trie. Nodes are immutable after the
// tree is built and are shared by pointer; callers compare nodes by identity
// to test "same module".
type ModuleNode struct {
	// FullPath is the canonical dotted path of this node, or the <root>
	// sentinel for the tree root.
	FullPath string

	// Config is the declared configuration, nil for implicit ancestors that
	// only exist as interior trie nodes.
	Config *config.ModuleConfig

	// InterfaceMembers are the names exported through this module's public
	// interface. Empty unless the module declares members or its source
	// defines __all__.
	InterfaceMembers []string

	isEndOfPath bool
	children    map[string]*ModuleNode
}

func newNode(fullPath string) *ModuleNode {
	return &ModuleNode{
		FullPath: fullPath,
		children: make(map[string]*ModuleNode),
	}
}

// IsConfigured reports whether this node corresponds to a declared module
// rather than an implicit ancestor.
func (n *ModuleNode) IsConfigured() bool {
	return n.isEndOfPath
}

// ModuleTree indexes declared modules by their dotted path and resolves
// arbitrary dotted paths to their nearest configured ancestor.
type ModuleTree struct {
	root *ModuleNode
}

// NewTree returns an empty tree whose root carries the <root> sentinel path.
func NewTree() *ModuleTree {
	return &ModuleTree{root: newNode(config.RootModule)}
}

func (t *ModuleTree) insert(cfg *config.ModuleConfig, members []string) {
	if cfg.Path == config.RootModule {
		t.root.isEndOfPath = true
		t.root.Config = cfg
		t.root.InterfaceMembers = members
		return
	}
	node := t.root
	for _, segment := range strings.Split(cfg.Path, ".") {
		child, ok := node.children[segment]
		if !ok {
			fullPath := segment
			if node != t.root {
				fullPath = node.FullPath + "." + segment
			}
			child = newNode(fullPath)
			node.children[segment] = child
		}
		node = child
	}
	node.isEndOfPath = true
	node.Config = cfg
	node.InterfaceMembers = members
}

// Get returns the node declared exactly at path, or nil.
func (t *ModuleTree) Get(path string) *ModuleNode {
	if path == config.RootModule {
		if t.root.isEndOfPath {
			return t.root
		}
		return nil
	}
	node := t.root
	for _, segment := range strings.Split(path, ".") {
		child, ok := node.children[segment]
		if !ok {
			return nil
		}
		node = child
	}
	if !node.isEndOfPath {
		return nil
	}
	return node
}

// FindNearest returns the deepest declared module whose path is a
// dot-segment-aligned prefix of path, or nil when no declared ancestor
// exists. The root module is returned only when path is the <root> sentinel
// itself, never as a fallback for unmatched paths.
func (t *ModuleTree) FindNearest(path string) *ModuleNode {
	if path == config.RootModule {
		if t.root.isEndOfPath {
			return t.root
		}
		return nil
	}
	if path == "" {
		return nil
	}

	var nearest *ModuleNode
	node := t.root
	for _, segment := range strings.Split(path, ".") {
		child, ok := node.children[segment]
		if !ok {
			break
		}
		node = child
		if node.isEndOfPath {
			nearest = node
		}
	}
	return nearest
}

// Paths returns the declared module paths in sorted order.
func (t *ModuleTree) Paths() []string {
	var paths []string
	var walk func(n *ModuleNode)
	walk = func(n *ModuleNode) {
		if n.isEndOfPath {
			paths = append(paths, n.FullPath)
		}
		for _, child := range n.children {
			walk(child)
		}
	}
	walk(t.root)
	sort.Strings(paths)
	return paths
}
