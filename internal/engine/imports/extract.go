// # internal/engine/imports/extract.go
package imports

import (
	"errors"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"fence/internal/core/config"
)

var errInvalidSyntax = errors.New("invalid syntax")

type extractOptions struct {
	ignoreTypeChecking   bool
	includeStringImports bool
	packagePath          string
}

// extract parses source and returns every import statement as normalized
// dotted paths, before project filtering.
func extract(source []byte, opts extractOptions) ([]NormalizedImport, error) {
	parser := acquireParser()
	defer releaseParser(parser)

	tree := parser.Parse(source, nil)
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, errInvalidSyntax
	}

	e := &extractor{source: source, opts: opts}
	e.walk(root)
	return e.found, nil
}

type extractor struct {
	source []byte
	opts   extractOptions
	found  []NormalizedImport
}

func (e *extractor) walk(node *sitter.Node) {
	switch node.Kind() {
	case "import_statement":
		e.extractImport(node)
		return
	case "import_from_statement":
		e.extractFromImport(node)
		return
	case "if_statement":
		if e.opts.ignoreTypeChecking && e.isTypeCheckingGuard(node) {
			// Skip the guarded block; elif and else branches still run at
			// runtime and keep their imports.
			for i := uint(0); i < node.ChildCount(); i++ {
				child := node.Child(i)
				if child.Kind() == "block" {
					continue
				}
				e.walk(child)
			}
			return
		}
	case "string":
		if e.opts.includeStringImports {
			e.extractStringImport(node)
		}
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i))
	}
}

func (e *extractor) extractImport(node *sitter.Node) {
	line := int(node.StartPosition().Row) + 1

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "dotted_name", "identifier":
			e.add(e.text(child), line)
		case "aliased_import":
			e.add(e.aliasedName(child), line)
		}
	}
}

func (e *extractor) extractFromImport(node *sitter.Node) {
	line := int(node.StartPosition().Row) + 1

	var base string
	var names []string
	wildcard := false
	seenImport := false
	relative := false
	resolvable := true

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "relative_import":
			relative = true
			relText := e.text(child)
			level := 0
			for level < len(relText) && relText[level] == '.' {
				level++
			}
			base, resolvable = ascend(e.opts.packagePath, level)
			if tail := relText[level:]; resolvable && tail != "" {
				base = join(base, tail)
			}
		case "dotted_name", "identifier":
			if seenImport {
				names = append(names, e.text(child))
			} else if !relative {
				base = e.text(child)
			}
		case "aliased_import":
			names = append(names, e.aliasedName(child))
		case "wildcard_import":
			wildcard = true
		case "import":
			seenImport = true
		}
	}

	if !resolvable {
		return
	}
	if wildcard || len(names) == 0 {
		e.add(base, line)
		return
	}
	for _, name := range names {
		if name == "" {
			continue
		}
		e.add(join(base, name), line)
	}
}

func (e *extractor) extractStringImport(node *sitter.Node) {
	line := int(node.StartPosition().Row) + 1
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "string_content" {
			continue
		}
		content := e.text(child)
		if strings.Contains(content, ".") && config.IsValidModulePath(content) {
			e.add(content, line)
		}
	}
}

// aliasedName returns the real imported path of an aliased_import node; the
// first dotted_name or identifier child is the path, the second the alias.
func (e *extractor) aliasedName(node *sitter.Node) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "dotted_name" || child.Kind() == "identifier" {
			return e.text(child)
		}
	}
	return ""
}

func (e *extractor) isTypeCheckingGuard(node *sitter.Node) bool {
	cond := node.ChildByFieldName("condition")
	if cond == nil {
		return false
	}
	text := e.text(cond)
	return text == "TYPE_CHECKING" || strings.HasSuffix(text, ".TYPE_CHECKING")
}

func (e *extractor) add(modPath string, line int) {
	if modPath == "" {
		return
	}
	e.found = append(e.found, NormalizedImport{ModulePath: modPath, LineNo: line})
}

func (e *extractor) text(node *sitter.Node) string {
	return string(e.source[node.StartByte():node.EndByte()])
}

// ascend resolves the leading dots of a relative import against the
// importing file's package. One dot is the package itself; each further dot
// climbs one level. Climbing past the top level is unresolvable.
func ascend(packagePath string, level int) (string, bool) {
	base := packagePath
	for i := 1; i < level; i++ {
		if base == "" {
			return "", false
		}
		if idx := strings.LastIndex(base, "."); idx >= 0 {
			base = base[:idx]
		} else {
			base = ""
		}
	}
	return base, true
}

func join(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}
