// # internal/engine/check/check.go

// Package check decides whether imports respect the declared module
// boundaries and walks a project accumulating diagnostics.
package check

import (
	"strings"

	"fence/internal/engine/modules"
)

// CheckImport classifies a single import. importModPath is the imported
// dotted path, fileModPath the importing file's module path. fileNearest may
// carry the importing file's pre-resolved module node to skip a redundant
// lookup; passing nil resolves it from fileModPath with identical behavior.
// A nil return means the import is allowed.
func CheckImport(tree *modules.ModuleTree, importModPath, fileModPath string, fileNearest *modules.ModuleNode) Violation {
	importNearest := tree.FindNearest(importModPath)
	if importNearest == nil {
		// Not under any configured module: third-party or unconfigured code.
		return nil
	}

	if fileNearest == nil {
		fileNearest = tree.FindNearest(fileModPath)
	}
	if fileNearest == nil {
		return &ModuleNotFoundError{FileModPath: fileModPath}
	}

	if fileNearest == importNearest {
		return nil
	}

	if importNearest.Config != nil && importNearest.Config.Strict && !allowedByInterface(importNearest, importModPath) {
		return &StrictModeImportError{
			ImportModPath:           importModPath,
			ImportNearestModulePath: importNearest.FullPath,
			FileNearestModulePath:   fileNearest.FullPath,
		}
	}

	if fileNearest.Config == nil || importNearest.Config == nil {
		return &ModuleConfigNotFoundError{}
	}

	active, deprecated := false, false
	for _, dep := range fileNearest.Config.DependsOn {
		if dep.Path != importNearest.FullPath {
			continue
		}
		if dep.Deprecated {
			deprecated = true
		} else {
			active = true
		}
	}
	switch {
	case active:
		return nil
	case deprecated:
		return &DeprecatedImportError{
			ImportModPath: importModPath,
			SourceModule:  fileNearest.FullPath,
			InvalidModule: importNearest.FullPath,
		}
	default:
		return &InvalidImportError{
			ImportModPath: importModPath,
			SourceModule:  fileNearest.FullPath,
			InvalidModule: importNearest.FullPath,
		}
	}
}

// allowedByInterface reports whether importModPath is a legal way into a
// strict module: the module itself, or a direct member of its declared
// public interface. The member is the part after the last dot; a dotless
// path can only name the module itself.
func allowedByInterface(node *modules.ModuleNode, importModPath string) bool {
	if importModPath == node.FullPath {
		return true
	}
	idx := strings.LastIndex(importModPath, ".")
	if idx < 0 {
		return false
	}
	if importModPath[:idx] != node.FullPath {
		return false
	}
	member := importModPath[idx+1:]
	for _, m := range node.InterfaceMembers {
		if m == member {
			return true
		}
	}
	return false
}
