// # internal/engine/imports/imports.go

// Package imports extracts project-internal import statements from Python
// source files. Extraction is AST-based via tree-sitter; results are cached
// per file so watch-mode rescans skip unchanged sources.
package imports

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fence/internal/core/exclusion"
	"fence/internal/core/filesystem"
)

// NormalizedImport is one imported module path, fully resolved against the
// importing file for relative imports. LineNo is the 1-based line of the
// statement that produced it.
type NormalizedImport struct {
	ModulePath string
	LineNo     int
}

// FailureKind classifies why a file yielded no imports.
type FailureKind int

const (
	// FailureParsing marks files tree-sitter could not parse cleanly.
	FailureParsing FailureKind = iota
	// FailureFilesystem marks unreadable files.
	FailureFilesystem
	// FailureExclusion marks files whose exclusion status could not be
	// determined.
	FailureExclusion
)

// ParseError is the typed per-file extraction failure. Callers branch on
// Kind to decide how to describe the skipped file.
type ParseError struct {
	Kind     FailureKind
	FilePath string
	Err      error
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case FailureParsing:
		return fmt.Sprintf("syntax error in %s", e.FilePath)
	case FailureFilesystem:
		return fmt.Sprintf("cannot read %s: %v", e.FilePath, e.Err)
	default:
		return fmt.Sprintf("cannot check exclusion of %s: %v", e.FilePath, e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

const importCacheSize = 2048

type cacheKey struct {
	path               string
	modTime            int64
	size               int64
	ignoreTypeChecking bool
	includeStrings     bool
}

var importCache = NewLRUCache[cacheKey, []NormalizedImport](importCacheSize)

// GetProjectImports extracts every project-internal import from the file at
// absPath. An import is project-internal when its first segment resolves to
// a package or module under one of the source roots; everything else is
// assumed third-party or standard library and dropped. Files matching the
// exclusion registry yield no imports.
func GetProjectImports(sourceRoots []string, absPath string, ignoreTypeChecking, includeStringImports bool) ([]NormalizedImport, error) {
	excluded, err := exclusion.IsExcluded(absPath)
	if err != nil {
		return nil, &ParseError{Kind: FailureExclusion, FilePath: absPath, Err: err}
	}
	if excluded {
		return nil, nil
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, &ParseError{Kind: FailureFilesystem, FilePath: absPath, Err: err}
	}
	key := cacheKey{
		path:               absPath,
		modTime:            info.ModTime().UnixNano(),
		size:               info.Size(),
		ignoreTypeChecking: ignoreTypeChecking,
		includeStrings:     includeStringImports,
	}
	if cached, ok := importCache.Get(key); ok {
		return cached, nil
	}

	source, err := os.ReadFile(absPath)
	if err != nil {
		return nil, &ParseError{Kind: FailureFilesystem, FilePath: absPath, Err: err}
	}

	raw, err := extract(source, extractOptions{
		ignoreTypeChecking:   ignoreTypeChecking,
		includeStringImports: includeStringImports,
		packagePath:          importingPackage(sourceRoots, absPath),
	})
	if err != nil {
		return nil, &ParseError{Kind: FailureParsing, FilePath: absPath, Err: err}
	}

	project := raw[:0]
	for _, imp := range raw {
		if isProjectModule(sourceRoots, imp.ModulePath) {
			project = append(project, imp)
		}
	}

	importCache.Put(key, project)
	return project, nil
}

// importingPackage returns the dotted path of the package that relative
// imports in absPath resolve against: the module path itself for a package
// __init__, its parent otherwise. Files outside every source root resolve no
// relative imports.
func importingPackage(sourceRoots []string, absPath string) string {
	modPath, err := filesystem.FileToModulePath(sourceRoots, absPath)
	if err != nil {
		return ""
	}
	if filepath.Base(absPath) == "__init__.py" {
		return modPath
	}
	if idx := strings.LastIndex(modPath, "."); idx >= 0 {
		return modPath[:idx]
	}
	return ""
}

// isProjectModule reports whether the first segment of modPath exists as a
// package directory or module file under any source root.
func isProjectModule(sourceRoots []string, modPath string) bool {
	first := modPath
	if idx := strings.Index(first, "."); idx >= 0 {
		first = first[:idx]
	}
	if first == "" {
		return false
	}
	for _, root := range sourceRoots {
		if info, err := os.Stat(filepath.Join(root, first)); err == nil && info.IsDir() {
			return true
		}
		if info, err := os.Stat(filepath.Join(root, first+".py")); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}
