package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"fence/internal/core/config"
	"fence/internal/core/errors"
)

// WalkPythonFiles returns the relative paths of all .py files under root in
// lexical order. Hidden directories and files are skipped when skipHidden is
// set. Symlinks are not followed.
func WalkPythonFiles(root string, skipHidden bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		base := filepath.Base(path)
		if d.IsDir() {
			if skipHidden && strings.HasPrefix(base, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if skipHidden && strings.HasPrefix(base, ".") {
			return nil
		}
		if filepath.Ext(base) != ".py" {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, errors.AddContext(
			errors.Wrap(err, errors.CodeFileIO, "walking source root"),
			errors.CtxSourceRoot, root,
		)
	}

	return files, nil
}

// ContainingSourceRoot returns the source root that absPath lives under.
func ContainingSourceRoot(sourceRoots []string, absPath string) (string, bool) {
	for _, root := range sourceRoots {
		rel, err := filepath.Rel(root, absPath)
		if err != nil {
			continue
		}
		if rel == "." || (!strings.HasPrefix(rel, ".."+string(os.PathSeparator)) && rel != "..") {
			return root, true
		}
	}
	return "", false
}

// FileToModulePath maps an absolute file or package-directory path to its
// dotted module path relative to the source root containing it. A source
// root's own __init__.py maps to the empty string.
func FileToModulePath(sourceRoots []string, absPath string) (string, error) {
	root, ok := ContainingSourceRoot(sourceRoots, absPath)
	if !ok {
		return "", errors.AddContext(
			errors.New(errors.CodePathResolution, "file is not in any source root"),
			errors.CtxPath, absPath,
		)
	}

	rel, err := filepath.Rel(root, absPath)
	if err != nil {
		return "", errors.Wrap(err, errors.CodePathResolution, "resolving path against source root")
	}
	if rel == "." {
		return "", nil
	}

	parts := strings.Split(rel, string(os.PathSeparator))
	last := parts[len(parts)-1]
	last = strings.TrimSuffix(last, ".py")
	if last == "__init__" {
		parts = parts[:len(parts)-1]
	} else {
		parts[len(parts)-1] = last
	}

	return strings.Join(parts, "."), nil
}

// ModulePathToFile resolves a dotted module path to a file under one of the
// source roots, preferring a package __init__.py, then a plain module file,
// then a bare package directory.
func ModulePathToFile(sourceRoots []string, modPath string) (string, error) {
	segments := strings.Split(modPath, ".")
	for _, root := range sourceRoots {
		base := filepath.Join(append([]string{root}, segments...)...)

		initFile := filepath.Join(base, "__init__.py")
		if info, err := os.Stat(initFile); err == nil && !info.IsDir() {
			return initFile, nil
		}
		moduleFile := base + ".py"
		if info, err := os.Stat(moduleFile); err == nil && !info.IsDir() {
			return moduleFile, nil
		}
		if info, err := os.Stat(base); err == nil && info.IsDir() {
			return base, nil
		}
	}

	return "", errors.AddContext(
		errors.New(errors.CodePathResolution, "module path does not resolve to a file"),
		errors.CtxModule, modPath,
	)
}

// ValidateProjectModules partitions the declared modules into those whose
// path resolves to a real file or package and those that are missing from
// the filesystem. The root sentinel is always valid.
func ValidateProjectModules(sourceRoots []string, modules []config.ModuleConfig) (valid, invalid []config.ModuleConfig) {
	for _, module := range modules {
		if module.Path == config.RootModule {
			valid = append(valid, module)
			continue
		}
		if _, err := ModulePathToFile(sourceRoots, module.Path); err != nil {
			invalid = append(invalid, module)
			continue
		}
		valid = append(valid, module)
	}
	return valid, invalid
}
