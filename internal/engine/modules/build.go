// # internal/engine/modules/build.go
package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fence/internal/core/config"
	"fence/internal/core/errors"
	"fence/internal/core/filesystem"
	"fence/internal/engine/imports"
)

// Build constructs the module tree for one run. The module configurations
// must already be filtered for filesystem existence. Build validates module
// paths, applies the root-module treatment, resolves interface members and
// optionally rejects circular dependencies among non-utility modules. The
// returned tree is immutable.
func Build(sourceRoots []string, mods []config.ModuleConfig, treatment config.RootModuleTreatment, forbidCircular bool) (*ModuleTree, error) {
	applied, err := applyRootTreatment(mods, treatment)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(applied))
	for _, m := range applied {
		if !config.IsValidModulePath(m.Path) {
			return nil, errors.AddContext(
				errors.New(errors.CodeModuleValidation, fmt.Sprintf("invalid module path '%s'", m.Path)),
				errors.CtxModule, m.Path,
			)
		}
		if seen[m.Path] {
			return nil, errors.AddContext(
				errors.New(errors.CodeTreeBuild, fmt.Sprintf("duplicate module path '%s'", m.Path)),
				errors.CtxModule, m.Path,
			)
		}
		seen[m.Path] = true
	}

	if forbidCircular {
		if cycle := findCycle(applied); cycle != nil {
			closed := append(append([]string{}, cycle...), cycle[0])
			return nil, errors.New(errors.CodeTreeBuild,
				fmt.Sprintf("circular dependency detected: %s", strings.Join(closed, " -> ")))
		}
	}

	tree := NewTree()
	for i := range applied {
		m := &applied[i]
		members := m.InterfaceMembers
		if len(members) == 0 {
			members = deriveInterfaceMembers(sourceRoots, m.Path)
		}
		tree.insert(m, members)
	}
	return tree, nil
}

func applyRootTreatment(mods []config.ModuleConfig, treatment config.RootModuleTreatment) ([]config.ModuleConfig, error) {
	switch treatment {
	case config.RootModuleAllow:
		return mods, nil

	case config.RootModuleForbid:
		for _, m := range mods {
			if m.Path == config.RootModule {
				return nil, errors.New(errors.CodeTreeBuild,
					fmt.Sprintf("root module treatment is 'forbid' but '%s' is declared as a module", config.RootModule))
			}
			for _, dep := range m.DependsOn {
				if dep.Path == config.RootModule {
					return nil, errors.New(errors.CodeTreeBuild,
						fmt.Sprintf("root module treatment is 'forbid' but '%s' is a declared dependency of '%s'", config.RootModule, m.Path))
				}
			}
		}
		return mods, nil

	case config.RootModuleIgnore:
		filtered := make([]config.ModuleConfig, 0, len(mods))
		for _, m := range mods {
			if m.Path == config.RootModule {
				continue
			}
			deps := make([]config.DependencyConfig, 0, len(m.DependsOn))
			for _, dep := range m.DependsOn {
				if dep.Path == config.RootModule {
					continue
				}
				deps = append(deps, dep)
			}
			m.DependsOn = deps
			filtered = append(filtered, m)
		}
		return filtered, nil

	case config.RootModuleDependenciesOnly:
		for _, m := range mods {
			if m.Path == config.RootModule {
				return nil, errors.New(errors.CodeTreeBuild,
					fmt.Sprintf("root module treatment is 'dependenciesonly' but '%s' is declared as a module", config.RootModule))
			}
		}
		return mods, nil

	default:
		return nil, errors.New(errors.CodeTreeBuild,
			fmt.Sprintf("unknown root module treatment %q", treatment))
	}
}

// deriveInterfaceMembers reads __all__ from the module's source when the
// configuration does not declare interface members. Modules that resolve to
// a bare package directory, or whose source cannot be read, export nothing.
func deriveInterfaceMembers(sourceRoots []string, modPath string) []string {
	if modPath == config.RootModule {
		for _, root := range sourceRoots {
			if source, err := os.ReadFile(filepath.Join(root, "__init__.py")); err == nil {
				return imports.ParseInterfaceMembers(source)
			}
		}
		return nil
	}
	resolved, err := filesystem.ModulePathToFile(sourceRoots, modPath)
	if err != nil || !strings.HasSuffix(resolved, ".py") {
		return nil
	}
	source, err := os.ReadFile(resolved)
	if err != nil {
		return nil
	}
	return imports.ParseInterfaceMembers(source)
}
