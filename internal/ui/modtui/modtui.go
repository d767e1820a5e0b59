// Package modtui is the interactive module editor behind 'fence mod'. It
// lists the packages found under the source roots, lets the user toggle which
// ones are declared modules, and writes the result back through the config
// edit queue.
package modtui

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"fence/internal/core/config"
	"fence/internal/core/errors"
	"fence/internal/core/exclusion"
	"fence/internal/core/filesystem"
)

// Run launches the editor. The config file at configPath is only touched when
// the user saves; quitting discards all pending toggles.
func Run(projectRoot, configPath string, cfg *config.ProjectConfig) error {
	entries, err := discoverPackages(projectRoot, cfg)
	if err != nil {
		return err
	}

	program := tea.NewProgram(initialModel(entries), tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return errors.Wrap(err, errors.CodeEditFailed, "module editor failed")
	}

	m, ok := final.(model)
	if !ok || !m.save {
		return nil
	}

	editor := config.NewEditor(configPath)
	for _, edit := range m.edits() {
		editor.Enqueue(edit)
	}
	if editor.Pending() == 0 {
		return nil
	}
	if err := editor.Apply(); err != nil {
		return errors.Wrap(err, errors.CodeEditFailed, "saving module changes")
	}
	return nil
}

// edits diffs the toggled state against the state the editor started with.
func (m model) edits() []config.ConfigEdit {
	var edits []config.ConfigEdit
	for _, e := range m.entries {
		switch {
		case e.declared && !e.wasDeclared:
			edits = append(edits, config.CreateModule{Path: e.path})
			if e.utility {
				edits = append(edits, config.MarkModuleAsUtility{Path: e.path})
			}
		case !e.declared && e.wasDeclared:
			edits = append(edits, config.DeleteModule{Path: e.path})
		case e.declared && e.utility != e.wasUtility:
			if e.utility {
				edits = append(edits, config.MarkModuleAsUtility{Path: e.path})
			} else {
				edits = append(edits, config.UnmarkModuleAsUtility{Path: e.path})
			}
		}
	}
	return edits
}

// discoverPackages walks the source roots for module candidates: directories
// holding an __init__.py and .py files sitting directly under a root.
// Declared modules missing from the filesystem are kept so they can still be
// removed.
func discoverPackages(projectRoot string, cfg *config.ProjectConfig) ([]*entry, error) {
	sourceRoots := cfg.AbsoluteSourceRoots(projectRoot)
	skipHidden := cfg.HiddenPathsExcluded()

	byPath := make(map[string]*entry)
	var entries []*entry

	add := func(absPath string) error {
		modPath, err := filesystem.FileToModulePath(sourceRoots, absPath)
		if err != nil || modPath == "" {
			return nil
		}
		if _, seen := byPath[modPath]; seen {
			return nil
		}
		location, err := filepath.Rel(projectRoot, absPath)
		if err != nil {
			location = absPath
		}
		e := &entry{path: modPath, location: location}
		byPath[modPath] = e
		entries = append(entries, e)
		return nil
	}

	for _, root := range sourceRoots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			base := filepath.Base(path)
			if d.IsDir() {
				if path == root {
					return nil
				}
				if skipHidden && strings.HasPrefix(base, ".") {
					return filepath.SkipDir
				}
				excluded, err := exclusion.IsExcluded(path)
				if err != nil {
					return err
				}
				if excluded {
					return filepath.SkipDir
				}
				return nil
			}
			if base == "__init__.py" {
				return add(filepath.Dir(path))
			}
			if filepath.Ext(base) == ".py" && filepath.Dir(path) == root {
				return add(path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.AddContext(
				errors.Wrap(err, errors.CodeFileIO, "scanning source root for packages"),
				errors.CtxSourceRoot, root,
			)
		}
	}

	for i := range cfg.Modules {
		mc := cfg.Modules[i]
		if mc.Path == config.RootModule {
			continue
		}
		e, ok := byPath[mc.Path]
		if !ok {
			e = &entry{path: mc.Path, location: "(not found on disk)"}
			byPath[mc.Path] = e
			entries = append(entries, e)
		}
		e.declared = true
		e.utility = mc.Utility
		e.wasDeclared = true
		e.wasUtility = mc.Utility
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].path < entries[j].path })
	return entries, nil
}
