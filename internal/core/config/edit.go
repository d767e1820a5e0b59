package config

import (
	"errors"
	"fmt"
	"os"
)

// Edit errors, surfaced from Editor.Apply.
var (
	ErrNotApplicable       = errors.New("edit not applicable")
	ErrEditModuleNotFound  = errors.New("module not found")
	ErrModuleAlreadyExists = errors.New("module already exists")
	ErrConfigDoesNotExist  = errors.New("config file does not exist")
)

// ConfigEdit is one queued mutation of a fence.toml.
type ConfigEdit interface {
	apply(cfg *ProjectConfig) error
}

type CreateModule struct {
	Path string
}

type DeleteModule struct {
	Path string
}

type MarkModuleAsUtility struct {
	Path string
}

type UnmarkModuleAsUtility struct {
	Path string
}

type AddDependency struct {
	Path       string
	Dependency string
}

type RemoveDependency struct {
	Path       string
	Dependency string
}

func (e CreateModule) apply(cfg *ProjectConfig) error {
	if !IsValidModulePath(e.Path) {
		return fmt.Errorf("%w: invalid module path %q", ErrNotApplicable, e.Path)
	}
	if cfg.Module(e.Path) != nil {
		return fmt.Errorf("%w: %q", ErrModuleAlreadyExists, e.Path)
	}
	cfg.Modules = append(cfg.Modules, ModuleConfig{Path: e.Path})
	return nil
}

func (e DeleteModule) apply(cfg *ProjectConfig) error {
	for i := range cfg.Modules {
		if cfg.Modules[i].Path != e.Path {
			continue
		}
		cfg.Modules = append(cfg.Modules[:i], cfg.Modules[i+1:]...)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrEditModuleNotFound, e.Path)
}

func (e MarkModuleAsUtility) apply(cfg *ProjectConfig) error {
	module := cfg.Module(e.Path)
	if module == nil {
		return fmt.Errorf("%w: %q", ErrEditModuleNotFound, e.Path)
	}
	module.Utility = true
	return nil
}

func (e UnmarkModuleAsUtility) apply(cfg *ProjectConfig) error {
	module := cfg.Module(e.Path)
	if module == nil {
		return fmt.Errorf("%w: %q", ErrEditModuleNotFound, e.Path)
	}
	module.Utility = false
	return nil
}

func (e AddDependency) apply(cfg *ProjectConfig) error {
	module := cfg.Module(e.Path)
	if module == nil {
		return fmt.Errorf("%w: %q", ErrEditModuleNotFound, e.Path)
	}
	for _, dep := range module.DependsOn {
		if dep.Path == e.Dependency {
			return nil
		}
	}
	module.DependsOn = append(module.DependsOn, DependencyConfig{Path: e.Dependency})
	return nil
}

func (e RemoveDependency) apply(cfg *ProjectConfig) error {
	module := cfg.Module(e.Path)
	if module == nil {
		return fmt.Errorf("%w: %q", ErrEditModuleNotFound, e.Path)
	}
	for i, dep := range module.DependsOn {
		if dep.Path != e.Dependency {
			continue
		}
		module.DependsOn = append(module.DependsOn[:i], module.DependsOn[i+1:]...)
		return nil
	}
	return fmt.Errorf("%w: %q does not depend on %q", ErrNotApplicable, e.Path, e.Dependency)
}

// Editor queues config edits and applies them in one
// decode-mutate-encode-write pass.
type Editor struct {
	configPath string
	pending    []ConfigEdit
}

func NewEditor(configPath string) *Editor {
	return &Editor{configPath: configPath}
}

func (e *Editor) Enqueue(edit ConfigEdit) {
	e.pending = append(e.pending, edit)
}

func (e *Editor) Pending() int {
	return len(e.pending)
}

// Apply runs every queued edit against the config file. The queue is cleared
// only on success; a failed edit leaves the file untouched.
func (e *Editor) Apply() error {
	if len(e.pending) == 0 {
		return nil
	}

	data, err := os.ReadFile(e.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigDoesNotExist, e.configPath)
		}
		return fmt.Errorf("reading config: %w", err)
	}

	cfg, err := decode(string(data))
	if err != nil {
		return err
	}

	for _, edit := range e.pending {
		if err := edit.apply(cfg); err != nil {
			return err
		}
	}

	content, err := Dump(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(e.configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	e.pending = nil
	return nil
}
