package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"fence/internal/core/errors"
)

// DefaultConfigName is the project configuration file fence looks for.
const DefaultConfigName = "fence.toml"

// RootModule is the sentinel path addressing the root package of a source
// root. It can appear in module declarations and depends_on lists subject to
// the configured root module treatment.
const RootModule = "<root>"

type RootModuleTreatment string

const (
	RootModuleAllow            RootModuleTreatment = "allow"
	RootModuleForbid           RootModuleTreatment = "forbid"
	RootModuleIgnore           RootModuleTreatment = "ignore"
	RootModuleDependenciesOnly RootModuleTreatment = "dependenciesonly"
)

type ProjectConfig struct {
	SourceRoots                []string       `toml:"source_roots"`
	Exclude                    []string       `toml:"exclude"`
	Modules                    []ModuleConfig `toml:"modules"`
	UseRegexMatching           bool           `toml:"use_regex_matching"`
	IgnoreTypeCheckingImports  *bool          `toml:"ignore_type_checking_imports"`
	IncludeStringImports       bool           `toml:"include_string_imports"`
	ForbidCircularDependencies bool           `toml:"forbid_circular_dependencies"`
	ExcludeHiddenPaths         *bool          `toml:"exclude_hidden_paths"`
	RootModule                 string         `toml:"root_module"`
	Watch                      Watch          `toml:"watch"`
	Observability              Observability  `toml:"observability"`
}

type ModuleConfig struct {
	Path             string             `toml:"path"`
	DependsOn        []DependencyConfig `toml:"depends_on"`
	Strict           bool               `toml:"strict"`
	Utility          bool               `toml:"utility"`
	InterfaceMembers []string           `toml:"interface_members"`
}

// DependencyConfig is one depends_on entry. TOML accepts either a bare
// string ("core") or a table ({ path = "core", deprecated = true }).
type DependencyConfig struct {
	Path       string `toml:"path"`
	Deprecated bool   `toml:"deprecated"`
}

func (d *DependencyConfig) UnmarshalTOML(data interface{}) error {
	switch v := data.(type) {
	case string:
		d.Path = v
		d.Deprecated = false
		return nil
	case map[string]interface{}:
		path, ok := v["path"].(string)
		if !ok {
			return fmt.Errorf("depends_on table entry requires a string 'path'")
		}
		d.Path = path
		if deprecated, ok := v["deprecated"]; ok {
			b, ok := deprecated.(bool)
			if !ok {
				return fmt.Errorf("depends_on 'deprecated' must be a boolean")
			}
			d.Deprecated = b
		}
		return nil
	default:
		return fmt.Errorf("depends_on entries must be a string or a table, got %T", data)
	}
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

func Load(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := decode(string(data))
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigValidation, "invalid project configuration")
	}

	return cfg, nil
}

func decode(data string) (*ProjectConfig, error) {
	var cfg ProjectConfig
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigParse, "parsing "+DefaultConfigName)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func validate(cfg *ProjectConfig) error {
	if err := validateSourceRoots(cfg); err != nil {
		return err
	}
	if err := validateRootModule(cfg); err != nil {
		return err
	}
	return validateModules(cfg)
}

// Default returns the configuration used when no fence.toml overrides are
// present, matching what `fence init` writes.
func Default() *ProjectConfig {
	cfg := &ProjectConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *ProjectConfig) {
	if len(cfg.SourceRoots) == 0 {
		cfg.SourceRoots = []string{"."}
	}
	if cfg.Exclude == nil {
		cfg.Exclude = []string{"tests", "docs", "**/__pycache__", "**/*.egg-info"}
	}
	if strings.TrimSpace(cfg.RootModule) == "" {
		cfg.RootModule = string(RootModuleIgnore)
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
}

// IgnoreTypeChecking reports whether imports guarded by TYPE_CHECKING blocks
// are skipped. Defaults to true when unset.
func (c *ProjectConfig) IgnoreTypeChecking() bool {
	if c.IgnoreTypeCheckingImports == nil {
		return true
	}
	return *c.IgnoreTypeCheckingImports
}

// HiddenPathsExcluded reports whether dotted directories are skipped during
// walks. Defaults to true when unset.
func (c *ProjectConfig) HiddenPathsExcluded() bool {
	if c.ExcludeHiddenPaths == nil {
		return true
	}
	return *c.ExcludeHiddenPaths
}

func (c *ProjectConfig) RootModuleTreatment() RootModuleTreatment {
	treatment := RootModuleTreatment(strings.ToLower(strings.TrimSpace(c.RootModule)))
	if treatment == "" {
		return RootModuleIgnore
	}
	return treatment
}

// AbsoluteSourceRoots joins every configured source root onto the project
// root.
func (c *ProjectConfig) AbsoluteSourceRoots(projectRoot string) []string {
	roots := make([]string, 0, len(c.SourceRoots))
	for _, root := range c.SourceRoots {
		if filepath.IsAbs(root) {
			roots = append(roots, filepath.Clean(root))
			continue
		}
		roots = append(roots, filepath.Join(projectRoot, root))
	}
	return roots
}

func (c *ProjectConfig) Module(path string) *ModuleConfig {
	for i := range c.Modules {
		if c.Modules[i].Path == path {
			return &c.Modules[i]
		}
	}
	return nil
}

func validateSourceRoots(cfg *ProjectConfig) error {
	for i, root := range cfg.SourceRoots {
		if strings.TrimSpace(root) == "" {
			return fmt.Errorf("source_roots[%d] must not be empty", i)
		}
		if filepath.IsAbs(root) {
			return fmt.Errorf("source_roots[%d] must be relative to the project root, got %q", i, root)
		}
	}
	return nil
}

func validateRootModule(cfg *ProjectConfig) error {
	switch cfg.RootModuleTreatment() {
	case RootModuleAllow, RootModuleForbid, RootModuleIgnore, RootModuleDependenciesOnly:
		return nil
	default:
		return fmt.Errorf("root_module must be one of: allow, forbid, ignore, dependenciesonly; got %q", cfg.RootModule)
	}
}

func validateModules(cfg *ProjectConfig) error {
	seen := make(map[string]bool, len(cfg.Modules))
	for i, module := range cfg.Modules {
		ref := fmt.Sprintf("modules[%d]", i)
		if !IsValidModulePath(module.Path) {
			return fmt.Errorf("%s.path %q is not a valid module path", ref, module.Path)
		}
		if seen[module.Path] {
			return fmt.Errorf("duplicate module path %q", module.Path)
		}
		seen[module.Path] = true

		for j, dep := range module.DependsOn {
			if !IsValidModulePath(dep.Path) {
				return fmt.Errorf("%s.depends_on[%d] %q is not a valid module path", ref, j, dep.Path)
			}
		}
	}
	return nil
}

// IsValidModulePath reports whether path is the root sentinel or a sequence
// of dot-separated identifiers.
func IsValidModulePath(path string) bool {
	if path == RootModule {
		return true
	}
	if path == "" {
		return false
	}
	for _, segment := range strings.Split(path, ".") {
		if !isIdentifier(segment) {
			return false
		}
	}
	return true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		switch {
		case ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z'):
		case ch >= '0' && ch <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Dump encodes the configuration back to TOML.
func Dump(cfg *ProjectConfig) (string, error) {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return "", err
	}
	return sb.String(), nil
}
