// # internal/engine/check/violations.go
package check

import "fmt"

// Violation classifies one rejected or flagged import. Implementations are
// matched with errors.As, never by message text.
type Violation interface {
	error

	// Kind is a stable machine name, used as a metric label.
	Kind() string

	// IsDependencyError reports whether the violation concerns the declared
	// dependency graph rather than resolution or visibility.
	IsDependencyError() bool

	// IsDeprecated reports whether the violation is merely a deprecation
	// and should be routed as a warning instead of an error.
	IsDeprecated() bool
}

// ModuleNotFoundError marks a file whose module path has no configured
// ancestor even though the caller expected one.
type ModuleNotFoundError struct {
	FileModPath string
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("Module containing '%s' not found in project.", e.FileModPath)
}

func (e *ModuleNotFoundError) Kind() string            { return "module_not_found" }
func (e *ModuleNotFoundError) IsDependencyError() bool { return false }
func (e *ModuleNotFoundError) IsDeprecated() bool      { return false }

// ModuleConfigNotFoundError marks a resolved module node without declared
// configuration.
type ModuleConfigNotFoundError struct{}

func (e *ModuleConfigNotFoundError) Error() string {
	return "Could not find module configuration."
}

func (e *ModuleConfigNotFoundError) Kind() string            { return "module_config_not_found" }
func (e *ModuleConfigNotFoundError) IsDependencyError() bool { return false }
func (e *ModuleConfigNotFoundError) IsDeprecated() bool      { return false }

// StrictModeImportError marks an import that bypasses a strict module's
// public interface.
type StrictModeImportError struct {
	ImportModPath           string
	ImportNearestModulePath string
	FileNearestModulePath   string
}

func (e *StrictModeImportError) Error() string {
	return fmt.Sprintf(
		"Module '%s' is in strict mode. Only imports from the public interface of this module are allowed. The import '%s' (in module '%s') is not included in __all__.",
		e.ImportNearestModulePath, e.ImportModPath, e.FileNearestModulePath,
	)
}

func (e *StrictModeImportError) Kind() string            { return "strict_mode_import" }
func (e *StrictModeImportError) IsDependencyError() bool { return false }
func (e *StrictModeImportError) IsDeprecated() bool      { return false }

// InvalidImportError marks an import of a module the importer does not
// declare as a dependency.
type InvalidImportError struct {
	ImportModPath string
	SourceModule  string
	InvalidModule string
}

func (e *InvalidImportError) Error() string {
	return fmt.Sprintf("Cannot import '%s'. Module '%s' cannot depend on '%s'.",
		e.ImportModPath, e.SourceModule, e.InvalidModule)
}

func (e *InvalidImportError) Kind() string            { return "invalid_import" }
func (e *InvalidImportError) IsDependencyError() bool { return true }
func (e *InvalidImportError) IsDeprecated() bool      { return false }

// DeprecatedImportError marks an import of a dependency the importer
// declares as deprecated. Legal, but flagged.
type DeprecatedImportError struct {
	ImportModPath string
	SourceModule  string
	InvalidModule string
}

func (e *DeprecatedImportError) Error() string {
	return fmt.Sprintf("Import '%s' is deprecated. Module '%s' should not depend on '%s'.",
		e.ImportModPath, e.SourceModule, e.InvalidModule)
}

func (e *DeprecatedImportError) Kind() string            { return "deprecated_import" }
func (e *DeprecatedImportError) IsDependencyError() bool { return true }
func (e *DeprecatedImportError) IsDeprecated() bool      { return true }

// BoundaryError ties one violation to the importing file and line.
type BoundaryError struct {
	FilePath      string
	LineNo        int
	ImportModPath string
	Violation     Violation
}

// CheckDiagnostics is the aggregated outcome of one check run.
type CheckDiagnostics struct {
	// Errors are hard violations that should fail the run.
	Errors []BoundaryError

	// DeprecatedWarnings are soft violations: declared but deprecated
	// dependencies that were imported anyway.
	DeprecatedWarnings []BoundaryError

	// Warnings are process-level notices, such as declared modules missing
	// from the filesystem.
	Warnings []string
}

// HasErrors reports whether the run found hard violations.
func (d *CheckDiagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}
