// # internal/engine/check/run.go
package check

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"fence/internal/core/config"
	"fence/internal/core/exclusion"
	"fence/internal/core/filesystem"
	"fence/internal/core/interrupt"
	"fence/internal/engine/imports"
	"fence/internal/engine/modules"
	"fence/internal/shared/observability"
)

// Run checks every project import under the configured source roots against
// the declared module boundaries. Violations accumulate in the returned
// diagnostics; only configuration and build failures, walk failures and
// interruption abort the run.
func Run(ctx context.Context, projectRoot string, cfg *config.ProjectConfig, excludePaths []string) (*CheckDiagnostics, error) {
	ctx, span := observability.Tracer.Start(ctx, "check.Run")
	defer span.End()
	start := time.Now()
	defer func() {
		observability.CheckDuration.Observe(time.Since(start).Seconds())
	}()

	diagnostics := &CheckDiagnostics{}
	sourceRoots := cfg.AbsoluteSourceRoots(projectRoot)

	valid, invalid := filesystem.ValidateProjectModules(sourceRoots, cfg.Modules)
	for _, m := range invalid {
		diagnostics.Warnings = append(diagnostics.Warnings,
			fmt.Sprintf("Module '%s' not found. It will be ignored.", m.Path))
	}

	tree, err := modules.Build(sourceRoots, valid, cfg.RootModuleTreatment(), cfg.ForbidCircularDependencies)
	if err != nil {
		return nil, err
	}

	exclude := append(append([]string{}, cfg.Exclude...), excludePaths...)
	if err := exclusion.Set(projectRoot, exclude, cfg.UseRegexMatching); err != nil {
		return nil, err
	}

	foundImports := false
	for _, root := range sourceRoots {
		if err := interrupt.Check(ctx); err != nil {
			return nil, err
		}
		files, err := filesystem.WalkPythonFiles(root, cfg.HiddenPathsExcluded())
		if err != nil {
			return nil, err
		}
		for _, relPath := range files {
			absPath := filepath.Join(root, relPath)
			excluded, err := exclusion.IsExcluded(absPath)
			if err != nil {
				return nil, err
			}
			if excluded {
				continue
			}
			observability.FilesScanned.Inc()

			filePath := absPath
			if rel, relErr := filepath.Rel(projectRoot, absPath); relErr == nil {
				filePath = rel
			}

			modPath, err := filesystem.FileToModulePath(sourceRoots, absPath)
			if err != nil {
				return nil, err
			}
			if modPath == "" {
				modPath = config.RootModule
			}
			nearest := tree.FindNearest(modPath)
			if nearest == nil {
				continue
			}

			projectImports, err := imports.GetProjectImports(sourceRoots, absPath, cfg.IgnoreTypeChecking(), cfg.IncludeStringImports)
			if err != nil {
				var parseErr *imports.ParseError
				if stderrors.As(err, &parseErr) {
					switch parseErr.Kind {
					case imports.FailureParsing:
						slog.Warn("skipping file due to a syntax error", "path", filePath)
					case imports.FailureFilesystem:
						slog.Warn("skipping file due to an I/O error", "path", filePath, "error", parseErr.Err)
					case imports.FailureExclusion:
						slog.Warn("skipping file, failed to check whether the path is excluded", "path", filePath, "error", parseErr.Err)
					}
					continue
				}
				return nil, err
			}

			for _, imp := range projectImports {
				foundImports = true
				observability.ImportsChecked.Inc()

				violation := CheckImport(tree, imp.ModulePath, modPath, nearest)
				if violation == nil {
					continue
				}
				observability.BoundaryViolations.WithLabelValues(violation.Kind()).Inc()

				boundary := BoundaryError{
					FilePath:      filePath,
					LineNo:        imp.LineNo,
					ImportModPath: imp.ModulePath,
					Violation:     violation,
				}
				if violation.IsDeprecated() {
					diagnostics.DeprecatedWarnings = append(diagnostics.DeprecatedWarnings, boundary)
				} else {
					diagnostics.Errors = append(diagnostics.Errors, boundary)
				}
			}
		}
	}

	if !foundImports {
		diagnostics.Warnings = append(diagnostics.Warnings,
			"No first-party imports were found. You may need to use 'fence mod' to update your source roots.")
	}
	return diagnostics, nil
}
