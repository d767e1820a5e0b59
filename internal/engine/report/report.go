// # internal/engine/report/report.go

// Package report builds dependency and usage reports for a single module
// relative to the rest of the project.
package report

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"fence/internal/core/config"
	"fence/internal/core/errors"
	"fence/internal/core/exclusion"
	"fence/internal/core/filesystem"
	"fence/internal/core/interrupt"
	"fence/internal/engine/imports"
	"fence/internal/engine/modules"
	"fence/internal/shared/observability"
)

// ErrNothingToReport is returned when both report sections are suppressed.
var ErrNothingToReport = stderrors.New("Nothing to report when skipping dependencies and usages.")

// Options selects the report target and filters its two sections.
type Options struct {
	// TargetPath is a file or package path relative to the project root.
	TargetPath string

	// IncludeDependencyModules restricts the dependencies section to the
	// listed module paths. Empty means no filter.
	IncludeDependencyModules []string

	// IncludeUsageModules restricts the usages section to the listed
	// module paths. Empty means no filter.
	IncludeUsageModules []string

	SkipDependencies bool
	SkipUsages       bool

	// Raw emits machine-readable module lists instead of the formatted
	// report.
	Raw bool
}

type reporter struct {
	projectRoot string
	sourceRoots []string
	cfg         *config.ProjectConfig
	tree        *modules.ModuleTree

	// targetModPath is the dotted path derived from Options.TargetPath;
	// target is its nearest containing module.
	targetModPath string
	target        *modules.ModuleNode

	opts Options
}

// fileResult carries one worker's findings for a single file.
type fileResult struct {
	dependencies []dependency
	usages       []dependency
	warning      string
}

// Create renders the dependency/usage report for opts.TargetPath. The scan
// fans out per source root across a worker pool; results merge only after
// each pool drains, so interruption never yields a partial report.
func Create(ctx context.Context, projectRoot string, cfg *config.ProjectConfig, opts Options) (string, error) {
	if opts.SkipDependencies && opts.SkipUsages {
		return "", ErrNothingToReport
	}

	ctx, span := observability.Tracer.Start(ctx, "report.Create")
	defer span.End()
	start := time.Now()
	defer func() {
		observability.ReportDuration.Observe(time.Since(start).Seconds())
	}()

	sourceRoots := cfg.AbsoluteSourceRoots(projectRoot)
	valid, _ := filesystem.ValidateProjectModules(sourceRoots, cfg.Modules)

	if err := interrupt.Check(ctx); err != nil {
		return "", err
	}

	// Cycle and root-module checks stay off for reports.
	tree, err := modules.Build(sourceRoots, valid, config.RootModuleAllow, false)
	if err != nil {
		return "", err
	}

	targetModPath, err := filesystem.FileToModulePath(sourceRoots, filepath.Join(projectRoot, opts.TargetPath))
	if err != nil {
		return "", err
	}
	target := tree.FindNearest(targetModPath)
	if target == nil {
		return "", errors.New(errors.CodeModuleValidation,
			fmt.Sprintf("Module '%s' not found in project.", targetModPath))
	}

	if err := exclusion.Set(projectRoot, cfg.Exclude, cfg.UseRegexMatching); err != nil {
		return "", err
	}

	r := &reporter{
		projectRoot:   projectRoot,
		sourceRoots:   sourceRoots,
		cfg:           cfg,
		tree:          tree,
		targetModPath: targetModPath,
		target:        target,
		opts:          opts,
	}

	rep := newDependencyReport(opts.TargetPath)
	for _, sourceRoot := range sourceRoots {
		if err := interrupt.Check(ctx); err != nil {
			return "", err
		}
		if err := r.scanSourceRoot(ctx, sourceRoot, rep); err != nil {
			return "", err
		}
	}

	return rep.render(opts.SkipDependencies, opts.SkipUsages, opts.Raw), nil
}

// scanSourceRoot walks one source root and distributes its files across
// NumCPU workers. The merge into rep runs single-threaded after the pool
// has drained.
func (r *reporter) scanSourceRoot(ctx context.Context, sourceRoot string, rep *dependencyReport) error {
	files, err := filesystem.WalkPythonFiles(sourceRoot, r.cfg.HiddenPathsExcluded())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}

	jobs := make(chan string)
	results := make(chan fileResult, len(files))

	var wg sync.WaitGroup
	for i := 0; i < runtime.NumCPU(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for relPath := range jobs {
				results <- r.processFile(ctx, sourceRoot, relPath)
			}
		}()
	}

	for _, relPath := range files {
		jobs <- relPath
	}
	close(jobs)
	wg.Wait()
	close(results)

	if err := interrupt.Check(ctx); err != nil {
		return err
	}

	for res := range results {
		rep.dependencies = append(rep.dependencies, res.dependencies...)
		rep.usages = append(rep.usages, res.usages...)
		if res.warning != "" {
			rep.warnings = append(rep.warnings, res.warning)
		}
	}
	return nil
}

// processFile classifies one file as inside or outside the target subtree
// and collects the matching dependency or usage records. Files whose path
// cannot be mapped to a module are skipped; extraction failures surface as
// report warnings.
func (r *reporter) processFile(ctx context.Context, sourceRoot, relPath string) fileResult {
	if interrupt.Check(ctx) != nil {
		return fileResult{}
	}

	absPath := filepath.Join(sourceRoot, relPath)
	fileModPath, err := filesystem.FileToModulePath(r.sourceRoots, absPath)
	if err != nil {
		return fileResult{}
	}
	fileModule := r.tree.FindNearest(fileModPath)

	projectImports, err := imports.GetProjectImports(r.sourceRoots, absPath,
		r.cfg.IgnoreTypeChecking(), r.cfg.IncludeStringImports)
	if err != nil {
		return fileResult{warning: err.Error()}
	}

	displayPath := absPath
	if rel, err := filepath.Rel(r.projectRoot, absPath); err == nil {
		displayPath = rel
	}

	var res fileResult
	inTarget := isModulePrefix(r.targetModPath, fileModPath)
	switch {
	case inTarget && !r.opts.SkipDependencies:
		for _, imp := range projectImports {
			importModule := r.tree.FindNearest(imp.ModulePath)
			if importModule == nil || importModule == r.target {
				continue
			}
			if !moduleIncluded(r.opts.IncludeDependencyModules, importModule.FullPath) {
				continue
			}
			res.dependencies = append(res.dependencies, dependency{
				filePath:     displayPath,
				absolutePath: absPath,
				lineNo:       imp.LineNo,
				importPath:   imp.ModulePath,
				sourceModule: r.target.FullPath,
				targetModule: importModule.FullPath,
			})
		}
	case !inTarget && !r.opts.SkipUsages:
		for _, imp := range projectImports {
			if !isModulePrefix(r.targetModPath, imp.ModulePath) {
				continue
			}
			if fileModule == nil {
				continue
			}
			if !moduleIncluded(r.opts.IncludeUsageModules, fileModule.FullPath) {
				continue
			}
			res.usages = append(res.usages, dependency{
				filePath:     displayPath,
				absolutePath: absPath,
				lineNo:       imp.LineNo,
				importPath:   imp.ModulePath,
				sourceModule: fileModule.FullPath,
				targetModule: r.target.FullPath,
			})
		}
	}
	return res
}

// isModulePrefix reports whether fullPath equals prefix or is a
// segment-aligned descendant of it.
func isModulePrefix(prefix, fullPath string) bool {
	if len(fullPath) < len(prefix) || fullPath[:len(prefix)] != prefix {
		return false
	}
	return len(fullPath) == len(prefix) || fullPath[len(prefix)] == '.'
}

func moduleIncluded(filter []string, modPath string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, m := range filter {
		if m == modPath {
			return true
		}
	}
	return false
}
