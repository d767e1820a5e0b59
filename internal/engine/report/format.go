// # internal/engine/report/format.go
package report

import (
	"fmt"
	"sort"
	"strings"

	"fence/internal/ui/render"
)

// dependency is one recorded edge between the target module and another
// project module, anchored at the import statement that created it.
type dependency struct {
	filePath     string
	absolutePath string
	lineNo       int
	importPath   string
	sourceModule string
	targetModule string
}

type dependencyReport struct {
	path         string
	dependencies []dependency
	usages       []dependency
	warnings     []string
}

func newDependencyReport(path string) *dependencyReport {
	return &dependencyReport{path: path}
}

var sectionDivider = strings.Repeat("-", 31)

func (r *dependencyReport) render(skipDependencies, skipUsages, raw bool) string {
	if raw {
		return r.renderRaw(skipDependencies, skipUsages)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[ Dependency Report for '%s' ]\n%s\n", r.path, sectionDivider)

	if !skipDependencies {
		sortDependencies(r.dependencies)
		body := render.Warning("No dependencies found.")
		if len(r.dependencies) > 0 {
			body = renderEntries(r.dependencies)
		}
		fmt.Fprintf(&b, "[ Dependencies of '%s' ]\n%s\n%s\n", r.path, body, sectionDivider)
	}

	if !skipUsages {
		sortDependencies(r.usages)
		body := render.Warning("No usages found.")
		if len(r.usages) > 0 {
			body = renderEntries(r.usages)
		}
		fmt.Fprintf(&b, "[ Usages of '%s' ]\n%s\n%s\n", r.path, body, sectionDivider)
	}

	if len(r.warnings) > 0 {
		fmt.Fprintf(&b, "[ Warnings ]\n%s", render.Warning(strings.Join(r.warnings, "\n")))
	}
	return b.String()
}

// renderRaw lists the module paths on either side of the recorded edges,
// one per line under a literal section header.
func (r *dependencyReport) renderRaw(skipDependencies, skipUsages bool) string {
	var lines []string

	if !skipDependencies && len(r.dependencies) > 0 {
		lines = append(lines, "# Module Dependencies")
		lines = append(lines, sortedModulePaths(r.dependencies, func(d dependency) string {
			return d.targetModule
		})...)
	}

	if !skipUsages && len(r.usages) > 0 {
		lines = append(lines, "# Module Usages")
		lines = append(lines, sortedModulePaths(r.usages, func(d dependency) string {
			return d.sourceModule
		})...)
	}

	return strings.Join(lines, "\n")
}

func renderEntries(deps []dependency) string {
	lines := make([]string, 0, len(deps))
	for _, d := range deps {
		link := render.ClickableLink(d.filePath, d.absolutePath, d.lineNo)
		lines = append(lines, fmt.Sprintf("%s: %s",
			render.OK(link), render.Info(fmt.Sprintf("Import '%s'", d.importPath))))
	}
	return strings.Join(lines, "\n")
}

func sortDependencies(deps []dependency) {
	sort.SliceStable(deps, func(i, j int) bool {
		if deps[i].filePath != deps[j].filePath {
			return deps[i].filePath < deps[j].filePath
		}
		return deps[i].lineNo < deps[j].lineNo
	})
}

func sortedModulePaths(deps []dependency, pick func(dependency) string) []string {
	paths := make([]string, 0, len(deps))
	for _, d := range deps {
		paths = append(paths, pick(d))
	}
	sort.Strings(paths)

	unique := paths[:0]
	for _, p := range paths {
		if len(unique) == 0 || unique[len(unique)-1] != p {
			unique = append(unique, p)
		}
	}
	return unique
}
