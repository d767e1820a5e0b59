package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"fence/internal/engine/check"
	"fence/internal/ui/render"
)

// printDiagnostics writes one line per finding: process warnings and
// deprecated imports in yellow, hard violations in red, each violation
// prefixed with a clickable file link. A run without hard violations ends
// with the success line.
func printDiagnostics(w io.Writer, projectRoot string, diagnostics *check.CheckDiagnostics) {
	for _, warning := range diagnostics.Warnings {
		fmt.Fprintln(w, render.Warning(warning))
	}
	for _, boundaryError := range diagnostics.DeprecatedWarnings {
		fmt.Fprintln(w, renderBoundaryError(projectRoot, boundaryError, render.Warning))
	}
	for _, boundaryError := range diagnostics.Errors {
		fmt.Fprintln(w, renderBoundaryError(projectRoot, boundaryError, render.Error))
	}
	if !diagnostics.HasErrors() {
		fmt.Fprintln(w, render.OK("All modules validated!"))
	}
}

func renderBoundaryError(projectRoot string, boundaryError check.BoundaryError, paint func(string) string) string {
	absPath := filepath.Join(projectRoot, boundaryError.FilePath)
	link := render.ClickableLink(boundaryError.FilePath, absPath, boundaryError.LineNo)
	return paint(link) + ": " + paint(boundaryError.Violation.Error())
}
