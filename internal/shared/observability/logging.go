package observability

import (
	"log/slog"
	"os"
)

// SetupLogging installs the default text logger on stderr. Verbose switches
// the level to debug.
func SetupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
