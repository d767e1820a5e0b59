package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fence/internal/core/config"
	"fence/internal/core/interrupt"
	"fence/internal/shared/observability"
	"fence/internal/ui/render"
)

const versionString = "0.1.0"

var (
	configFlag  string
	verboseFlag bool
	noColorFlag bool
)

// errViolationsFound maps a failed check to exit code 1 without reprinting
// diagnostics that are already on screen.
var errViolationsFound = stderrors.New("boundary violations found")

var rootCmd = &cobra.Command{
	Use:           "fence",
	Short:         "Enforce module boundaries in Python projects",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		observability.SetupLogging(verboseFlag)
		render.SetColorEnabled(!noColorFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"Path to fence.toml (default: search upward from the working directory)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
}

// Execute runs the CLI and returns the process exit code. Exit code mapping
// lives here and nowhere else.
func Execute() int {
	ctx, stop := interrupt.Setup()
	defer stop()
	return exitCode(rootCmd.ExecuteContext(ctx))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, errViolationsFound):
		return 1
	case interrupt.Interrupted(err):
		fmt.Fprintln(os.Stderr, render.Warning("Interrupted."))
		return 1
	default:
		fmt.Fprintln(os.Stderr, render.Error(err.Error()))
		return 1
	}
}

// loadProject resolves the project root and parses its configuration, either
// from --config or by searching upward from the working directory.
func loadProject() (projectRoot, configPath string, cfg *config.ProjectConfig, err error) {
	if configFlag != "" {
		configPath, err = filepath.Abs(configFlag)
		if err != nil {
			return "", "", nil, err
		}
		projectRoot = filepath.Dir(configPath)
	} else {
		cwd, wdErr := os.Getwd()
		if wdErr != nil {
			return "", "", nil, wdErr
		}
		configPath, projectRoot, err = config.Find(cwd)
		if err != nil {
			return "", "", nil, err
		}
	}

	cfg, err = config.Load(configPath)
	if err != nil {
		return "", "", nil, fmt.Errorf("loading %s: %w", configPath, err)
	}
	return projectRoot, configPath, cfg, nil
}
