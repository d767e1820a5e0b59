package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fence/internal/core/config"
	"fence/internal/core/watcher"
	"fence/internal/engine/check"
	"fence/internal/shared/observability"
	"fence/internal/ui/render"
)

// runWatch runs one check up front, then re-runs it whenever the watcher
// reports source changes. The config is reloaded on every pass so edits to
// fence.toml take effect without a restart.
func runWatch(ctx context.Context, cmd *cobra.Command, projectRoot, configPath string, cfg *config.ProjectConfig) error {
	if addr := cfg.Observability.MetricsAddr; addr != "" {
		server := observability.NewObservabilityServer(addr)
		if err := server.Start(ctx); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = server.Stop(shutdownCtx)
		}()
	}

	out := cmd.OutOrStdout()
	rescan := func(ctx context.Context) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading %s: %w", configPath, err)
		}
		diagnostics, err := check.Run(ctx, projectRoot, cfg, excludeFlag)
		if err != nil {
			return err
		}
		printDiagnostics(out, projectRoot, diagnostics)
		return nil
	}

	// The first pass also seeds the exclusion registry the watcher filters
	// against.
	if err := rescan(ctx); err != nil {
		return err
	}

	w, err := watcher.New(watcher.Config{
		SourceRoots: cfg.AbsoluteSourceRoots(projectRoot),
		Debounce:    cfg.Watch.Debounce,
		SkipHidden:  cfg.HiddenPathsExcluded(),
	})
	if err != nil {
		return err
	}
	defer w.Close()

	fmt.Fprintln(out, render.Info("Watching for changes. Press Ctrl-C to stop."))
	return w.Run(ctx, rescan)
}
