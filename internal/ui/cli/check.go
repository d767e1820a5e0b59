package cli

import (
	"context"

	"github.com/spf13/cobra"

	"fence/internal/engine/check"
	"fence/internal/shared/observability"
)

var (
	excludeFlag []string
	watchFlag   bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check imports against the declared module boundaries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectRoot, configPath, cfg, err := loadProject()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		shutdown, err := observability.InitTracer(ctx, cfg.Observability.OTLPEndpoint)
		if err != nil {
			return err
		}
		defer func() { _ = shutdown(context.Background()) }()

		if watchFlag {
			return runWatch(ctx, cmd, projectRoot, configPath, cfg)
		}

		diagnostics, err := check.Run(ctx, projectRoot, cfg, excludeFlag)
		if err != nil {
			return err
		}
		printDiagnostics(cmd.OutOrStdout(), projectRoot, diagnostics)
		if diagnostics.HasErrors() {
			return errViolationsFound
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringSliceVar(&excludeFlag, "exclude", nil,
		"Additional paths to exclude from the scan")
	checkCmd.Flags().BoolVar(&watchFlag, "watch", false,
		"Re-run the check when source files change")
	rootCmd.AddCommand(checkCmd)
}
