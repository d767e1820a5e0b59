package cli

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"fence/internal/core/errors"
	"fence/internal/core/exclusion"
	"fence/internal/ui/modtui"
)

var modCmd = &cobra.Command{
	Use:   "mod",
	Short: "Edit module declarations interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			return errors.New(errors.CodeEditFailed, "fence mod requires an interactive terminal")
		}

		projectRoot, configPath, cfg, err := loadProject()
		if err != nil {
			return err
		}
		if err := exclusion.Set(projectRoot, cfg.Exclude, cfg.UseRegexMatching); err != nil {
			return err
		}
		return modtui.Run(projectRoot, configPath, cfg)
	},
}

func init() {
	rootCmd.AddCommand(modCmd)
}
