package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fence/internal/core/config"
	"fence/internal/ui/render"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a fence.toml in the current directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		path, err := config.Init(cwd)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.OK(fmt.Sprintf("Created %s", path)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
