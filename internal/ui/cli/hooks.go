package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"fence/internal/core/hooks"
	"fence/internal/ui/render"
)

var installHooksCmd = &cobra.Command{
	Use:   "install-hooks",
	Short: "Install the git pre-commit hook running 'fence check'",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectRoot, _, _, err := loadProject()
		if err != nil {
			return err
		}
		hookPath, err := hooks.Install(filepath.Join(projectRoot, ".git"))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.OK(fmt.Sprintf("Installed %s", hookPath)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installHooksCmd)
}
