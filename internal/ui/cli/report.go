package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"fence/internal/engine/report"
)

var (
	reportDependenciesFlag []string
	reportUsagesFlag       []string
	skipDependenciesFlag   bool
	skipUsagesFlag         bool
	rawFlag                bool
)

var reportCmd = &cobra.Command{
	Use:   "report <path>",
	Short: "Report the dependencies and usages of the module containing a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectRoot, _, cfg, err := loadProject()
		if err != nil {
			return err
		}

		result, err := report.Create(cmd.Context(), projectRoot, cfg, report.Options{
			TargetPath:               args[0],
			IncludeDependencyModules: reportDependenciesFlag,
			IncludeUsageModules:      reportUsagesFlag,
			SkipDependencies:         skipDependenciesFlag,
			SkipUsages:               skipUsagesFlag,
			Raw:                      rawFlag,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringSliceVar(&reportDependenciesFlag, "dependencies", nil,
		"Restrict the dependency section to these modules")
	reportCmd.Flags().StringSliceVar(&reportUsagesFlag, "usages", nil,
		"Restrict the usage section to these modules")
	reportCmd.Flags().BoolVar(&skipDependenciesFlag, "skip-dependencies", false,
		"Omit the dependency section")
	reportCmd.Flags().BoolVar(&skipUsagesFlag, "skip-usages", false,
		"Omit the usage section")
	reportCmd.Flags().BoolVar(&rawFlag, "raw", false,
		"Print machine-readable module paths only")
	rootCmd.AddCommand(reportCmd)
}
