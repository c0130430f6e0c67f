package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build [task-list]",
	Short: "Run the build pipeline or a subset of build tasks",
	Long: `Run build tasks. Without arguments the full default pipeline runs:
config, core, themes, manifest, packages, followed by any build stages
contributed by plugins.

A comma-separated task list restricts the run, e.g.:

  buildmill build config,core --targets dist-dev
  buildmill build package --name vendor/app`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Runner == nil {
			return fmt.Errorf("pipeline not initialized")
		}

		taskList := Assembler.DefaultBuildTaskList()
		if len(args) == 1 {
			taskList = args[0]
		}

		_, err := Runner.Run(cmd.Context(), "build", taskList, flagOptions{cmd})
		return err
	},
}

func init() {
	buildCmd.Flags().String("targets", "", "Comma-separated dist targets (default: all configured targets)")
	buildCmd.Flags().String("name", "", "Qualified package name (vendor/app) for the package task")
	rootCmd.AddCommand(buildCmd)
}
