package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <task-list>",
	Short: "Run generator tasks (manifest, icons, fonts)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Runner == nil {
			return fmt.Errorf("pipeline not initialized")
		}
		_, err := Runner.Run(cmd.Context(), "generate", args[0], flagOptions{cmd})
		return err
	},
}

func init() {
	generateCmd.Flags().String("targets", "", "Comma-separated dist targets (default: all configured targets)")
	rootCmd.AddCommand(generateCmd)
}
