package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config <task-list>",
	Short: "Edit the workspace configuration",
	Long: `Run configuration tasks against the persisted workspace config.

Available tasks: set, add-mount, add-preload, add-repository,
remove-repository, add-overlay, enable-package, disable-package,
list-packages. Examples:

  buildmill config set --key system.timezone --value Europe/Berlin
  buildmill config add-mount --name docs --path ../docs/public
  buildmill config enable-package --name vendor/app
  buildmill config list-packages`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Runner == nil {
			return fmt.Errorf("pipeline not initialized")
		}
		_, err := Runner.Run(cmd.Context(), "config", args[0], flagOptions{cmd})
		return err
	},
}

func init() {
	configCmd.Flags().String("key", "", "Dotted config key (for set)")
	configCmd.Flags().String("value", "", "Config value (for set)")
	configCmd.Flags().String("name", "", "Mount, repository, or package name")
	configCmd.Flags().String("path", "", "Filesystem path (for mounts, preloads, overlays)")
	configCmd.Flags().String("url", "", "Repository URL (for add-repository)")
	rootCmd.AddCommand(configCmd)
}
