// Package cli implements the buildmill command surface. Commands translate
// flags into the option accessor consumed by the orchestration core and
// hand task lists to the chain runner; they never run build work directly.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "buildmill",
	Short: "buildmill - multi-stage build pipeline orchestrator",
	Long: `buildmill orchestrates the multi-stage build pipeline of a client
application workspace: per-target config files, core assets, themes,
manifests, and distributable packages.

Tasks are grouped into namespaces (build, config, generate) and can be
extended by Lua plugins dropped into the workspace plugins directory.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("buildmill %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
