package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	namespaceStyle = lipgloss.NewStyle().Bold(true)
	pluginStyle    = lipgloss.NewStyle().Faint(true)
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List all registered tasks by namespace",
	Long: `List every registered task, grouped by namespace. Tasks contributed
by plugins after startup registration are marked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Registry == nil {
			return fmt.Errorf("pipeline not initialized")
		}
		for _, namespace := range Registry.Namespaces() {
			fmt.Println(namespaceStyle.Render(namespace))
			for _, name := range Registry.Names(namespace) {
				if Snapshot.Has(namespace, name) {
					fmt.Printf("  %s\n", name)
				} else {
					fmt.Printf("  %s %s\n", name, pluginStyle.Render("(plugin)"))
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}
