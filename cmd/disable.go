package cmd

import (
	"github.com/spf13/cobra"
)

var disableCmd = &cobra.Command{
	Use:   "disable [id]",
	Short: "Disable a source",
	Long:  "Mark the source with the given id or name as disabled. A disabled source stays in the list and can still be active.",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		return runSetEnabled(a.reg, cmd, args[0], false)
	}),
}

func init() {
	rootCmd.AddCommand(disableCmd)
}
