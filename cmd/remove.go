package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a source",
	Long:  "Remove the source with the given id or name. Removing the active source activates the first remaining one.",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		src, err := resolveSource(a.reg, args[0])
		if err != nil {
			return err
		}
		wasActive := a.reg.ActiveSourceID() == src.ID
		a.reg.RemoveSource(src.ID)

		fmt.Fprintf(cmd.OutOrStdout(), "Source removed: %s\n", src.Name)
		if wasActive {
			if active, ok := a.reg.ActiveSource(); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Active source is now: %s\n", active.Name)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "No sources left")
			}
		}
		return nil
	}),
}
