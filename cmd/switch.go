package cmd

import (
	"fmt"

	"provmgr/internal/utils"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(switchCmd)
}

var switchCmd = &cobra.Command{
	Use:   "switch [id]",
	Short: "Switch the active source",
	Long: `Make the source with the given id or name the active one.

  provmgr switch work
  provmgr switch 0191f5c2-...`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		src, err := resolveSource(a.reg, args[0])
		if err != nil {
			return err
		}
		a.reg.SetActiveSource(src.ID)

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, successStyle.Render("Switched to: "+src.Name))
		fmt.Fprintf(out, "  Provider: %s\n  Model: %s\n  Key: %s\n", src.Provider, src.Model, utils.MaskOptionalKey(src.APIKey))
		if !src.HasKey() {
			fmt.Fprintln(out, warnStyle.Render("This source has no API key yet, run 'provmgr init' to set one."))
		}
		return nil
	}),
}
