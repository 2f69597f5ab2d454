package cmd

import (
	"fmt"

	"provmgr/config/models"
	"provmgr/internal/registry"

	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable [id]",
	Short: "Enable a source",
	Long:  "Mark the source with the given id or name as enabled.",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		return runSetEnabled(a.reg, cmd, args[0], true)
	}),
}

func init() {
	rootCmd.AddCommand(enableCmd)
}

// setEnabled flips the enabled flag and returns the updated source.
func setEnabled(reg *registry.Registry, ref string, enabled bool) (models.Source, error) {
	src, err := resolveSource(reg, ref)
	if err != nil {
		return models.Source{}, err
	}
	reg.UpdateSource(src.ID, models.SourcePatch{Enabled: &enabled})
	src, _ = reg.Source(src.ID)
	return src, nil
}

func runSetEnabled(reg *registry.Registry, cmd *cobra.Command, ref string, enabled bool) error {
	src, err := setEnabled(reg, ref, enabled)
	if err != nil {
		return err
	}
	state := "disabled"
	if src.Enabled {
		state = "enabled"
	}
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Source %s: %s", state, src.Name)))
	return nil
}
