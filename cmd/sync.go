package cmd

import (
	"fmt"

	"provmgr/config/sync"
	"provmgr/internal/route"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().Bool("dry-run", false, "print the result without writing")
	syncCmd.Flags().String("section", sync.DefaultSection, "top-level key the source is written under")
	syncCmd.Flags().Bool("no-backup", false, "do not back up the settings file")
	syncCmd.Flags().Bool("replace", false, "drop unmanaged keys inside the section")
}

var syncCmd = &cobra.Command{
	Use:   "sync <settings.json>",
	Short: "Write the active source into a JSON settings file",
	Long: `Write the active source into another tool's JSON settings file.

Only <section>.provider, <section>.model, <section>.baseUrl and
<section>.apiKey are changed. Every other field is kept byte for byte.
The previous file is backed up unless --no-backup is given.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		if _, err := route.RequireKey(a.reg, route.Home); err != nil {
			return fmt.Errorf("%w, run 'provmgr init' first", err)
		}
		src, _ := a.reg.ActiveSource()

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		section, _ := cmd.Flags().GetString("section")
		noBackup, _ := cmd.Flags().GetBool("no-backup")
		replace, _ := cmd.Flags().GetBool("replace")

		updated, err := sync.SyncFile(args[0], src, sync.SyncOptions{
			Section:       section,
			DryRun:        dryRun,
			CreateBackup:  !noBackup,
			PreserveOther: !replace,
		})
		if err != nil {
			return err
		}

		if dryRun {
			fmt.Fprintln(cmd.OutOrStdout(), updated)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Synced %s to %s", src.Name, args[0])))
		return nil
	}),
}
