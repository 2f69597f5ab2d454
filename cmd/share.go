package cmd

import (
	"fmt"

	"provmgr/internal/importer"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(shareCmd)
	shareCmd.Flags().Bool("include-key", false, "include the API key in the link")
}

var shareCmd = &cobra.Command{
	Use:   "share <id>",
	Short: "Print a share link for a source",
	Long: `Print a link that 'provmgr import' accepts.

The API key is left out unless --include-key is given. Anyone holding a link
with a key can use it.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		src, err := resolveSource(a.reg, args[0])
		if err != nil {
			return err
		}
		includeKey, _ := cmd.Flags().GetBool("include-key")
		link, err := importer.ShareLink(a.opts.ShareBase, src, includeKey)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), link)
		return nil
	}),
}
