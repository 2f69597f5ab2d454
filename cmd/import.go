package cmd

import (
	"errors"
	"fmt"
	"io"

	"provmgr/internal/importer"
	"provmgr/internal/route"
	"provmgr/internal/tui"
	"provmgr/internal/utils"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolP("yes", "y", false, "import without asking")
	importCmd.Flags().Bool("no-tui", false, "never open the interactive confirmation")
}

var importCmd = &cobra.Command{
	Use:   "import <link>",
	Short: "Import a shared source",
	Long: `Import a source from a share link or its fragment.

The source is shown for confirmation first. After importing, the interactive
view lets you undo, open the source list or go home.

  provmgr import 'provmgr://import#%7B%22name%22...'
  provmgr import --yes '%7B%22name%22...'`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		flow, err := importer.Start(a.reg, importer.Fragment(args[0]), a.logger)
		if errors.Is(err, importer.ErrNoPayload) {
			fmt.Fprintf(out, "Nothing to import, going to %s\n", route.ImportFallback())
			return nil
		}
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		noTUI, _ := cmd.Flags().GetBool("no-tui")
		if !yes && !noTUI && isTerminal() {
			_, err := tui.RunImport(a.reg, a.prefs, flow, a.logger)
			return err
		}
		return importNonInteractive(out, flow, yes)
	}),
}

// importNonInteractive prints the draft and commits it only when yes is set.
func importNonInteractive(w io.Writer, flow *importer.Flow, yes bool) error {
	defer flow.Finalize()

	if flow.State() == importer.ParseError {
		return flow.Err()
	}

	d := flow.Draft()
	fmt.Fprintln(w, "Shared source:")
	fmt.Fprintf(w, "  Name: %s\n  Provider: %s\n  Model: %s\n  Base URL: %s\n  API Key: %s\n",
		d.Name, d.Provider, d.Model, d.BaseURL, utils.MaskOptionalKey(d.Key))

	if !yes {
		fmt.Fprintln(w, dimStyle.Render("\nRe-run with --yes to import it."))
		return nil
	}
	id, err := flow.Confirm()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("Imported: %s (%s)", d.Name, id)))
	return nil
}
