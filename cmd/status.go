package cmd

import (
	"errors"
	"fmt"
	"io"

	"provmgr/config/validation"
	"provmgr/internal/registry"
	"provmgr/internal/route"
	"provmgr/internal/utils"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active source",
	Long:  "Show the active source. Requires the active source to have an API key.",
	Args:  cobra.NoArgs,
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		return writeStatus(cmd.OutOrStdout(), a.reg)
	}),
}

func writeStatus(w io.Writer, reg *registry.Registry) error {
	if loc, err := route.RequireKey(reg, route.Home); err != nil {
		if errors.Is(err, route.ErrSetupRequired) {
			fmt.Fprintln(w, "No usable source configured")
			fmt.Fprintf(w, "\nTip: run 'provmgr init' to set an API key (%s)\n", loc)
		}
		return err
	}

	src, _ := reg.ActiveSource()
	fmt.Fprintln(w, "Active source:")
	fmt.Fprintf(w, "  Name: %s\n", src.Name)
	fmt.Fprintf(w, "  Provider: %s\n", src.Provider)
	fmt.Fprintf(w, "  Model: %s\n", src.Model)
	fmt.Fprintf(w, "  Base URL: %s\n", src.BaseURL)
	fmt.Fprintf(w, "  API Key: %s\n", utils.MaskOptionalKey(src.APIKey))
	if !src.Enabled {
		fmt.Fprintln(w, warnStyle.Render("  This source is disabled"))
	}
	if err := validation.NewValidator().ValidateCredential(src); err != nil {
		fmt.Fprintln(w, warnStyle.Render("  "+err.Error()))
	}
	return nil
}
