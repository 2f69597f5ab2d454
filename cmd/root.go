package cmd

import (
	"github.com/spf13/cobra"
)

// Version information
var (
	version string
	commit  string
	date    string
)

// SetVersionInfo sets the version information
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

var rootCmd = &cobra.Command{
	Use:   "provmgr",
	Short: "AI provider source management tool",
	Long: `A command line tool for managing AI provider sources: API keys, endpoints and models.

Run without a subcommand to open the interactive source list.`,
	SilenceUsage: true,
	RunE:         withApp(runRoot),
}

func init() {
	rootCmd.PersistentFlags().String("home", "", "configuration directory (default $PROVMGR_HOME or the user config dir)")
	rootCmd.PersistentFlags().String("backing", "", "storage backing: file, sqlite or memory")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
}

// Execute executes the root command
func Execute() error {
	rootCmd.Version = version

	rootCmd.SetVersionTemplate(`provmgr {{.Version}}
Commit: ` + commit + `
Date: ` + date + `
`)

	return rootCmd.Execute()
}
