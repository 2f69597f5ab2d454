package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"provmgr/config/models"
	"provmgr/config/validation"
	"provmgr/internal/providers"
	"provmgr/internal/registry"
	"provmgr/internal/route"

	"github.com/spf13/cobra"
)

var (
	errNoActiveSource = errors.New("no active source, add one with 'provmgr add'")
	errEmptyKey       = errors.New("API key cannot be empty")
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringP("key", "k", "", "API key for the active source")
	initCmd.Flags().StringP("url", "u", "", "API base URL (default: the provider endpoint)")
	initCmd.Flags().String("from", route.Home, "where to continue after setup")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up the active source",
	Long: `Write an API key and base URL to the active source and enable it.

Without --key the key is read interactively. An empty key is rejected and
leaves the source unchanged.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		active, ok := a.reg.ActiveSource()
		if !ok {
			return errNoActiveSource
		}

		key, _ := cmd.Flags().GetString("key")
		url, _ := cmd.Flags().GetString("url")
		from, _ := cmd.Flags().GetString("from")

		if !cmd.Flags().Changed("key") {
			if !isTerminal() {
				return errors.New("interactive input is not available, use: provmgr init --key <key> [--url <url>]")
			}
			reader := bufio.NewReader(os.Stdin)
			fmt.Fprintf(cmd.OutOrStdout(), "API key for %s: ", active.Name)
			line, _ := reader.ReadString('\n')
			key = line
			if !cmd.Flags().Changed("url") {
				fmt.Fprintf(cmd.OutOrStdout(), "API base URL (optional, default %s): ", providers.DefaultBaseURL(active.Provider))
				line, _ = reader.ReadString('\n')
				url = line
			}
		}

		src, err := applySetup(a.reg, key, url)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Setup complete: "+src.Name))
		fmt.Fprintf(cmd.OutOrStdout(), "Continue at %s\n", route.AfterSetup(from))
		return nil
	}),
}

// applySetup writes the trimmed key and base URL to the active source and
// enables it. An empty key changes nothing; an empty URL becomes the
// provider default.
func applySetup(reg *registry.Registry, key, baseURL string) (models.Source, error) {
	src, ok := reg.ActiveSource()
	if !ok {
		return models.Source{}, errNoActiveSource
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return src, errEmptyKey
	}
	baseURL = strings.TrimSpace(baseURL)
	if err := validation.NewInputValidator().ValidateURL(baseURL); err != nil {
		return models.Source{}, err
	}
	if baseURL == "" {
		baseURL = providers.DefaultBaseURL(src.Provider)
	}

	enabled := true
	reg.UpdateSource(src.ID, models.SourcePatch{APIKey: &key, BaseURL: &baseURL, Enabled: &enabled})
	src, _ = reg.Source(src.ID)
	return src, nil
}
