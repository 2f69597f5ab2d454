package cmd

import (
	"errors"
	"fmt"
	"strings"

	"provmgr/config/models"
	"provmgr/config/validation"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EditFlags represents the command line flags for edit command.
// Nil fields were not given.
type EditFlags struct {
	Name     *string
	Provider *string
	Model    *string
	BaseURL  *string
	APIKey   *string
	ClearKey bool
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().String("name", "", "change the source name")
	editCmd.Flags().String("provider", "", "change the provider")
	editCmd.Flags().String("model", "", "change the model name")
	editCmd.Flags().String("url", "", "change the base URL (empty restores the provider default)")
	editCmd.Flags().String("key", "", "change the API key")
	editCmd.Flags().Bool("clear-key", false, "remove the API key")
	editCmd.MarkFlagsMutuallyExclusive("key", "clear-key")
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a source",
	Long: `Edit the fields of a saved source. Only the given flags are changed.

Examples:
  # Change the API key
  provmgr edit work --key sk-xxx

  # Change several fields
  provmgr edit work --model gpt-4o --url https://proxy.example.com/v1

  # Restore the provider default endpoint
  provmgr edit work --url ""`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		src, err := resolveSource(a.reg, args[0])
		if err != nil {
			return err
		}

		patch, err := readEditFlags(cmd.Flags()).Patch()
		if err != nil {
			return err
		}
		if err := validation.NewValidator().ValidatePatch(patch); err != nil {
			return err
		}

		a.reg.UpdateSource(src.ID, patch)
		updated, _ := a.reg.Source(src.ID)
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Source updated: "+updated.Name))
		return nil
	}),
}

func readEditFlags(flags *pflag.FlagSet) EditFlags {
	var ef EditFlags
	get := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	ef.Name = get("name")
	ef.Provider = get("provider")
	ef.Model = get("model")
	ef.BaseURL = get("url")
	ef.APIKey = get("key")
	ef.ClearKey, _ = flags.GetBool("clear-key")
	return ef
}

// Patch converts the flags into a registry patch.
func (ef EditFlags) Patch() (models.SourcePatch, error) {
	var p models.SourcePatch
	if ef.Name != nil {
		name := strings.TrimSpace(*ef.Name)
		p.Name = &name
	}
	if ef.Provider != nil {
		provider := models.NormalizeProvider(*ef.Provider)
		p.Provider = &provider
	}
	if ef.Model != nil {
		model := strings.TrimSpace(*ef.Model)
		p.Model = &model
	}
	if ef.BaseURL != nil {
		url := strings.TrimSpace(*ef.BaseURL)
		p.BaseURL = &url
	}
	switch {
	case ef.ClearKey:
		empty := ""
		p.APIKey = &empty
	case ef.APIKey != nil:
		key := strings.TrimSpace(*ef.APIKey)
		p.APIKey = &key
	}

	if p == (models.SourcePatch{}) {
		return p, errors.New("nothing to change, pass at least one flag")
	}
	return p, nil
}
