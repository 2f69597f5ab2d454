package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"provmgr/config/models"
	"provmgr/config/validation"
	"provmgr/internal/providers"
	"provmgr/internal/registry"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringP("provider", "p", string(models.ProviderOpenAI), "provider: openai or gemini")
	addCmd.Flags().StringP("model", "m", "", "model name (default: the provider default)")
	addCmd.Flags().StringP("url", "u", "", "API base URL (default: the provider endpoint)")
	addCmd.Flags().StringP("key", "k", "", "API key")
}

var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new source",
	Long: `Add a new provider source

Usage 1: interactive (recommended)
  provmgr add

Usage 2: command line arguments
  provmgr add work --provider openai --key sk-xxx --model gpt-4o`,
	Args: cobra.MaximumNArgs(1),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		var fields models.SourceFields
		if len(args) == 1 {
			provider, _ := cmd.Flags().GetString("provider")
			model, _ := cmd.Flags().GetString("model")
			url, _ := cmd.Flags().GetString("url")
			key, _ := cmd.Flags().GetString("key")
			fields = buildFields(args[0], provider, model, url, key)
		} else {
			if !isTerminal() {
				return errors.New("interactive input is not available, use: provmgr add <name> [--provider] [--key] [--url] [--model]")
			}
			var err error
			if fields, err = promptFields(os.Stdin, cmd.OutOrStdout()); err != nil {
				return err
			}
		}

		id, err := addSource(a.reg, fields)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Source added: %s (%s)", fields.Name, id)))
		return nil
	}),
}

// buildFields turns raw CLI input into source fields. A key enables the source.
func buildFields(name, provider, model, url, key string) models.SourceFields {
	fields := models.SourceFields{
		Name:     strings.TrimSpace(name),
		Provider: models.NormalizeProvider(provider),
		Model:    strings.TrimSpace(model),
		BaseURL:  strings.TrimSpace(url),
	}
	if fields.Model == "" {
		if p, err := providers.Get(fields.Provider); err == nil {
			fields.Model = p.DefaultModel()
		}
	}
	if key = strings.TrimSpace(key); key != "" {
		fields.APIKey = &key
		fields.Enabled = true
	}
	return fields
}

// addSource validates CLI input before it reaches the registry.
func addSource(reg *registry.Registry, fields models.SourceFields) (string, error) {
	if err := validation.NewValidator().ValidateFields(fields); err != nil {
		return "", err
	}
	return reg.AddSource(fields), nil
}

func promptFields(in io.Reader, out io.Writer) (models.SourceFields, error) {
	reader := bufio.NewReader(in)
	prompt := func(label string) string {
		fmt.Fprint(out, label)
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}

	name := prompt("Source name: ")
	if name == "" {
		return models.SourceFields{}, errors.New("name cannot be empty")
	}
	provider := prompt("Provider (openai/gemini, default openai): ")
	if provider == "" {
		provider = string(models.ProviderOpenAI)
	}
	key := prompt("API key (optional): ")
	url := prompt("API base URL (optional, default provider endpoint): ")
	model := prompt("Model (optional, default provider model): ")

	return buildFields(name, provider, model, url, key), nil
}
