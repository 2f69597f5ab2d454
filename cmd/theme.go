package cmd

import (
	"fmt"
	"strings"

	"provmgr/config/models"
	"provmgr/config/validation"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(langCmd)
	rootCmd.AddCommand(hintCmd)
}

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|system]",
	Short:     "Show or set the theme",
	Long:      "Show the theme, or save a theme choice. system follows the terminal or the appearance file.",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(models.ThemeLight), string(models.ThemeDark), string(models.ThemeSystem)},
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			t, ok := models.ParseTheme(args[0])
			if !ok {
				return fmt.Errorf("invalid theme %q (expected light, dark or system)", args[0])
			}
			if err := a.prefs.SetTheme(t); err != nil {
				return err
			}
			fmt.Fprintln(out, successStyle.Render("Theme set: "+string(t)))
		}
		fmt.Fprintf(out, "Theme: %s (showing %s)\n", a.prefs.Theme(), a.prefs.Resolved())
		return nil
	}),
}

var langCmd = &cobra.Command{
	Use:   "lang [code]",
	Short: "Show or set the interface language",
	Long:  "Show the interface language, or save a language code such as en or zh-CN.",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			code := strings.TrimSpace(args[0])
			if err := validation.NewInputValidator().ValidateLanguage(code); err != nil {
				return err
			}
			a.prefs.SetLanguage(code)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Language: %s\n", a.prefs.Language())
		return nil
	}),
}

var hintCmd = &cobra.Command{
	Use:       "hint [on|off]",
	Short:     "Show or set the free-key hint",
	Long:      "Show or set whether the free Qwen key hint is displayed. It turns itself on while no source has a key and off once one does.",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off"},
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			a.prefs.SetShowQwenHint(args[0] == "on")
		}
		state := "off"
		if a.prefs.ShowQwenHint() {
			state = "on"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Hint: %s\n", state)
		return nil
	}),
}
