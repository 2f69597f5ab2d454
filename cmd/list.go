package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"provmgr/config/models"
	"provmgr/internal/utils"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("json", false, "print sources as JSON (keys masked)")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sources",
	Long:  "List all sources in order. The active source is marked with *.",
	Args:  cobra.NoArgs,
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		st := a.reg.Snapshot()
		if asJSON {
			return writeSourcesJSON(cmd.OutOrStdout(), st)
		}
		writeSources(cmd.OutOrStdout(), st)
		return nil
	}),
}

type listEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	BaseURL  string `json:"baseUrl"`
	Key      string `json:"apiKey"`
	Enabled  bool   `json:"enabled"`
	Active   bool   `json:"active"`
}

func writeSourcesJSON(w io.Writer, st models.State) error {
	entries := make([]listEntry, 0, len(st.Sources))
	for _, src := range st.Sources {
		entries = append(entries, listEntry{
			ID:       src.ID,
			Name:     src.Name,
			Provider: string(src.Provider),
			Model:    src.Model,
			BaseURL:  src.BaseURL,
			Key:      utils.MaskOptionalKey(src.APIKey),
			Enabled:  src.Enabled,
			Active:   src.ID == st.ActiveSourceID,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func writeSources(w io.Writer, st models.State) {
	if len(st.Sources) == 0 {
		fmt.Fprintln(w, "No sources available")
		return
	}

	fmt.Fprintln(w, "Sources:")
	for _, src := range st.Sources {
		marker := " "
		if src.ID == st.ActiveSourceID {
			marker = "*"
		}
		state := ""
		if !src.Enabled {
			state = dimStyle.Render(" (disabled)")
		}
		fmt.Fprintf(w, "%s %s: %s (Provider: %s, Model: %s, URL: %s, Key: %s)%s\n",
			marker, src.ID, src.Name, src.Provider, src.Model, src.BaseURL, utils.MaskOptionalKey(src.APIKey), state)
	}

	if st.ActiveSourceID != "" {
		fmt.Fprintf(w, "\n* indicates the active source\n")
	}
}
