package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"provmgr/config"
	"provmgr/config/models"
	"provmgr/config/storage"
	"provmgr/internal/importer"
	"provmgr/internal/logging"
	"provmgr/internal/providers"
	"provmgr/internal/route"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	dir := t.TempDir()
	opts := config.Options{
		Home:           dir,
		Backing:        storage.KindMemory,
		AppearanceFile: filepath.Join(dir, "appearance"),
		ShareBase:      config.DefaultShareBase,
	}
	a := newApp(opts, storage.NewMemory(), logging.Discard())
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestCommandDefinitions(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{addCmd, "add [name]", []string{"provider", "model", "url", "key"}},
		{listCmd, "list", []string{"json"}},
		{removeCmd, "remove [id]", nil},
		{editCmd, "edit <id>", []string{"name", "provider", "model", "url", "key", "clear-key"}},
		{switchCmd, "switch [id]", nil},
		{enableCmd, "enable [id]", nil},
		{disableCmd, "disable [id]", nil},
		{statusCmd, "status", nil},
		{initCmd, "init", []string{"key", "url", "from"}},
		{importCmd, "import <link>", []string{"yes", "no-tui"}},
		{shareCmd, "share <id>", []string{"include-key"}},
		{themeCmd, "theme [light|dark|system]", nil},
		{langCmd, "lang [code]", nil},
		{hintCmd, "hint [on|off]", nil},
		{syncCmd, "sync <settings.json>", []string{"dry-run", "section", "no-backup", "replace"}},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			if tt.cmd.Use != tt.use {
				t.Errorf("Use = %q, want %q", tt.cmd.Use, tt.use)
			}
			if tt.cmd.Short == "" {
				t.Error("Short should not be empty")
			}
			if tt.cmd.Long == "" {
				t.Error("Long should not be empty")
			}
			if tt.cmd.RunE == nil {
				t.Error("RunE should not be nil")
			}
			if tt.cmd.Parent() != rootCmd {
				t.Error("command should be registered on the root command")
			}
			for _, name := range tt.flags {
				if tt.cmd.Flags().Lookup(name) == nil {
					t.Errorf("flag --%s should be defined", name)
				}
			}
		})
	}
}

func TestRootPersistentFlags(t *testing.T) {
	for _, name := range []string{"home", "backing", "log-level"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("persistent flag --%s should be defined", name)
		}
	}
	if rootCmd.RunE == nil {
		t.Error("root command should open the interactive view")
	}
}

func TestBuildFields(t *testing.T) {
	f := buildFields(" work ", "OpenAI", "", "", "")
	assert.Equal(t, "work", f.Name)
	assert.Equal(t, models.ProviderOpenAI, f.Provider)
	assert.Equal(t, providers.OpenAIModel, f.Model)
	assert.Nil(t, f.APIKey)
	assert.False(t, f.Enabled)

	f = buildFields("work", "gemini", "gemini-pro", "https://x.test/", " k ")
	require.NotNil(t, f.APIKey)
	assert.Equal(t, "k", *f.APIKey)
	assert.True(t, f.Enabled)
	assert.Equal(t, "gemini-pro", f.Model)
}

func TestAddSourceValidates(t *testing.T) {
	a := newTestApp(t)

	_, err := addSource(a.reg, buildFields("", "openai", "", "", ""))
	assert.Error(t, err)
	_, err = addSource(a.reg, buildFields("work", "nope", "", "", ""))
	assert.Error(t, err)
	assert.Len(t, a.reg.Sources(), 3)

	id, err := addSource(a.reg, buildFields("work", "openai", "", "", "sk-1"))
	require.NoError(t, err)
	src, ok := a.reg.Source(id)
	require.True(t, ok)
	assert.Equal(t, providers.OpenAIBaseURL, src.BaseURL)
}

func TestPromptFields(t *testing.T) {
	in := strings.NewReader("work\n\nsk-1\n\n\n")
	var out bytes.Buffer
	f, err := promptFields(in, &out)
	require.NoError(t, err)
	assert.Equal(t, "work", f.Name)
	assert.Equal(t, models.ProviderOpenAI, f.Provider)
	assert.Equal(t, "sk-1", *f.APIKey)

	_, err = promptFields(strings.NewReader("\n"), &out)
	assert.Error(t, err)
}

func TestResolveSource(t *testing.T) {
	a := newTestApp(t)
	first := a.reg.Sources()[0]

	src, err := resolveSource(a.reg, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, src.ID)

	src, err = resolveSource(a.reg, "openai")
	require.NoError(t, err)
	assert.Equal(t, "OpenAI", src.Name)

	_, err = resolveSource(a.reg, "missing")
	assert.Error(t, err)

	a.reg.AddSource(models.SourceFields{Name: "openai", Provider: models.ProviderOpenAI})
	_, err = resolveSource(a.reg, "OpenAI")
	assert.ErrorContains(t, err, "ambiguous")
}

func TestEditFlagsPatch(t *testing.T) {
	str := func(s string) *string { return &s }

	_, err := EditFlags{}.Patch()
	assert.Error(t, err)

	p, err := EditFlags{Name: str(" new "), Provider: str("Gemini"), BaseURL: str("")}.Patch()
	require.NoError(t, err)
	assert.Equal(t, "new", *p.Name)
	assert.Equal(t, models.ProviderGemini, *p.Provider)
	assert.Equal(t, "", *p.BaseURL)
	assert.Nil(t, p.APIKey)

	p, err = EditFlags{ClearKey: true}.Patch()
	require.NoError(t, err)
	assert.Equal(t, "", *p.APIKey)
}

func TestApplySetup(t *testing.T) {
	a := newTestApp(t)
	active, ok := a.reg.ActiveSource()
	require.True(t, ok)
	require.True(t, a.prefs.ShowQwenHint())

	src, err := applySetup(a.reg, "  sk-new  ", " ")
	require.NoError(t, err)
	assert.Equal(t, active.ID, src.ID)
	assert.Equal(t, "sk-new", src.Key())
	assert.Equal(t, providers.DefaultBaseURL(active.Provider), src.BaseURL)
	assert.True(t, src.Enabled)
	assert.False(t, a.prefs.ShowQwenHint())

	src, err = applySetup(a.reg, "sk-new", "https://proxy.test/v1/")
	require.NoError(t, err)
	assert.Equal(t, "https://proxy.test/v1", src.BaseURL)

	_, err = applySetup(a.reg, "k", "not a url")
	assert.Error(t, err)
}

func TestApplySetupEmptyKeyChangesNothing(t *testing.T) {
	a := newTestApp(t)
	active, _ := a.reg.ActiveSource()
	existing := "sk-existing"
	disabled := false
	a.reg.UpdateSource(active.ID, models.SourcePatch{APIKey: &existing, Enabled: &disabled})
	before := a.reg.Snapshot()

	for _, key := range []string{"", "   ", "\t\n"} {
		_, err := applySetup(a.reg, key, "https://proxy.test/v1")
		assert.ErrorIs(t, err, errEmptyKey)
	}

	assert.Equal(t, before, a.reg.Snapshot())
	src, _ := a.reg.Source(active.ID)
	assert.Equal(t, "sk-existing", src.Key())
	assert.False(t, src.Enabled)
}

func TestApplySetupWithoutActiveSource(t *testing.T) {
	a := newTestApp(t)
	for _, src := range a.reg.Sources() {
		a.reg.RemoveSource(src.ID)
	}
	_, err := applySetup(a.reg, "k", "")
	assert.ErrorIs(t, err, errNoActiveSource)
}

func TestSetEnabled(t *testing.T) {
	a := newTestApp(t)
	first := a.reg.Sources()[0]

	src, err := setEnabled(a.reg, first.ID, true)
	require.NoError(t, err)
	assert.True(t, src.Enabled)

	src, err = setEnabled(a.reg, first.Name, false)
	require.NoError(t, err)
	assert.False(t, src.Enabled)
}

func TestWriteSources(t *testing.T) {
	a := newTestApp(t)
	var buf bytes.Buffer
	writeSources(&buf, a.reg.Snapshot())
	out := buf.String()
	assert.Contains(t, out, "* "+a.reg.ActiveSourceID())
	assert.Contains(t, out, "(not set)")

	buf.Reset()
	writeSources(&buf, models.State{})
	assert.Contains(t, buf.String(), "No sources available")
}

func TestWriteSourcesJSONMasksKeys(t *testing.T) {
	a := newTestApp(t)
	_, err := applySetup(a.reg, "sk-abcdefghijklmnop", "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeSourcesJSON(&buf, a.reg.Snapshot()))
	assert.NotContains(t, buf.String(), "sk-abcdefghijklmnop")

	var entries []listEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 3)
	assert.True(t, entries[0].Active)
	assert.True(t, entries[0].Enabled)
}

func TestWriteStatus(t *testing.T) {
	a := newTestApp(t)

	var buf bytes.Buffer
	err := writeStatus(&buf, a.reg)
	assert.ErrorIs(t, err, route.ErrSetupRequired)
	assert.Contains(t, buf.String(), "provmgr init")

	_, err = applySetup(a.reg, "sk-1", "")
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, writeStatus(&buf, a.reg))
	assert.Contains(t, buf.String(), "Active source:")
}

func TestImportNonInteractive(t *testing.T) {
	payload := `{"name":"Shared","provider":"openai","key":"sk-shared-key-123"}`

	t.Run("preview only", func(t *testing.T) {
		a := newTestApp(t)
		flow, err := importer.Start(a.reg, payload, a.logger)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, importNonInteractive(&buf, flow, false))
		assert.Contains(t, buf.String(), "Shared")
		assert.NotContains(t, buf.String(), "sk-shared-key-123")
		assert.Len(t, a.reg.Sources(), 3)
		assert.True(t, flow.Finalized())
	})

	t.Run("commit", func(t *testing.T) {
		a := newTestApp(t)
		flow, err := importer.Start(a.reg, payload, a.logger)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, importNonInteractive(&buf, flow, true))
		require.Len(t, a.reg.Sources(), 4)
		assert.Equal(t, "sk-shared-key-123", a.reg.Sources()[3].Key())
		assert.False(t, a.prefs.ShowQwenHint())
	})

	t.Run("parse error", func(t *testing.T) {
		a := newTestApp(t)
		flow, err := importer.Start(a.reg, "[1]", a.logger)
		require.NoError(t, err)

		err = importNonInteractive(&bytes.Buffer{}, flow, true)
		assert.ErrorIs(t, err, importer.ErrParse)
		assert.Len(t, a.reg.Sources(), 3)
	})
}
