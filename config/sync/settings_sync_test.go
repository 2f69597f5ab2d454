package sync

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"provmgr/config/models"
	"provmgr/config/storage"

	"github.com/tidwall/gjson"
)

func testSource() models.Source {
	key := "sk-live"
	return models.Source{
		ID:       "s1",
		Name:     "Work",
		Provider: models.ProviderOpenAI,
		Model:    "gpt-4o",
		BaseURL:  "https://api.openai.com/v1",
		APIKey:   &key,
	}
}

func TestUpdateSettings(t *testing.T) {
	tests := []struct {
		name     string
		original string
		opts     SyncOptions
		check    func(t *testing.T, updated string)
		wantErr  string
	}{
		{
			name:     "empty file",
			original: "",
			check: func(t *testing.T, updated string) {
				if got := gjson.Get(updated, "ai.provider").Str; got != "openai" {
					t.Errorf("ai.provider = %q", got)
				}
				if got := gjson.Get(updated, "ai.apiKey").Str; got != "sk-live" {
					t.Errorf("ai.apiKey = %q", got)
				}
			},
		},
		{
			name:     "other fields are preserved",
			original: `{"editor":{"fontSize":14},"ai":{"provider":"gemini","temperature":0.2}}`,
			opts:     SyncOptions{PreserveOther: true},
			check: func(t *testing.T, updated string) {
				if got := gjson.Get(updated, "editor.fontSize").Int(); got != 14 {
					t.Errorf("editor.fontSize = %d", got)
				}
				if got := gjson.Get(updated, "ai.temperature").Float(); got != 0.2 {
					t.Errorf("ai.temperature = %v", got)
				}
				if got := gjson.Get(updated, "ai.provider").Str; got != "openai" {
					t.Errorf("ai.provider = %q", got)
				}
			},
		},
		{
			name:     "unmanaged section keys dropped without preserve",
			original: `{"ai":{"temperature":0.2}}`,
			check: func(t *testing.T, updated string) {
				if gjson.Get(updated, "ai.temperature").Exists() {
					t.Error("ai.temperature should have been dropped")
				}
			},
		},
		{
			name:     "custom section",
			original: `{"llm":{}}`,
			opts:     SyncOptions{Section: "llm"},
			check: func(t *testing.T, updated string) {
				if got := gjson.Get(updated, "llm.model").Str; got != "gpt-4o" {
					t.Errorf("llm.model = %q", got)
				}
				if gjson.Get(updated, "ai").Exists() {
					t.Error("default section should not be written")
				}
			},
		},
		{
			name:     "not an object",
			original: `[1,2]`,
			wantErr:  "not a JSON object",
		},
		{
			name:     "invalid json",
			original: `{"ai":`,
			wantErr:  "not a JSON object",
		},
		{
			name:     "bad section",
			original: `{}`,
			opts:     SyncOptions{Section: "a.b"},
			wantErr:  "invalid settings section",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := UpdateSettings(tt.original, testSource(), tt.opts)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateSettings() error: %v", err)
			}
			tt.check(t, updated)
		})
	}
}

func TestUpdateSettingsOmitsMissingKey(t *testing.T) {
	src := testSource()
	src.APIKey = nil
	updated, err := UpdateSettings(`{"ai":{"apiKey":"old"}}`, src, SyncOptions{PreserveOther: true})
	if err != nil {
		t.Fatal(err)
	}
	if gjson.Get(updated, "ai.apiKey").Exists() {
		t.Error("a source without key must not leave the previous key behind")
	}
}

func TestDeepCompare(t *testing.T) {
	original := map[string]any{"a": 1.0, "ai": map[string]any{"x": 1.0}, "n": map[string]any{"b": "c"}}
	updated := map[string]any{"a": 2.0, "ai": map[string]any{}, "n": map[string]any{"b": "d"}, "new": true}

	diffs := deepCompare(original, updated, "ai")
	want := map[string]bool{"a": true, "n.b": true, "new (new)": true}
	if len(diffs) != len(want) {
		t.Fatalf("deepCompare() = %v", diffs)
	}
	for _, d := range diffs {
		if !want[d] {
			t.Errorf("unexpected difference %q", d)
		}
	}
}

func TestSyncFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	original := `{"theme":"dark"}`
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("dry run leaves the file alone", func(t *testing.T) {
		if _, err := SyncFile(path, testSource(), SyncOptions{DryRun: true}); err != nil {
			t.Fatal(err)
		}
		data, _ := os.ReadFile(path)
		if string(data) != original {
			t.Errorf("dry run modified the file: %s", data)
		}
	})

	t.Run("write with backup", func(t *testing.T) {
		if _, err := SyncFile(path, testSource(), SyncOptions{CreateBackup: true, PreserveOther: true}); err != nil {
			t.Fatal(err)
		}
		data, _ := os.ReadFile(path)
		if gjson.GetBytes(data, "theme").Str != "dark" || gjson.GetBytes(data, "ai.model").Str != "gpt-4o" {
			t.Errorf("unexpected content: %s", data)
		}
		backups, err := storage.NewBackupManager(0).ListBackups(path)
		if err != nil || len(backups) != 1 {
			t.Errorf("expected one backup, got %v (%v)", backups, err)
		}
	})

	t.Run("missing file is created", func(t *testing.T) {
		fresh := filepath.Join(dir, "fresh.json")
		if _, err := SyncFile(fresh, testSource(), SyncOptions{CreateBackup: true}); err != nil {
			t.Fatal(err)
		}
		if !storage.FileExists(fresh) {
			t.Error("settings file was not created")
		}
	})
}
