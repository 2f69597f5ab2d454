package prefs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"provmgr/config/models"
	"provmgr/config/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) *string { return &s }

func TestThemeResolution(t *testing.T) {
	tests := []struct {
		name     string
		stored   models.Theme
		fallback models.Theme
		want     models.Theme
	}{
		{"nothing stored, no fallback", "", "", models.ThemeSystem},
		{"fallback used when nothing stored", "", models.ThemeDark, models.ThemeDark},
		{"stored wins over fallback", models.ThemeLight, models.ThemeDark, models.ThemeLight},
		{"invalid fallback ignored", "", "sepia", models.ThemeSystem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := storage.NewMemory()
			if tt.stored != "" {
				data, err := Encode(models.Preferences{Theme: tt.stored})
				require.NoError(t, err)
				require.NoError(t, b.Set(StorageKey, string(data)))
			}
			m := Open(b, Options{Fallback: tt.fallback, Signal: NewManualSignal(false)})
			defer m.Close()
			assert.Equal(t, tt.want, m.Theme())
		})
	}
}

func TestFallbackIsNotPersisted(t *testing.T) {
	b := storage.NewMemory()
	m := Open(b, Options{Fallback: models.ThemeDark, Signal: NewManualSignal(false)})
	defer m.Close()

	m.SetLanguage("de")
	reopened := Open(b, Options{Signal: NewManualSignal(false)})
	defer reopened.Close()
	assert.Equal(t, models.ThemeSystem, reopened.Theme())
	assert.Equal(t, "de", reopened.Language())
}

func TestSystemFollowsSignalUntilExplicitChoice(t *testing.T) {
	sig := NewManualSignal(true)
	m := Open(storage.NewMemory(), Options{Signal: sig})
	defer m.Close()

	assert.Equal(t, models.ThemeDark, m.Resolved())
	assert.True(t, m.Watching())
	assert.Equal(t, 1, sig.Watchers())

	var resolved []models.Theme
	m.Subscribe(func(st State) { resolved = append(resolved, st.Resolved) })

	sig.Set(false)
	assert.Equal(t, []models.Theme{models.ThemeLight}, resolved)

	require.NoError(t, m.SetTheme(models.ThemeLight))
	assert.False(t, m.Watching(), "explicit choice releases the signal")
	assert.Equal(t, 0, sig.Watchers())

	sig.Set(true)
	assert.Equal(t, models.ThemeLight, m.Resolved())
	assert.Len(t, resolved, 2, "signal changes are ignored after an explicit choice")

	require.NoError(t, m.SetTheme(models.ThemeSystem))
	assert.True(t, m.Watching())
	assert.Equal(t, models.ThemeDark, m.Resolved())
}

func TestSetThemeWritesThrough(t *testing.T) {
	b := storage.NewMemory()
	m := Open(b, Options{Signal: NewManualSignal(false)})
	defer m.Close()

	require.NoError(t, m.SetTheme("DARK"))
	raw, ok, err := b.Get(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	p, err := Decode([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, p.Theme)

	assert.Error(t, m.SetTheme("sepia"))
	assert.Equal(t, models.ThemeDark, m.Theme())
}

func TestReloadStoreWins(t *testing.T) {
	b := storage.NewMemory()
	m := Open(b, Options{Signal: NewManualSignal(false)})
	defer m.Close()
	require.NoError(t, m.SetTheme(models.ThemeLight))

	other := Open(b, Options{Signal: NewManualSignal(false)})
	defer other.Close()
	require.NoError(t, other.SetTheme(models.ThemeSystem))
	other.SetLanguage("zh")

	var got []State
	m.Subscribe(func(st State) { got = append(got, st) })
	m.Reload()

	assert.Equal(t, models.ThemeSystem, m.Theme())
	assert.Equal(t, "zh", m.Language())
	assert.True(t, m.Watching())
	require.Len(t, got, 1)
	assert.Equal(t, "zh", got[0].Preferences.Language)
}

func TestQwenHint(t *testing.T) {
	b := storage.NewMemory()
	m := Open(b, Options{Signal: NewManualSignal(false)})
	defer m.Close()
	assert.True(t, m.ShowQwenHint(), "hint is shown on first run")

	var notified int
	m.Subscribe(func(State) { notified++ })

	m.SyncQwenHint([]models.Source{{ID: "a"}, {ID: "b", APIKey: key("sk")}})
	assert.False(t, m.ShowQwenHint())

	m.SyncQwenHint([]models.Source{{ID: "b", APIKey: key("sk")}})
	assert.Equal(t, 1, notified, "unchanged hint is not rewritten")

	m.SyncQwenHint(nil)
	assert.True(t, m.ShowQwenHint())
	assert.Equal(t, 2, notified)
}

func TestCorruptPreferences(t *testing.T) {
	b := storage.NewMemory()
	require.NoError(t, b.Set(StorageKey, "garbage"))
	m := Open(b, Options{Fallback: models.ThemeLight, Signal: NewManualSignal(true)})
	defer m.Close()

	assert.Equal(t, models.ThemeLight, m.Theme())
	assert.Equal(t, DefaultLanguage, m.Language())
	assert.True(t, m.ShowQwenHint())
}

func TestCorruptPreferencesFileRestoresBackup(t *testing.T) {
	b := storage.NewFile(t.TempDir(), 3)
	m := Open(b, Options{Signal: NewManualSignal(false)})
	require.NoError(t, m.SetTheme(models.ThemeDark))
	m.SetLanguage("zh")
	m.Close()

	require.NoError(t, os.WriteFile(b.Path(StorageKey), []byte("garbage"), 0o600))

	restored := Open(b, Options{Signal: NewManualSignal(false)})
	defer restored.Close()
	assert.Equal(t, models.ThemeDark, restored.Theme(), "newest backup predates the language change")
	assert.Equal(t, DefaultLanguage, restored.Language())
}

func TestDecodeDropsUnknownTheme(t *testing.T) {
	p, err := Decode([]byte(`{"version":1,"state":{"theme":"neon","language":"fr","showQwenHint":false}}`))
	require.NoError(t, err)
	assert.Equal(t, models.Theme(""), p.Theme)
	assert.Equal(t, "fr", p.Language)

	_, err = Decode([]byte(`{"state":{}}`))
	assert.Error(t, err)
}

func TestFileSignal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appearance")
	sig := NewFileSignal(path, nil)
	assert.False(t, sig.Dark(), "missing file reads as light")

	require.NoError(t, os.WriteFile(path, []byte("dark\n"), 0o644))
	assert.True(t, sig.Dark())

	changes := make(chan bool, 4)
	stop, err := sig.Watch(func(dark bool) { changes <- dark })
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(path, []byte("light"), 0o644))
	select {
	case dark := <-changes:
		assert.False(t, dark)
	case <-time.After(5 * time.Second):
		t.Fatal("no appearance change observed")
	}

	stop()
	stop()
}

func TestFileSignalDrivesMirror(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appearance")
	require.NoError(t, os.WriteFile(path, []byte("light"), 0o644))

	m := Open(storage.NewMemory(), Options{Signal: NewFileSignal(path, nil)})
	defer m.Close()
	assert.Equal(t, models.ThemeLight, m.Resolved())

	resolved := make(chan models.Theme, 4)
	m.Subscribe(func(st State) { resolved <- st.Resolved })

	require.NoError(t, os.WriteFile(path, []byte("dark"), 0o644))
	select {
	case got := <-resolved:
		assert.Equal(t, models.ThemeDark, got)
	case <-time.After(5 * time.Second):
		t.Fatal("mirror did not follow the appearance file")
	}
}
