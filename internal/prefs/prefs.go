// Package prefs mirrors the user's display and language preferences between
// memory and the settings store, and resolves the "system" theme against a
// platform appearance signal.
//
// The theme resolves as: persisted explicit choice, else the transient
// fallback, else system. The platform signal is watched only while the
// effective theme is system.
package prefs

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"provmgr/config/models"
	"provmgr/config/storage"
	"provmgr/internal/logging"
)

// StorageKey is the backing key holding the serialized preferences.
const StorageKey = "settings-store"

// DefaultLanguage is used until a language is chosen.
const DefaultLanguage = "en"

const currentVersion = 1

type envelope struct {
	Version int                `json:"version"`
	State   models.Preferences `json:"state"`
}

// Options configures a Mirror.
type Options struct {
	// Fallback is used when no theme has been persisted. It is never written.
	Fallback models.Theme
	// Signal resolves the system theme. Defaults to TerminalSignal.
	Signal Signal
	Logger *slog.Logger
}

// State is what subscribers receive after a change.
type State struct {
	Preferences models.Preferences
	// Resolved is the concrete theme on screen: light or dark.
	Resolved models.Theme
}

// Mirror holds the effective preferences.
type Mirror struct {
	mu      sync.Mutex
	backing storage.Backing
	signal  Signal
	logger  *slog.Logger

	stored   models.Preferences // as persisted; Theme is "" until chosen
	fallback models.Theme
	dark     bool

	subs       map[int]func(State)
	nextSub    int
	persistErr error

	// watchMu serializes starting and stopping the signal watch. It is never
	// held together with mu while calling into the signal.
	watchMu   sync.Mutex
	stopWatch func()
}

// Open loads the persisted preferences. Corrupt preferences are replaced by
// the newest backup when the backing keeps one, and by the defaults otherwise.
func Open(backing storage.Backing, opts Options) *Mirror {
	m := &Mirror{
		backing: backing,
		signal:  opts.Signal,
		logger:  logging.Default(opts.Logger).With("component", "prefs"),
		subs:    make(map[int]func(State)),
		stored:  models.Preferences{ShowQwenHint: true},
	}
	if m.signal == nil {
		m.signal = TerminalSignal{}
	}
	if t, ok := models.ParseTheme(string(opts.Fallback)); ok {
		m.fallback = t
	}

	if p, ok := m.load(); ok {
		m.stored = p
	}

	m.watchMu.Lock()
	m.syncWatch(m.Theme())
	m.watchMu.Unlock()
	return m
}

func (m *Mirror) load() (models.Preferences, bool) {
	raw, ok, err := m.backing.Get(StorageKey)
	if err != nil {
		m.logger.Warn("failed to read preferences", "error", err)
		return models.Preferences{}, false
	}
	if !ok {
		return models.Preferences{}, false
	}
	p, err := Decode([]byte(raw))
	if err == nil {
		return p, true
	}
	if rs, ok := m.backing.(storage.Restorer); ok {
		if raw, rerr := rs.Restore(StorageKey); rerr == nil {
			if p, derr := Decode([]byte(raw)); derr == nil {
				m.logger.Warn("persisted preferences were corrupt, restored from backup", "error", err)
				return p, true
			}
		}
	}
	m.logger.Warn("persisted preferences are corrupt, using defaults", "error", err)
	return models.Preferences{}, false
}

// Theme returns the effective theme preference, which may be system.
func (m *Mirror) Theme() models.Theme {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.themeLocked()
}

func (m *Mirror) themeLocked() models.Theme {
	if t, ok := models.ParseTheme(string(m.stored.Theme)); ok {
		return t
	}
	if m.fallback != "" {
		return m.fallback
	}
	return models.ThemeSystem
}

// Resolved returns the concrete theme, querying the platform signal when the
// preference is system.
func (m *Mirror) Resolved() models.Theme {
	t := m.Theme()
	if t != models.ThemeSystem {
		return t
	}
	dark := m.signal.Dark()
	m.mu.Lock()
	m.dark = dark
	m.mu.Unlock()
	return darkToTheme(dark)
}

// SetTheme records an explicit choice and writes it through.
func (m *Mirror) SetTheme(choice models.Theme) error {
	t, ok := models.ParseTheme(string(choice))
	if !ok {
		return fmt.Errorf("invalid theme: %q (expected light, dark or system)", choice)
	}

	m.watchMu.Lock()
	defer m.watchMu.Unlock()

	m.mu.Lock()
	m.stored.Theme = t
	m.persistLocked()
	m.mu.Unlock()

	m.syncWatch(t)
	m.notify()
	return nil
}

// Language returns the chosen language code.
func (m *Mirror) Language() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stored.Language == "" {
		return DefaultLanguage
	}
	return m.stored.Language
}

// SetLanguage records the language code and writes it through.
func (m *Mirror) SetLanguage(code string) {
	m.update(func(p *models.Preferences) bool {
		if p.Language == code {
			return false
		}
		p.Language = code
		return true
	})
}

// ShowQwenHint reports whether the Qwen key hint should be shown.
func (m *Mirror) ShowQwenHint() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stored.ShowQwenHint
}

// SetShowQwenHint sets the hint flag and writes it through when it changes.
func (m *Mirror) SetShowQwenHint(show bool) {
	m.update(func(p *models.Preferences) bool {
		if p.ShowQwenHint == show {
			return false
		}
		p.ShowQwenHint = show
		return true
	})
}

// SyncQwenHint shows the hint while no source has an API key.
func (m *Mirror) SyncQwenHint(sources []models.Source) {
	show := true
	for _, s := range sources {
		if s.HasKey() {
			show = false
			break
		}
	}
	m.SetShowQwenHint(show)
}

// Preferences returns the effective preferences.
func (m *Mirror) Preferences() models.Preferences {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.stored
	p.Theme = m.themeLocked()
	if p.Language == "" {
		p.Language = DefaultLanguage
	}
	return p
}

// Reload re-reads the settings store. The stored value wins over memory.
func (m *Mirror) Reload() {
	p, ok := m.load()
	if !ok {
		return
	}

	m.watchMu.Lock()
	defer m.watchMu.Unlock()

	m.mu.Lock()
	m.stored = p
	t := m.themeLocked()
	m.mu.Unlock()

	m.syncWatch(t)
	m.notify()
}

// Subscribe registers fn to receive the preferences after every change,
// including platform appearance changes while the theme is system.
func (m *Mirror) Subscribe(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Watching reports whether the platform signal is being watched.
func (m *Mirror) Watching() bool {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()
	return m.stopWatch != nil
}

// PersistErr returns the error of the most recent write, or nil.
func (m *Mirror) PersistErr() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.persistErr
}

// Close releases the platform signal watch.
func (m *Mirror) Close() {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()
	if m.stopWatch != nil {
		m.stopWatch()
		m.stopWatch = nil
	}
}

func (m *Mirror) update(fn func(p *models.Preferences) bool) {
	m.mu.Lock()
	if !fn(&m.stored) {
		m.mu.Unlock()
		return
	}
	m.persistLocked()
	m.mu.Unlock()
	m.notify()
}

// syncWatch starts or stops the signal watch for theme t. Callers hold watchMu.
func (m *Mirror) syncWatch(t models.Theme) {
	switch {
	case t == models.ThemeSystem && m.stopWatch == nil:
		stop, err := m.signal.Watch(m.onSignal)
		if err != nil {
			m.logger.Warn("failed to watch platform appearance", "error", err)
			return
		}
		m.stopWatch = stop
		dark := m.signal.Dark()
		m.mu.Lock()
		m.dark = dark
		m.mu.Unlock()
	case t != models.ThemeSystem && m.stopWatch != nil:
		m.stopWatch()
		m.stopWatch = nil
	}
}

func (m *Mirror) onSignal(dark bool) {
	m.mu.Lock()
	if m.themeLocked() != models.ThemeSystem || m.dark == dark {
		m.mu.Unlock()
		return
	}
	m.dark = dark
	m.mu.Unlock()
	m.notify()
}

func (m *Mirror) notify() {
	m.mu.Lock()
	st := State{Preferences: m.stored, Resolved: darkToTheme(m.dark)}
	st.Preferences.Theme = m.themeLocked()
	if st.Preferences.Theme != models.ThemeSystem {
		st.Resolved = st.Preferences.Theme
	}
	subs := make([]func(State), 0, len(m.subs))
	for _, s := range m.subs {
		subs = append(subs, s)
	}
	m.mu.Unlock()

	for _, s := range subs {
		s(st)
	}
}

// persistLocked writes the stored preferences. Callers hold mu.
func (m *Mirror) persistLocked() {
	data, err := Encode(m.stored)
	if err == nil {
		err = m.backing.Set(StorageKey, string(data))
	}
	m.persistErr = err
	if err != nil {
		m.logger.Warn("failed to persist preferences", "error", err)
	}
}

// Encode serializes preferences.
func Encode(p models.Preferences) ([]byte, error) {
	data, err := json.MarshalIndent(envelope{Version: currentVersion, State: p}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize preferences: %w", err)
	}
	return data, nil
}

// Decode parses serialized preferences. Unknown theme values are dropped.
func Decode(data []byte) (models.Preferences, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return models.Preferences{}, fmt.Errorf("failed to parse preferences: %w", err)
	}
	if env.Version == 0 || env.Version > currentVersion {
		return models.Preferences{}, fmt.Errorf("unsupported preferences version %d", env.Version)
	}
	if _, ok := models.ParseTheme(string(env.State.Theme)); !ok {
		env.State.Theme = ""
	}
	return env.State, nil
}

func darkToTheme(dark bool) models.Theme {
	if dark {
		return models.ThemeDark
	}
	return models.ThemeLight
}
