package tui

import "provmgr/internal/prefs"

// SourcesChangedMsg is sent when the registry changed outside the current update.
type SourcesChangedMsg struct{}

// PrefsChangedMsg is sent when preferences or the platform appearance changed.
type PrefsChangedMsg struct {
	State prefs.State
}

// SourceSavedMsg is sent when a source was added or edited
type SourceSavedMsg struct {
	ID    string
	Name  string
	Added bool
}

// SourceDeletedMsg is sent when a source was removed
type SourceDeletedMsg struct {
	Name string
}

// ActiveSwitchedMsg is sent when the active source changed
type ActiveSwitchedMsg struct {
	Name string
}

// SourceToggledMsg is sent when a source was enabled or disabled
type SourceToggledMsg struct {
	Name    string
	Enabled bool
}

// ThemeChangedMsg is sent after an explicit theme choice
type ThemeChangedMsg struct {
	Err error
}

// ImportConfirmedMsg is sent when the import draft was committed
type ImportConfirmedMsg struct {
	ID  string
	Err error
}

// ImportUndoneMsg is sent when the committed import was removed
type ImportUndoneMsg struct {
	Err error
}
