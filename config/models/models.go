package models

import "strings"

// Provider identifies the API flavour a Source talks to.
type Provider string

const (
	ProviderOpenAI Provider = "openai" // OpenAI and OpenAI-compatible endpoints
	ProviderGemini Provider = "gemini"
)

// NormalizeProvider lower-cases and trims a provider name.
func NormalizeProvider(name string) Provider {
	return Provider(strings.ToLower(strings.TrimSpace(name)))
}

// Source represents a single configured provider credential
type Source struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Provider Provider `json:"provider"`
	Model    string   `json:"model"`
	APIKey   *string  `json:"apiKey"` // nil until a key has been configured
	BaseURL  string   `json:"baseUrl,omitempty"`
	Enabled  bool     `json:"enabled"`
}

// HasKey reports whether the source has a usable API key.
func (s Source) HasKey() bool {
	return s.APIKey != nil && *s.APIKey != ""
}

// Key returns the API key or "" when none is configured.
func (s Source) Key() string {
	if s.APIKey == nil {
		return ""
	}
	return *s.APIKey
}

// SourceFields holds everything needed to create a Source except its id.
type SourceFields struct {
	Name     string
	Provider Provider
	Model    string
	APIKey   *string
	BaseURL  string
	Enabled  bool
}

// SourcePatch describes a partial update. Nil fields are left untouched.
// An empty APIKey clears the key; an empty BaseURL restores the provider default.
type SourcePatch struct {
	Name     *string
	Provider *Provider
	Model    *string
	APIKey   *string
	BaseURL  *string
	Enabled  *bool
}

// State is the persisted registry: the ordered sources and the active selection.
type State struct {
	Sources        []Source `json:"sources"`
	ActiveSourceID string   `json:"activeSourceId,omitempty"`
}

// Clone returns a deep copy of the state.
func (st State) Clone() State {
	c := State{ActiveSourceID: st.ActiveSourceID}
	if st.Sources != nil {
		c.Sources = make([]Source, len(st.Sources))
		for i, s := range st.Sources {
			c.Sources[i] = s.clone()
		}
	}
	return c
}

// Find returns the index of the source with the given id, or -1.
func (st State) Find(id string) int {
	for i, s := range st.Sources {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (s Source) clone() Source {
	if s.APIKey != nil {
		k := *s.APIKey
		s.APIKey = &k
	}
	return s
}

// Theme is a display theme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// ParseTheme validates a theme name.
func ParseTheme(name string) (Theme, bool) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(name))); t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return t, true
	}
	return "", false
}

// Preferences is the persisted settings bundle.
type Preferences struct {
	Theme        Theme  `json:"theme,omitempty"`
	Language     string `json:"language,omitempty"`
	ShowQwenHint bool   `json:"showQwenHint"`
}
