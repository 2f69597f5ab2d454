package tui

import (
	"provmgr/config/models"

	"github.com/charmbracelet/lipgloss"
)

// palette is the set of colors for one resolved theme.
type palette struct {
	title, text, dim, separator, accent, success, errColor, selFg, selBg, tagBg lipgloss.Color
}

var (
	darkPalette = palette{
		title: "205", text: "252", dim: "241", separator: "238", accent: "86",
		success: "42", errColor: "196", selFg: "229", selBg: "57", tagBg: "22",
	}
	lightPalette = palette{
		title: "125", text: "235", dim: "244", separator: "250", accent: "30",
		success: "28", errColor: "160", selFg: "231", selBg: "62", tagBg: "194",
	}
)

// Styles holds every style used by the views.
type Styles struct {
	Theme models.Theme

	Title          lipgloss.Style
	Selected       lipgloss.Style
	Active         lipgloss.Style
	ActiveSelected lipgloss.Style
	Normal         lipgloss.Style
	Dim            lipgloss.Style
	Message        lipgloss.Style
	Error          lipgloss.Style
	Help           lipgloss.Style
	HelpKey        lipgloss.Style
	Separator      lipgloss.Style
	Label          lipgloss.Style
	Tag            lipgloss.Style
	Section        lipgloss.Style
	Hint           lipgloss.Style
	Focused        lipgloss.Style
}

// NewStyles builds the styles for a resolved theme (light or dark).
func NewStyles(theme models.Theme) Styles {
	p := darkPalette
	if theme == models.ThemeLight {
		p = lightPalette
	}
	return Styles{
		Theme:          theme,
		Title:          lipgloss.NewStyle().Bold(true).Foreground(p.title),
		Selected:       lipgloss.NewStyle().Foreground(p.selFg).Background(p.selBg).Bold(true),
		Active:         lipgloss.NewStyle().Foreground(p.success).Bold(true),
		ActiveSelected: lipgloss.NewStyle().Foreground(p.success).Background(p.selBg).Bold(true),
		Normal:         lipgloss.NewStyle().Foreground(p.text),
		Dim:            lipgloss.NewStyle().Foreground(p.dim),
		Message:        lipgloss.NewStyle().Foreground(p.success),
		Error:          lipgloss.NewStyle().Foreground(p.errColor).Bold(true),
		Help:           lipgloss.NewStyle().Foreground(p.dim),
		HelpKey:        lipgloss.NewStyle().Foreground(p.title),
		Separator:      lipgloss.NewStyle().Foreground(p.separator),
		Label:          lipgloss.NewStyle().Foreground(p.dim).Width(12),
		Tag:            lipgloss.NewStyle().Foreground(p.success).Background(p.tagBg).Bold(true).Padding(0, 1),
		Section:        lipgloss.NewStyle().Foreground(p.title).Bold(true),
		Hint:           lipgloss.NewStyle().Foreground(p.accent).Italic(true),
		Focused:        lipgloss.NewStyle().Foreground(p.title).Bold(true).Width(12),
	}
}
