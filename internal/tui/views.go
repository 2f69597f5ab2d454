package tui

import (
	"fmt"
	"strings"

	"provmgr/config/models"
	"provmgr/internal/providers"
	"provmgr/internal/utils"

	"github.com/charmbracelet/lipgloss"
)

const appTitle = "provmgr"

func (m Model) separator() string {
	w := m.width
	if w <= 0 || w > 100 {
		w = 60
	}
	return m.styles.Separator.Render(strings.Repeat("─", w))
}

// renderStatus renders the message or error line, or nothing.
func (m Model) renderStatus() string {
	if m.errorMsg != "" {
		return m.styles.Error.Render("✗ " + m.errorMsg)
	}
	if m.message != "" {
		return m.styles.Message.Render("✓ " + m.message)
	}
	return ""
}

// qwenHint is the banner shown while no source has a key.
func (m Model) qwenHint() string {
	return m.styles.Hint.Render("No API key configured. Get a free Qwen key at " + providers.QwenKeyURL)
}

// RenderMainView renders the source list
func (m Model) RenderMainView() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(appTitle))
	b.WriteString(m.styles.Dim.Render(fmt.Sprintf("  %d sources · theme %s", len(m.sources), m.prefs.Theme())))
	b.WriteString("\n")
	b.WriteString(m.separator())
	b.WriteString("\n")

	if m.hint {
		b.WriteString(m.qwenHint())
		b.WriteString("\n\n")
	}

	if len(m.sources) == 0 {
		b.WriteString(m.styles.Dim.Render("No sources. Press a to add one."))
		b.WriteString("\n")
	} else {
		end := m.scrollOffset + m.visibleListHeight()
		if end > len(m.sources) {
			end = len(m.sources)
		}
		for i := m.scrollOffset; i < end; i++ {
			b.WriteString(m.renderRow(i))
			b.WriteString("\n")
		}
		if end < len(m.sources) {
			b.WriteString(m.styles.Dim.Render(fmt.Sprintf("  ↓ %d more", len(m.sources)-end)))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.separator())
	b.WriteString("\n")
	if s := m.renderStatus(); s != "" {
		b.WriteString(s)
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderRow(i int) string {
	src := m.sources[i]
	active := src.ID == m.activeID

	marker := "  "
	if active {
		marker = "● "
	}
	state := "off"
	if src.Enabled {
		state = "on "
	}
	line := fmt.Sprintf("%s%-20s %-8s %-24s %s %s",
		marker, truncate(src.Name, 20), src.Provider, truncate(src.Model, 24), state, utils.MaskOptionalKey(src.APIKey))

	switch {
	case i == m.cursor && active:
		return m.styles.ActiveSelected.Render(line)
	case i == m.cursor:
		return m.styles.Selected.Render(line)
	case active:
		return m.styles.Active.Render(line)
	case !src.Enabled:
		return m.styles.Dim.Render(line)
	}
	return m.styles.Normal.Render(line)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (m Model) field(label, value string) string {
	return m.styles.Label.Render(label) + m.styles.Normal.Render(value)
}

// renderSource renders the fields of a source, shared by the detail and import views.
func (m Model) renderSource(name string, provider models.Provider, model, baseURL string, key *string) string {
	if baseURL == "" {
		baseURL = providers.DefaultBaseURL(provider)
	}
	rows := []string{
		m.field("Name:", name),
		m.field("Provider:", string(provider)),
		m.field("Model:", model),
		m.field("Base URL:", baseURL),
		m.field("API Key:", utils.MaskOptionalKey(key)),
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// RenderDetailView renders the selected source
func (m Model) RenderDetailView() string {
	if m.selected < 0 || m.selected >= len(m.sources) {
		return m.RenderMainView()
	}
	src := m.sources[m.selected]

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(src.Name))
	if src.ID == m.activeID {
		b.WriteString(" ")
		b.WriteString(m.styles.Tag.Render("ACTIVE"))
	}
	b.WriteString("\n")
	b.WriteString(m.separator())
	b.WriteString("\n")
	b.WriteString(m.renderSource(src.Name, src.Provider, src.Model, src.BaseURL, src.APIKey))
	b.WriteString("\n")
	enabled := "no"
	if src.Enabled {
		enabled = "yes"
	}
	b.WriteString(m.field("Enabled:", enabled))
	b.WriteString("\n")
	b.WriteString(m.field("ID:", src.ID))
	b.WriteString("\n")
	if host := utils.ExtractHost(src.BaseURL); host != "" {
		b.WriteString(m.field("Host:", host))
		b.WriteString("\n")
	}
	b.WriteString(m.separator())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("s use · x enable/disable · e edit · d delete · esc back"))
	return b.String()
}

// RenderFormView renders the add or edit form
func (m Model) RenderFormView() string {
	var b strings.Builder
	title := "Add source"
	if m.viewState == ViewEdit {
		title = "Edit source"
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(m.separator())
	b.WriteString("\n")

	labels := FormLabels()
	hints := FormHints()
	for i, in := range m.formInputs {
		label := m.styles.Label.Render(labels[i])
		if i == m.formFocus {
			label = m.styles.Focused.Render(labels[i])
		}
		b.WriteString(label)
		b.WriteString(in.View())
		b.WriteString("\n")
		if i == m.formFocus {
			b.WriteString(m.styles.Label.Render(""))
			b.WriteString(m.styles.Dim.Render(hints[i]))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.separator())
	b.WriteString("\n")
	if s := m.renderStatus(); s != "" {
		b.WriteString(s)
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Help.Render("tab next · shift+tab previous · enter save · esc cancel"))
	return b.String()
}

// RenderDeleteConfirm renders the delete confirmation
func (m Model) RenderDeleteConfirm() string {
	src, ok := m.current()
	if !ok {
		return m.RenderMainView()
	}
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Delete source"))
	b.WriteString("\n")
	b.WriteString(m.separator())
	b.WriteString("\n")
	b.WriteString(m.styles.Normal.Render(fmt.Sprintf("Delete %q (%s)?", src.Name, src.Provider)))
	b.WriteString("\n")
	if src.ID == m.activeID {
		b.WriteString(m.styles.Error.Render("This is the active source."))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("y delete · n cancel"))
	return b.String()
}

// buildHelpLines returns the help page contents line by line
func (m Model) buildHelpLines() []string {
	lines := []string{m.styles.Title.Render("Keys"), ""}
	sections := []string{"Navigation", "Sources", "General"}
	for i, group := range m.keys.FullHelp() {
		lines = append(lines, m.styles.Section.Render(sections[i]))
		for _, k := range group {
			h := k.Help()
			lines = append(lines, fmt.Sprintf("  %s %s", m.styles.HelpKey.Width(10).Render(h.Key), m.styles.Help.Render(h.Desc)))
		}
		lines = append(lines, "")
	}
	lines = append(lines,
		m.styles.Section.Render("Theme"),
		m.styles.Help.Render("  t cycles system, light and dark. system follows the terminal."),
	)
	return lines
}

// RenderHelpView renders the scrollable help page
func (m Model) RenderHelpView() string {
	lines := m.buildHelpLines()
	visible := m.height - 6
	if visible < 5 {
		visible = 5
	}
	start := m.helpScrollOffset
	if start > len(lines) {
		start = len(lines)
	}
	end := start + visible
	if end > len(lines) {
		end = len(lines)
	}
	var b strings.Builder
	b.WriteString(strings.Join(lines[start:end], "\n"))
	b.WriteString("\n")
	b.WriteString(m.separator())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("j/k scroll · esc back"))
	return b.String()
}
