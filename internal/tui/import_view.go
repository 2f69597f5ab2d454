package tui

import (
	"strings"
)

// RenderImportError renders a payload that could not be parsed.
func (m Model) RenderImportError() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Import"))
	b.WriteString("\n")
	b.WriteString(m.separator())
	b.WriteString("\n")
	b.WriteString(m.styles.Error.Render("The shared source could not be read."))
	b.WriteString("\n")
	if err := m.flow.Err(); err != nil {
		b.WriteString(m.styles.Dim.Render(err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("press any key to go home"))
	return b.String()
}

// RenderImportConfirm renders the draft and asks for confirmation.
func (m Model) RenderImportConfirm() string {
	d := m.flow.Draft()
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Import source"))
	b.WriteString("\n")
	b.WriteString(m.separator())
	b.WriteString("\n")
	b.WriteString(m.renderSource(d.Name, d.Provider, d.Model, d.BaseURL, d.Key))
	b.WriteString("\n")
	b.WriteString(m.separator())
	b.WriteString("\n")
	if s := m.renderStatus(); s != "" {
		b.WriteString(s)
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(importConfirmKeys{m.keys}))
	return b.String()
}

// RenderImportDone renders the committed import with the undo option.
func (m Model) RenderImportDone() string {
	d := m.flow.Draft()
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Imported"))
	b.WriteString(" ")
	b.WriteString(m.styles.Tag.Render(d.Name))
	b.WriteString("\n")
	b.WriteString(m.separator())
	b.WriteString("\n")
	if m.flow.CommittedID() == m.activeID {
		b.WriteString(m.styles.Message.Render("It is now the active source."))
	} else {
		b.WriteString(m.styles.Normal.Render("Added to your sources."))
	}
	b.WriteString("\n")
	if s := m.renderStatus(); s != "" {
		b.WriteString(s)
		b.WriteString("\n")
	}
	b.WriteString(m.separator())
	b.WriteString("\n")
	b.WriteString(m.help.View(importDoneKeys{m.keys}))
	return b.String()
}

// RenderImportUndone renders the result of an undo.
func (m Model) RenderImportUndone() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Import undone"))
	b.WriteString("\n")
	b.WriteString(m.separator())
	b.WriteString("\n")
	b.WriteString(m.styles.Normal.Render("The imported source was removed."))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Help.Render("press any key to go home"))
	return b.String()
}
