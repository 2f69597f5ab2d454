// Package tui provides the terminal interface for provmgr: the source list
// used as the settings page, and the import confirmation screens.
package tui

import (
	"fmt"
	"log/slog"

	"provmgr/config/models"
	"provmgr/internal/importer"
	"provmgr/internal/logging"
	"provmgr/internal/prefs"
	"provmgr/internal/registry"
	"provmgr/internal/route"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view state
type ViewState int

const (
	ViewMain          ViewState = iota // source list
	ViewDetail                         // one source
	ViewAdd                            // add form
	ViewEdit                           // edit form
	ViewDelete                         // delete confirmation
	ViewHelp                           // key help
	ViewImportError                    // payload could not be parsed
	ViewImportConfirm                  // draft awaiting confirmation
	ViewImportDone                     // draft committed, undo available
	ViewImportUndone                   // committed draft removed
)

// Model is the core state model for TUI
type Model struct {
	reg    *registry.Registry
	prefs  *prefs.Mirror
	logger *slog.Logger

	keys   KeyMap
	help   help.Model
	styles Styles

	sources  []models.Source
	activeID string
	hint     bool
	cursor   int
	selected int

	viewState ViewState

	formInputs []textinput.Model
	formFocus  int
	editingID  string

	message  string
	errorMsg string

	width            int
	height           int
	scrollOffset     int
	helpScrollOffset int

	flow        *importer.Flow
	destination string
}

// NewModel creates the source list model.
func NewModel(reg *registry.Registry, mirror *prefs.Mirror, logger *slog.Logger) Model {
	m := Model{
		reg:         reg,
		prefs:       mirror,
		logger:      logging.Default(logger).With("component", "tui"),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		styles:      NewStyles(mirror.Resolved()),
		selected:    -1,
		viewState:   ViewMain,
		width:       80,
		height:      24,
		destination: route.Settings,
	}
	m.reload()
	return m
}

// NewImportModel creates a model that starts on the import screens of flow.
func NewImportModel(reg *registry.Registry, mirror *prefs.Mirror, flow *importer.Flow, logger *slog.Logger) Model {
	m := NewModel(reg, mirror, logger)
	m.flow = flow
	m.destination = route.Home
	switch flow.State() {
	case importer.AwaitingConfirm:
		m.viewState = ViewImportConfirm
	default:
		m.viewState = ViewImportError
	}
	return m
}

// Destination is where the user chose to go when the program ended.
func (m Model) Destination() string { return m.destination }

// CurrentView returns the view being shown.
func (m Model) CurrentView() ViewState { return m.viewState }

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// reload copies the registry and preference state into the model.
func (m *Model) reload() {
	st := m.reg.Snapshot()
	m.sources = st.Sources
	m.activeID = st.ActiveSourceID
	m.hint = m.prefs.ShowQwenHint()
	if len(m.sources) == 0 {
		m.cursor = 0
	} else if m.cursor >= len(m.sources) {
		m.cursor = len(m.sources) - 1
	}
	if m.selected >= len(m.sources) {
		m.selected = -1
	}
	m.adjustScrollOffset()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.adjustScrollOffset()
		return m, nil

	case SourcesChangedMsg:
		m.reload()
		return m, nil

	case PrefsChangedMsg:
		m.styles = NewStyles(msg.State.Resolved)
		m.hint = msg.State.Preferences.ShowQwenHint
		return m, nil

	case SourceSavedMsg:
		m.reload()
		if msg.Added {
			m.message = "Source added: " + msg.Name
		} else {
			m.message = "Source updated: " + msg.Name
		}
		m.viewState = ViewMain
		m.formInputs = nil
		m.formFocus = 0
		m.editingID = ""
		return m, nil

	case SourceDeletedMsg:
		m.reload()
		m.message = "Source deleted: " + msg.Name
		m.viewState = ViewMain
		return m, nil

	case ActiveSwitchedMsg:
		m.reload()
		m.message = "Now using: " + msg.Name
		return m, nil

	case SourceToggledMsg:
		m.reload()
		state := "disabled"
		if msg.Enabled {
			state = "enabled"
		}
		m.message = fmt.Sprintf("%s %s", msg.Name, state)
		return m, nil

	case ThemeChangedMsg:
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.styles = NewStyles(m.prefs.Resolved())
		m.message = "Theme: " + string(m.prefs.Theme())
		return m, nil

	case ImportConfirmedMsg:
		if msg.Err != nil {
			m.logger.Warn("import confirm failed", "error", msg.Err)
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.reload()
		m.viewState = ViewImportDone
		return m, nil

	case ImportUndoneMsg:
		if msg.Err != nil {
			m.logger.Warn("import undo failed", "error", msg.Err)
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.reload()
		m.viewState = ViewImportUndone
		return m, nil
	}

	return m, nil
}

// handleKeyMsg dispatches keyboard input by view
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if m.flow != nil {
			m.flow.Finalize()
		}
		return m, tea.Quit
	}

	switch m.viewState {
	case ViewMain:
		return m.handleMainViewKeys(msg)
	case ViewDetail:
		return m.handleDetailViewKeys(msg)
	case ViewAdd, ViewEdit:
		return m.handleFormViewKeys(msg)
	case ViewDelete:
		return m.handleDeleteViewKeys(msg)
	case ViewHelp:
		return m.handleHelpViewKeys(msg)
	case ViewImportError, ViewImportUndone:
		return m.leaveImport(route.Home)
	case ViewImportConfirm:
		return m.handleImportConfirmKeys(msg)
	case ViewImportDone:
		return m.handleImportDoneKeys(msg)
	}
	return m, nil
}

func (m *Model) clearStatus() {
	m.message = ""
	m.errorMsg = ""
}

func (m Model) current() (models.Source, bool) {
	if m.cursor < 0 || m.cursor >= len(m.sources) {
		return models.Source{}, false
	}
	return m.sources[m.cursor], true
}

// handleMainViewKeys handles keyboard input in main view
func (m Model) handleMainViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		m.moveDown()
		m.clearStatus()

	case key.Matches(msg, m.keys.Up):
		m.moveUp()
		m.clearStatus()

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.adjustScrollOffset()
		m.clearStatus()

	case key.Matches(msg, m.keys.Bottom):
		if len(m.sources) > 0 {
			m.cursor = len(m.sources) - 1
		}
		m.adjustScrollOffset()
		m.clearStatus()

	case key.Matches(msg, m.keys.Select):
		if len(m.sources) > 0 {
			m.selected = m.cursor
			m.viewState = ViewDetail
		}

	case key.Matches(msg, m.keys.Activate):
		if src, ok := m.current(); ok {
			m.clearStatus()
			return m, setActive(m.reg, src)
		}

	case key.Matches(msg, m.keys.Toggle):
		if src, ok := m.current(); ok {
			m.clearStatus()
			return m, toggleEnabled(m.reg, src)
		}

	case key.Matches(msg, m.keys.Add):
		m.initAddForm()

	case key.Matches(msg, m.keys.Edit):
		if _, ok := m.current(); ok {
			m.initEditForm()
		}

	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.current(); ok {
			m.viewState = ViewDelete
			m.clearStatus()
		}

	case key.Matches(msg, m.keys.Theme):
		m.clearStatus()
		return m, cycleTheme(m.prefs)

	case key.Matches(msg, m.keys.Help):
		m.viewState = ViewHelp
		m.helpScrollOffset = 0
	}
	return m, nil
}

// handleDetailViewKeys handles keyboard input in detail view
func (m Model) handleDetailViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.viewState = ViewMain
	case key.Matches(msg, m.keys.Activate), key.Matches(msg, m.keys.Toggle),
		key.Matches(msg, m.keys.Edit), key.Matches(msg, m.keys.Delete):
		if m.selected < 0 || m.selected >= len(m.sources) {
			return m, nil
		}
		m.cursor = m.selected
		if key.Matches(msg, m.keys.Activate) || key.Matches(msg, m.keys.Toggle) {
			m.viewState = ViewMain
		}
		return m.handleMainViewKeys(msg)
	case key.Matches(msg, m.keys.Help):
		m.viewState = ViewHelp
		m.helpScrollOffset = 0
	}
	return m, nil
}

// handleFormViewKeys handles keyboard input in the add/edit form
func (m Model) handleFormViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewState = ViewMain
		m.formInputs = nil
		m.formFocus = 0
		m.editingID = ""
		m.errorMsg = ""
		return m, nil

	case "tab", "down":
		m.formFocus = NextFormField(m.formInputs, m.formFocus)
		return m, nil

	case "shift+tab", "up":
		m.formFocus = PrevFormField(m.formInputs, m.formFocus)
		return m, nil

	case "enter":
		data := GetFormData(m.formInputs)
		if err := data.Validate(); err != nil {
			m.errorMsg = err.Error()
			return m, nil
		}
		m.errorMsg = ""
		if m.viewState == ViewEdit {
			return m, updateSource(m.reg, m.editingID, data)
		}
		return m, addSource(m.reg, data)
	}

	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

func (m *Model) initAddForm() {
	m.formInputs = FormInputs()
	m.formFocus = 0
	m.editingID = ""
	m.viewState = ViewAdd
	m.clearStatus()
}

func (m *Model) initEditForm() {
	src, ok := m.current()
	if !ok {
		return
	}
	m.formInputs = FormInputs()
	SetFormData(m.formInputs, FormDataFromSource(src))
	m.formFocus = 0
	m.editingID = src.ID
	m.viewState = ViewEdit
	m.clearStatus()
}

// handleDeleteViewKeys handles the delete confirmation
func (m Model) handleDeleteViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if src, ok := m.current(); ok {
			return m, deleteSource(m.reg, src)
		}
		m.viewState = ViewMain
	case "n", "N", "esc":
		m.viewState = ViewMain
		m.message = "Delete cancelled"
	}
	return m, nil
}

// handleHelpViewKeys scrolls or closes the help page
func (m Model) handleHelpViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Help):
		m.viewState = ViewMain
	case key.Matches(msg, m.keys.Down):
		if m.helpScrollOffset < m.maxHelpScroll() {
			m.helpScrollOffset++
		}
	case key.Matches(msg, m.keys.Up):
		if m.helpScrollOffset > 0 {
			m.helpScrollOffset--
		}
	}
	return m, nil
}

// handleImportConfirmKeys handles the confirmation step of an import
func (m Model) handleImportConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "y", "Y":
		return m, confirmImport(m.flow)
	case "n", "N", "esc", "q":
		return m.leaveImport(route.Home)
	}
	return m, nil
}

// handleImportDoneKeys handles the success step of an import
func (m Model) handleImportDoneKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Undo):
		return m, undoImport(m.flow)
	case key.Matches(msg, m.keys.Settings):
		m.flow.Finalize()
		m.destination = route.Settings
		m.viewState = ViewMain
		for i, s := range m.sources {
			if s.ID == m.flow.CommittedID() {
				m.cursor = i
			}
		}
		m.adjustScrollOffset()
		m.message = "Imported: " + m.flow.Draft().Name
		return m, nil
	case key.Matches(msg, m.keys.HomeKey):
		return m.leaveImport(route.Home)
	}
	return m, nil
}

// leaveImport finalizes the flow and ends the program at dest.
func (m Model) leaveImport(dest string) (tea.Model, tea.Cmd) {
	if m.flow != nil {
		m.flow.Finalize()
	}
	m.destination = dest
	return m, tea.Quit
}

func (m *Model) moveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
	m.adjustScrollOffset()
}

func (m *Model) moveDown() {
	if m.cursor < len(m.sources)-1 {
		m.cursor++
	}
	m.adjustScrollOffset()
}

// visibleListHeight is the number of list rows that fit between header and status bar.
func (m *Model) visibleListHeight() int {
	reserved := 8
	if m.hint {
		reserved += 2
	}
	if h := m.height - reserved; h > 3 {
		return h
	}
	return 3
}

// adjustScrollOffset keeps the cursor inside the visible window
func (m *Model) adjustScrollOffset() {
	visible := m.visibleListHeight()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}
	if last := len(m.sources) - visible; m.scrollOffset > last {
		m.scrollOffset = last
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

func (m *Model) maxHelpScroll() int {
	n := len(m.buildHelpLines()) - (m.height - 6)
	if n < 0 {
		return 0
	}
	return n
}

// View renders the UI
func (m Model) View() string {
	switch m.viewState {
	case ViewHelp:
		return m.RenderHelpView()
	case ViewDetail:
		return m.RenderDetailView()
	case ViewAdd, ViewEdit:
		return m.RenderFormView()
	case ViewDelete:
		return m.RenderDeleteConfirm()
	case ViewImportError:
		return m.RenderImportError()
	case ViewImportConfirm:
		return m.RenderImportConfirm()
	case ViewImportDone:
		return m.RenderImportDone()
	case ViewImportUndone:
		return m.RenderImportUndone()
	default:
		return m.RenderMainView()
	}
}

// Commands. Registry mutations run here, off the update loop, so that
// subscribers forwarding into the program never block it.

func addSource(reg *registry.Registry, data FormData) tea.Cmd {
	return func() tea.Msg {
		fields := data.Fields()
		id := reg.AddSource(fields)
		return SourceSavedMsg{ID: id, Name: fields.Name, Added: true}
	}
}

func updateSource(reg *registry.Registry, id string, data FormData) tea.Cmd {
	return func() tea.Msg {
		reg.UpdateSource(id, data.Patch())
		return SourceSavedMsg{ID: id, Name: data.Fields().Name}
	}
}

func deleteSource(reg *registry.Registry, src models.Source) tea.Cmd {
	return func() tea.Msg {
		reg.RemoveSource(src.ID)
		return SourceDeletedMsg{Name: src.Name}
	}
}

func setActive(reg *registry.Registry, src models.Source) tea.Cmd {
	return func() tea.Msg {
		reg.SetActiveSource(src.ID)
		return ActiveSwitchedMsg{Name: src.Name}
	}
}

func toggleEnabled(reg *registry.Registry, src models.Source) tea.Cmd {
	return func() tea.Msg {
		enabled := !src.Enabled
		reg.UpdateSource(src.ID, models.SourcePatch{Enabled: &enabled})
		return SourceToggledMsg{Name: src.Name, Enabled: enabled}
	}
}

// nextTheme cycles system -> light -> dark -> system.
func nextTheme(t models.Theme) models.Theme {
	switch t {
	case models.ThemeSystem:
		return models.ThemeLight
	case models.ThemeLight:
		return models.ThemeDark
	}
	return models.ThemeSystem
}

func cycleTheme(mirror *prefs.Mirror) tea.Cmd {
	return func() tea.Msg {
		return ThemeChangedMsg{Err: mirror.SetTheme(nextTheme(mirror.Theme()))}
	}
}

func confirmImport(flow *importer.Flow) tea.Cmd {
	return func() tea.Msg {
		id, err := flow.Confirm()
		return ImportConfirmedMsg{ID: id, Err: err}
	}
}

func undoImport(flow *importer.Flow) tea.Cmd {
	return func() tea.Msg {
		return ImportUndoneMsg{Err: flow.Undo()}
	}
}
