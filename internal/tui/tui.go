package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"provmgr/config/models"
	"provmgr/internal/importer"
	"provmgr/internal/prefs"
	"provmgr/internal/registry"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrNoTerminal is returned when stdin is not a terminal.
var ErrNoTerminal = errors.New("provmgr TUI requires a terminal, use subcommands for non-interactive mode")

// Run starts the source list interface
func Run(reg *registry.Registry, mirror *prefs.Mirror, logger *slog.Logger) error {
	if !isTerminal() {
		return ErrNoTerminal
	}
	_, err := run(NewModel(reg, mirror, logger), reg, mirror)
	return err
}

// RunImport shows the import screens for flow and returns where the user
// chose to go afterwards. Choosing settings keeps the program running on
// the source list.
func RunImport(reg *registry.Registry, mirror *prefs.Mirror, flow *importer.Flow, logger *slog.Logger) (string, error) {
	if !isTerminal() {
		return "", ErrNoTerminal
	}
	final, err := run(NewImportModel(reg, mirror, flow, logger), reg, mirror)
	if err != nil {
		return "", err
	}
	return final.Destination(), nil
}

func run(m Model, reg *registry.Registry, mirror *prefs.Mirror) (Model, error) {
	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
	}
	if os.Getenv("TERM") != "" {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(m, opts...)

	// Send blocks until the program reads the message, and subscribers run
	// inside mutations started from Update commands.
	stopSources := reg.Subscribe(func(models.State) { go p.Send(SourcesChangedMsg{}) })
	defer stopSources()
	stopPrefs := mirror.Subscribe(func(st prefs.State) { go p.Send(PrefsChangedMsg{State: st}) })
	defer stopPrefs()

	final, err := p.Run()
	if err != nil {
		return m, fmt.Errorf("run tui: %w", err)
	}
	if fm, ok := final.(Model); ok {
		return fm, nil
	}
	return m, nil
}

// isTerminal checks if stdin is a terminal
func isTerminal() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
