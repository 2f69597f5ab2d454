package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"provmgr/config"
	"provmgr/config/models"
	"provmgr/config/storage"
	"provmgr/internal/logging"
	"provmgr/internal/prefs"
	"provmgr/internal/registry"
	"provmgr/internal/tui"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// app is the per-invocation context shared by every subcommand.
type app struct {
	opts    config.Options
	logger  *slog.Logger
	backing storage.Backing
	reg     *registry.Registry
	prefs   *prefs.Mirror

	stopHint func()
}

// openApp loads options, applies flag overrides and opens the stores.
func openApp(cmd *cobra.Command) (*app, error) {
	flags := cmd.Flags()
	home, _ := flags.GetString("home")

	opts, err := config.Load(home)
	if err != nil {
		return nil, err
	}
	if v, _ := flags.GetString("backing"); v != "" {
		opts.Backing = strings.ToLower(v)
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		opts.LogLevel = v
	}

	level, err := logging.ParseLevel(opts.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.New(os.Stderr, level)

	backing, err := storage.Open(opts.Backing, opts.Home, opts.Backups)
	if err != nil {
		return nil, err
	}

	return newApp(opts, backing, logger), nil
}

// newApp wires the registry and preference mirror over backing.
func newApp(opts config.Options, backing storage.Backing, logger *slog.Logger) *app {
	var signal prefs.Signal = prefs.TerminalSignal{}
	if opts.AppearanceFile != "" {
		signal = prefs.NewFileSignal(opts.AppearanceFile, logger)
	}

	a := &app{
		opts:    opts,
		logger:  logger,
		backing: backing,
		reg:     registry.Open(backing, registry.WithLogger(logger)),
		prefs:   prefs.Open(backing, prefs.Options{Fallback: opts.ThemeFallback, Signal: signal, Logger: logger}),
	}

	a.prefs.SyncQwenHint(a.reg.Sources())
	a.stopHint = a.reg.Subscribe(func(st models.State) {
		a.prefs.SyncQwenHint(st.Sources)
	})

	logger.Debug("provmgr started", "home", opts.Home, "backing", opts.Backing, "language", a.prefs.Language())
	return a
}

// Close releases the stores. A persistence failure during the run is
// reported here so the command exits non-zero.
func (a *app) Close() error {
	a.stopHint()
	a.prefs.Close()
	err := errors.Join(a.reg.PersistErr(), a.prefs.PersistErr())
	if cerr := a.backing.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("failed to close storage: %w", cerr))
	}
	return err
}

type appRunE func(a *app, cmd *cobra.Command, args []string) error

// withApp opens the app around a command body.
func withApp(run appRunE) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		return run(a, cmd, args)
	}
}

func runRoot(a *app, cmd *cobra.Command, args []string) error {
	return tui.Run(a.reg, a.prefs, a.logger)
}

// resolveSource finds a source by id, or by case-insensitive name when the
// name is unique.
func resolveSource(reg *registry.Registry, ref string) (models.Source, error) {
	if src, ok := reg.Source(ref); ok {
		return src, nil
	}
	var found []models.Source
	for _, src := range reg.Sources() {
		if strings.EqualFold(src.Name, ref) {
			found = append(found, src)
		}
	}
	switch len(found) {
	case 0:
		return models.Source{}, fmt.Errorf("source not found: %s", ref)
	case 1:
		return found[0], nil
	default:
		return models.Source{}, fmt.Errorf("source name %q is ambiguous, use the id", ref)
	}
}

// isTerminal checks whether stdin is a terminal
func isTerminal() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
