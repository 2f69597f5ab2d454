package prefs

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"provmgr/internal/logging"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
)

// Signal is a platform dark/light appearance signal.
type Signal interface {
	// Dark reports whether the platform currently prefers a dark appearance.
	Dark() bool
	// Watch calls fn whenever the appearance changes, until stop is called.
	// fn may run on another goroutine.
	Watch(fn func(dark bool)) (stop func(), err error)
}

// TerminalSignal asks the terminal for its background color.
// Terminals do not announce background changes, so Watch never fires.
type TerminalSignal struct{}

func (TerminalSignal) Dark() bool { return lipgloss.HasDarkBackground() }

func (TerminalSignal) Watch(func(bool)) (func(), error) { return func() {}, nil }

// FileSignal reads the appearance from a file containing "dark" or "light",
// as written by desktop hooks such as darkman. A missing file means light.
type FileSignal struct {
	path   string
	logger *slog.Logger
}

// NewFileSignal returns a signal backed by the file at path.
func NewFileSignal(path string, logger *slog.Logger) *FileSignal {
	return &FileSignal{
		path:   filepath.Clean(path),
		logger: logging.Default(logger).With("component", "appearance", "path", path),
	}
}

func (s *FileSignal) Dark() bool {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}
	return string(bytes.ToLower(bytes.TrimSpace(data))) == "dark"
}

// Watch watches the parent directory so the file may be replaced atomically
// or created after the watch starts.
func (s *FileSignal) Watch(fn func(bool)) (func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %q: %w", filepath.Dir(s.path), err)
	}

	done := make(chan struct{})
	go s.watchLoop(w, s.Dark(), fn, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = w.Close()
			<-done
		})
	}, nil
}

func (s *FileSignal) watchLoop(w *fsnotify.Watcher, last bool, fn func(bool), done chan struct{}) {
	defer close(done)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != s.path {
				continue
			}
			if dark := s.Dark(); dark != last {
				last = dark
				fn(dark)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.Warn("appearance watcher error", "error", err)
		}
	}
}

// ManualSignal is a signal whose value is set by the program.
type ManualSignal struct {
	mu       sync.Mutex
	dark     bool
	watchers map[int]func(bool)
	next     int
}

// NewManualSignal returns a signal starting at the given appearance.
func NewManualSignal(dark bool) *ManualSignal {
	return &ManualSignal{dark: dark, watchers: make(map[int]func(bool))}
}

func (s *ManualSignal) Dark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dark
}

func (s *ManualSignal) Watch(fn func(bool)) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.watchers[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}, nil
}

// Set changes the appearance and notifies watchers when it differs.
func (s *ManualSignal) Set(dark bool) {
	s.mu.Lock()
	if s.dark == dark {
		s.mu.Unlock()
		return
	}
	s.dark = dark
	fns := make([]func(bool), 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(dark)
	}
}

// Watchers returns the number of active watches.
func (s *ManualSignal) Watchers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watchers)
}
