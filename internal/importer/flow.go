// Package importer implements the import transaction for share links: parse a
// payload into a draft, let the user confirm it into the registry, and allow
// a single undo until the user moves on.
//
// Parsing never touches the registry. Confirm is the only mutation and Undo
// the only way to unwind it.
package importer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"provmgr/config/models"
	"provmgr/internal/logging"
)

var (
	// ErrNoPayload means the link carried no payload; callers redirect home.
	ErrNoPayload = errors.New("no import payload")
	// ErrParse means the payload is malformed or incomplete.
	ErrParse = errors.New("invalid import payload")
	// ErrNotAwaiting is returned by Confirm outside the confirmation step.
	ErrNotAwaiting = errors.New("import is not awaiting confirmation")
	// ErrFinalized is returned by Undo once the import can no longer be undone.
	ErrFinalized = errors.New("import can no longer be undone")
)

// State is a step of the import flow.
type State int

const (
	Loading State = iota
	ParseError
	AwaitingConfirm
	Committed
	Undone
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case ParseError:
		return "parse-error"
	case AwaitingConfirm:
		return "awaiting-confirm"
	case Committed:
		return "committed"
	case Undone:
		return "undone"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Registry is the part of the source registry the flow mutates.
type Registry interface {
	AddSource(models.SourceFields) string
	RemoveSource(id string)
}

// Flow is one import transaction.
type Flow struct {
	mu          sync.Mutex
	reg         Registry
	logger      *slog.Logger
	state       State
	draft       Draft
	err         error
	committedID string
	finalized   bool
}

// Start parses payload and returns a flow in AwaitingConfirm or ParseError.
// An empty payload returns ErrNoPayload and no flow.
func Start(reg Registry, payload string, logger *slog.Logger) (*Flow, error) {
	if payload == "" {
		return nil, ErrNoPayload
	}
	f := &Flow{
		reg:    reg,
		logger: logging.Default(logger).With("component", "import"),
		state:  Loading,
	}

	draft, err := Parse(payload)
	if err != nil {
		f.state = ParseError
		f.err = err
		f.logger.Debug("import payload rejected", "error", err)
		return f, nil
	}
	f.draft = draft
	f.state = AwaitingConfirm
	return f, nil
}

// Confirm adds the draft to the registry and returns the new source id.
func (f *Flow) Confirm() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != AwaitingConfirm || f.finalized {
		return "", fmt.Errorf("%w (state %s)", ErrNotAwaiting, f.state)
	}
	f.committedID = f.reg.AddSource(f.draft.Fields())
	f.state = Committed
	f.logger.Info("imported source", "id", f.committedID, "provider", f.draft.Provider)
	return f.committedID, nil
}

// Undo removes the committed source and discards the draft.
func (f *Flow) Undo() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Committed || f.finalized {
		return fmt.Errorf("%w (state %s)", ErrFinalized, f.state)
	}
	f.reg.RemoveSource(f.committedID)
	f.logger.Info("undid import", "id", f.committedID)
	f.state = Undone
	f.draft = Draft{}
	return nil
}

// Finalize ends the flow because the user navigated away. A committed source
// stays; an unconfirmed draft is dropped.
func (f *Flow) Finalize() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finalized = true
	if f.state != Committed {
		f.draft = Draft{}
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Err returns the parse error when the flow is in ParseError.
func (f *Flow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *Flow) CommittedID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.committedID
}

// Finalized reports whether the user has left the flow.
func (f *Flow) Finalized() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.finalized
}
