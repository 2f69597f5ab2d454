// Package registry owns the configured provider sources and the active selection.
//
// The registry keeps the authoritative state in memory and writes the whole
// state to its backing after every mutation. Mutators never fail: an id that
// does not resolve turns the call into a no-op, and a failed write is logged
// and kept in PersistErr while the in-memory state stays authoritative.
// Callers are interactive surfaces that already show the current state, so a
// stale id can only come from a race and there is nothing useful to report.
package registry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"provmgr/config/models"
	"provmgr/config/storage"
	"provmgr/internal/logging"
	"provmgr/internal/providers"
	"provmgr/internal/utils"

	"github.com/google/uuid"
)

// StorageKey is the backing key holding the serialized registry.
const StorageKey = "ai-store"

const currentVersion = 1

// envelope is the versioned persisted format.
type envelope struct {
	Version int          `json:"version"`
	State   models.State `json:"state"`
}

// Registry is the source registry. It is safe for use from multiple goroutines;
// mutations are serialized and each one is persisted before the next starts.
type Registry struct {
	mu      sync.Mutex
	backing storage.Backing
	state   models.State
	logger  *slog.Logger
	newID   func() string

	subs    map[int]func(models.State)
	nextSub int

	persistErr error
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger. Without it the registry logs nothing.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithIDGenerator replaces the UUIDv7 id generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) { r.newID = fn }
}

// Open loads the registry from backing. When nothing has been persisted yet,
// the default sources are seeded and written. A value that does not decode is
// replaced by the newest backup when the backing keeps one. Otherwise, and
// when the value cannot be read at all, the seeds are used in memory and the
// stored value is not overwritten until the first mutation.
func Open(backing storage.Backing, opts ...Option) *Registry {
	r := &Registry{
		backing: backing,
		newID:   func() string { return uuid.Must(uuid.NewV7()).String() },
		subs:    make(map[int]func(models.State)),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.Default(r.logger).With("component", "registry")

	raw, ok, err := backing.Get(StorageKey)
	switch {
	case err != nil:
		r.logger.Warn("failed to read persisted sources, using defaults", "error", err)
		r.state = r.seedState()
	case !ok:
		r.state = r.seedState()
		r.logger.Info("seeded default sources", "count", len(r.state.Sources))
		r.persist()
	default:
		st, err := Decode([]byte(raw))
		if err != nil {
			st, err = r.restore(err)
		}
		if err != nil {
			r.logger.Warn("persisted sources are corrupt, using defaults", "error", err)
			st = r.seedState()
		}
		r.state = repair(st)
	}
	return r
}

// restore falls back to the backing's previous value after cause.
func (r *Registry) restore(cause error) (models.State, error) {
	rs, ok := r.backing.(storage.Restorer)
	if !ok {
		return models.State{}, cause
	}
	raw, err := rs.Restore(StorageKey)
	if err != nil {
		return models.State{}, fmt.Errorf("%w (restore: %v)", cause, err)
	}
	st, err := Decode([]byte(raw))
	if err != nil {
		return models.State{}, fmt.Errorf("%w (restored backup: %v)", cause, err)
	}
	r.logger.Warn("persisted sources were corrupt, restored from backup", "error", cause)
	return st, nil
}

func (r *Registry) seedState() models.State {
	st := models.State{Sources: []models.Source{}}
	for _, f := range providers.Seeds() {
		st.Sources = append(st.Sources, r.build(st, f))
	}
	if len(st.Sources) > 0 {
		st.ActiveSourceID = st.Sources[0].ID
	}
	return st
}

// build creates a Source with a fresh id that is unique within st.
func (r *Registry) build(st models.State, f models.SourceFields) models.Source {
	id := r.newID()
	for st.Find(id) >= 0 {
		id = r.newID()
	}
	src := models.Source{
		ID:       id,
		Name:     f.Name,
		Provider: f.Provider,
		Model:    f.Model,
		APIKey:   normalizeKey(f.APIKey),
		BaseURL:  utils.TrimBaseURL(f.BaseURL),
		Enabled:  f.Enabled,
	}
	if src.BaseURL == "" {
		src.BaseURL = providers.DefaultBaseURL(src.Provider)
	}
	return src
}

// AddSource appends a new source and returns its id. The first source added to
// an empty registry becomes active; otherwise the active selection is kept.
func (r *Registry) AddSource(f models.SourceFields) string {
	var id string
	r.mutate(func(st *models.State) bool {
		src := r.build(*st, f)
		id = src.ID
		st.Sources = append(st.Sources, src)
		if st.ActiveSourceID == "" {
			st.ActiveSourceID = src.ID
		}
		return true
	})
	return id
}

// UpdateSource merges the non-nil patch fields into the source with the given id.
// Unknown ids are ignored.
func (r *Registry) UpdateSource(id string, p models.SourcePatch) {
	r.mutate(func(st *models.State) bool {
		i := st.Find(id)
		if i < 0 {
			return false
		}
		src := &st.Sources[i]
		if p.Name != nil {
			src.Name = *p.Name
		}
		if p.Provider != nil {
			src.Provider = *p.Provider
		}
		if p.Model != nil {
			src.Model = *p.Model
		}
		if p.APIKey != nil {
			src.APIKey = normalizeKey(p.APIKey)
		}
		if p.Enabled != nil {
			src.Enabled = *p.Enabled
		}
		if p.BaseURL != nil {
			src.BaseURL = utils.TrimBaseURL(*p.BaseURL)
		}
		if src.BaseURL == "" {
			src.BaseURL = providers.DefaultBaseURL(src.Provider)
		}
		return true
	})
}

// RemoveSource deletes the source with the given id. Removing the active source
// activates the first remaining one, or clears the selection. Unknown ids are ignored.
func (r *Registry) RemoveSource(id string) {
	r.mutate(func(st *models.State) bool {
		i := st.Find(id)
		if i < 0 {
			return false
		}
		st.Sources = append(st.Sources[:i], st.Sources[i+1:]...)
		if st.ActiveSourceID == id {
			st.ActiveSourceID = ""
			if len(st.Sources) > 0 {
				st.ActiveSourceID = st.Sources[0].ID
			}
		}
		return true
	})
}

// SetActiveSource selects the source with the given id. Unknown ids are ignored.
func (r *Registry) SetActiveSource(id string) {
	r.mutate(func(st *models.State) bool {
		if st.Find(id) < 0 {
			return false
		}
		st.ActiveSourceID = id
		return true
	})
}

// Sources returns a copy of the sources in insertion order.
func (r *Registry) Sources() []models.Source {
	return r.Snapshot().Sources
}

// Source returns the source with the given id.
func (r *Registry) Source(id string) (models.Source, bool) {
	st := r.Snapshot()
	if i := st.Find(id); i >= 0 {
		return st.Sources[i], true
	}
	return models.Source{}, false
}

// ActiveSource returns the active source, if any.
func (r *Registry) ActiveSource() (models.Source, bool) {
	st := r.Snapshot()
	if i := st.Find(st.ActiveSourceID); i >= 0 {
		return st.Sources[i], true
	}
	return models.Source{}, false
}

// ActiveSourceID returns the active source id, or "" when none is selected.
func (r *Registry) ActiveSourceID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.ActiveSourceID
}

// Snapshot returns a deep copy of the current state.
func (r *Registry) Snapshot() models.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone()
}

// Subscribe registers fn to receive the new state after every effective mutation.
// fn runs on the mutating goroutine after the write has completed.
func (r *Registry) Subscribe(fn func(models.State)) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// PersistErr returns the error of the most recent write, or nil if it succeeded.
func (r *Registry) PersistErr() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.persistErr
}

// mutate applies fn to the state; when fn reports a change the state is
// persisted and subscribers are notified.
func (r *Registry) mutate(fn func(st *models.State) bool) {
	r.mu.Lock()
	if !fn(&r.state) {
		r.mu.Unlock()
		return
	}
	r.persist()
	snapshot := r.state.Clone()
	subs := make([]func(models.State), 0, len(r.subs))
	for _, s := range r.subs {
		subs = append(subs, s)
	}
	r.mu.Unlock()

	for _, s := range subs {
		s(snapshot.Clone())
	}
}

// persist writes the state. Callers hold r.mu.
func (r *Registry) persist() {
	data, err := Encode(r.state)
	if err == nil {
		err = r.backing.Set(StorageKey, string(data))
	}
	r.persistErr = err
	if err != nil {
		r.logger.Warn("failed to persist sources", "error", err)
	}
}

// Encode serializes a registry state.
func Encode(st models.State) ([]byte, error) {
	if st.Sources == nil {
		st.Sources = []models.Source{}
	}
	data, err := json.MarshalIndent(envelope{Version: currentVersion, State: st}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize sources: %w", err)
	}
	return data, nil
}

// Decode parses a serialized registry state.
func Decode(data []byte) (models.State, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return models.State{}, fmt.Errorf("failed to parse sources: %w", err)
	}
	if env.Version == 0 {
		return models.State{}, fmt.Errorf("unversioned sources document")
	}
	if env.Version > currentVersion {
		return models.State{}, fmt.Errorf("sources version %d is newer than supported version %d", env.Version, currentVersion)
	}
	if env.State.Sources == nil {
		env.State.Sources = []models.Source{}
	}
	return env.State, nil
}

// repair restores the registry invariants on loaded data: unique ids and an
// active id that resolves whenever sources exist.
func repair(st models.State) models.State {
	seen := make(map[string]bool, len(st.Sources))
	kept := st.Sources[:0]
	for _, s := range st.Sources {
		if s.ID == "" || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		kept = append(kept, s)
	}
	st.Sources = kept

	if !seen[st.ActiveSourceID] {
		st.ActiveSourceID = ""
		if len(st.Sources) > 0 {
			st.ActiveSourceID = st.Sources[0].ID
		}
	}
	return st
}

// normalizeKey trims the key and maps empty keys to nil.
func normalizeKey(key *string) *string {
	if key == nil {
		return nil
	}
	k := strings.TrimSpace(*key)
	if k == "" {
		return nil
	}
	return &k
}
