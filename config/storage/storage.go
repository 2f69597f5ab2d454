// Package storage provides the durable key-value backings the registry and
// preference stores persist into.
//
// Every backing maps a string key to a string value. Values are opaque here;
// the stores above decide the encoding.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
)

// Backing kinds accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// ErrUnknownBacking is returned by Open for an unsupported kind.
var ErrUnknownBacking = errors.New("unknown storage backing")

// Backing is durable string storage keyed by string.
type Backing interface {
	// Get returns the value stored under key. ok is false when nothing is stored.
	Get(key string) (value string, ok bool, err error)
	// Set replaces the value stored under key.
	Set(key, value string) error
	Close() error
}

// Restorer is implemented by backings that keep earlier values of a key.
type Restorer interface {
	// Restore replaces the value under key with the newest kept copy and
	// returns it.
	Restore(key string) (string, error)
}

// Open returns the backing of the given kind rooted at dir.
// backups is the retention count for the file backing.
func Open(kind, dir string, backups int) (Backing, error) {
	switch kind {
	case KindFile, "":
		return NewFile(dir, backups), nil
	case KindSQLite:
		return OpenSQLite(filepath.Join(dir, "provmgr.db"))
	case KindMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBacking, kind)
	}
}

// Memory is an in-process backing. Nothing survives the process.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ Backing = (*Memory)(nil)

// NewMemory creates an empty in-memory backing.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Close() error { return nil }
