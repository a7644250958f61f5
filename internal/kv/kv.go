// Package kv provides the durable key-value slots tally persists into.
//
// A slot stores opaque byte values under string keys. Every Put replaces
// the whole value, so readers only ever observe a complete snapshot.
package kv

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
)

// ErrNotFound is returned by Get when the key has never been written or
// was deleted.
var ErrNotFound = errors.New("key not found")

// Slot is a durable key-value store.
type Slot interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

// Backends lists the names accepted by Open, sorted.
func Backends() []string {
	names := []string{BackendFile, BackendSQLite, BackendBolt, BackendMemory}
	sort.Strings(names)
	return names
}

// Open opens the named backend rooted at dataDir.
func Open(backend, dataDir string) (Slot, error) {
	switch backend {
	case "", BackendFile:
		return OpenFile(dataDir)
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dataDir, "tally.db"))
	case BackendBolt:
		return OpenBolt(filepath.Join(dataDir, "tally.bolt"))
	case BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}
