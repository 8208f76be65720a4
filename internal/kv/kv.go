// Package kv provides the flat key-value slot that log history is persisted in.
package kv

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrNotFound is returned by Get when the key has never been set or was deleted.
var ErrNotFound = errors.New("key not found")

// Store is a durable mapping from keys to opaque byte blobs. Set overwrites.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

func checkKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}

// Open returns the backend named by kind rooted at dir. The sqlite backend keeps
// its database file inside dir.
func Open(kind, dir string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", BackendFile:
		return NewFileStore(dir)
	case BackendSQLite:
		return OpenSQL(filepath.Join(dir, "fkconsole.db"))
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", kind)
	}
}
