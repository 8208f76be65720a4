package state

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/five82/fkconsole/internal/entry"
	"github.com/five82/fkconsole/internal/kv"
)

// LogKey is the key the history is persisted under.
const LogKey = "FKConsoleLog"

// Store is the ordered, append-only log history. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries []entry.Entry
	persist bool

	backend   kv.Store
	session   string
	logger    *log.Logger
	restore   sync.Once
	persistMu sync.Mutex
}

// NewStore returns an empty store persisting through backend. A nil backend
// keeps history in memory only. A nil logger discards diagnostics.
func NewStore(backend kv.Store, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		persist: true,
		backend: backend,
		session: uuid.NewString(),
		logger:  logger,
	}
}

// Session identifies the process run that owns this store.
func (s *Store) Session() string {
	return s.session
}

// Append adds e to the end of the history.
func (s *Store) Append(e entry.Entry) {
	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()
}

// Clear drops every entry. Snapshots taken earlier keep their contents.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()
}

// Snapshot returns a copy of the current history.
func (s *Store) Snapshot() []entry.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEntries(s.entries)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// SetPersistenceEnabled toggles whether Persist and Restore touch the backend.
func (s *Store) SetPersistenceEnabled(enabled bool) {
	s.mu.Lock()
	s.persist = enabled
	s.mu.Unlock()
}

// PersistenceEnabled reports the current persistence setting.
func (s *Store) PersistenceEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persist
}

// Persist writes the full history under LogKey, overwriting any previous
// value. It is a no-op when persistence is disabled.
func (s *Store) Persist() error {
	// Held across snapshot and write so the last write always carries the
	// newest snapshot.
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.RLock()
	enabled := s.persist && s.backend != nil
	snap := cloneEntries(s.entries)
	s.mu.RUnlock()
	if !enabled {
		return nil
	}

	raw, err := Encode(History{Session: s.session, SavedAt: time.Now(), Entries: snap})
	if err != nil {
		return err
	}
	if err := s.backend.Set(LogKey, raw); err != nil {
		return fmt.Errorf("persist log history: %w", err)
	}
	return nil
}

// Restore loads persisted history the first time it is called. Restored
// entries are placed ahead of anything already appended. A missing key or an
// undecodable blob leaves the store as it was; nothing is reported to the
// caller.
func (s *Store) Restore() {
	s.restore.Do(func() {
		if !s.PersistenceEnabled() || s.backend == nil {
			return
		}
		h, err := ReadHistory(s.backend)
		if err != nil {
			s.logger.Debug("discarding persisted history", "err", err)
			return
		}
		if len(h.Entries) == 0 {
			return
		}
		s.mu.Lock()
		s.entries = append(h.Entries, s.entries...)
		s.mu.Unlock()
	})
}

// ReadHistory loads the history persisted in backend. A missing key yields an
// empty history and no error.
func ReadHistory(backend kv.Store) (History, error) {
	raw, err := backend.Get(LogKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return History{}, nil
		}
		return History{}, err
	}
	return Decode(raw)
}

// DeleteHistory removes any persisted history from backend.
func DeleteHistory(backend kv.Store) error {
	return backend.Delete(LogKey)
}

func cloneEntries(entries []entry.Entry) []entry.Entry {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]entry.Entry, len(entries))
	copy(dup, entries)
	return dup
}
