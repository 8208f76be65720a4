// Package state holds the in-memory log history and its persisted form.
//
// # Overview
//
// Store is the single shared mutable resource of the console. Producers append
// under a write lock; readers get copies:
//
//	Producers (any goroutine):       Readers (sink, export):
//	┌──────────────────┐            ┌──────────────────┐
//	│ console.Info(v)  │            │                  │
//	│       ↓          │            │                  │
//	│ store.Append(e)  │───────────→│ store.Snapshot() │
//	│                  │  (mutex)   │       ↓          │
//	│                  │            │ render entries   │
//	└──────────────────┘            └──────────────────┘
//
// # Snapshot Semantics
//
// Snapshot always returns a fresh slice. Clear replaces the backing slice, so a
// snapshot taken before Clear keeps every entry it had. Entries themselves are
// plain values and need no deep copy.
//
// # Persistence
//
// The history is persisted as one blob under LogKey in a kv.Store:
//
//	version = 1
//	session = "5f0c…"
//	saved_at = 2026-10-19T09:41:07Z
//
//	[[entries]]
//	info = "2026-10-19 09:41:07.250 main.run() [line 42]:\n"
//	log = "hello"
//	level = "info"
//	time = 2026-10-19T09:41:07.25Z
//
// Persist overwrites the blob on every call, so repeated calls with no new
// entries store the same sequence. Restore runs once; a missing key or a blob
// that fails to decode (unknown keys, missing fields, a level name outside the
// known five, an unsupported version) leaves the store empty. A corrupt cache
// is never fatal.
//
// Persisting is synchronous with respect to the backend write and is not
// retried. Entries appended after the last Persist are lost if the process is
// killed.
package state
