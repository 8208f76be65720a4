// Package app provides the orchestration layer for the console application.
//
// # Overview
//
// This package wires together configuration, the history store, the console,
// the crash bridge and the overlay. It is the composition root: the one
// console.Console of the process is built here and handed to everything that
// logs.
//
// # Architecture
//
//  1. Load config from ~/.config/fkconsole/config.toml and prefs
//  2. Open the kv backend named by `store` (file, sqlite or memory)
//  3. Build the Console and install the crash bridge
//  4. Restore the previous session's history
//  5. Build the overlay program, then optionally capture stdout
//  6. Run overlay, autosave, config watcher and fatal-signal watcher in an
//     errgroup; the overlay exiting cancels the rest
//  7. Close the console: drain the sink queue and persist once more
//
// # Components
//
//   - app.go: Run and its wiring helpers
//   - autosave.go: Periodic persist with exponential backoff on failure
//   - signals.go: SIGQUIT/SIGABRT become a recorded fatal entry
//   - history.go: Dump and ClearHistory for the CLI's offline commands
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()       Read config
//	       ├─────> kv.Open()           History backend
//	       ├─────> console.New()       The one Console
//	       ├─────> crash.Install()     Panic/fatal bridge
//	       ├─────> Console.Restore()   Previous session
//	       └─────> errgroup
//	                ├─> Program.Run()      Overlay (blocks)
//	                ├─> runAutosave()      when autosave_seconds > 0
//	                ├─> watchConfig()      live style changes
//	                └─> watchFatalSignals()
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Config file present but invalid
//   - History backend cannot be opened
//   - Mirror file cannot be opened
//
// Recoverable errors (logged to stderr through charmbracelet/log):
//   - Autosave failures (retried with backoff capped at 30 seconds)
//   - Config reload failures (previous settings stay active)
//   - Stdout capture failures
//
// A corrupt persisted history is never an error for Run; the console starts
// empty. Dump does report it, so the user can see why nothing was restored.
package app
