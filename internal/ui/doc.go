// Package ui provides the terminal overlay that renders the console log.
//
// # Architecture Overview
//
// The overlay is a Bubble Tea program standing in for a host application.
// It draws a host pane and, on request, a log panel that slides up from the
// bottom edge. It is the console's sink: Program.Run attaches a programSink,
// which turns every sink callback into a message for the event loop. Model
// state is therefore only touched by the Bubble Tea goroutine, never by the
// console's dispatcher.
//
// # Package Structure
//
//   - app.go: Model, Update/View, and the Program wrapper
//   - overlay.go: Show/hide state machine with timed transitions
//   - sink.go: console.Sink adapter over tea.Program.Send
//   - keys.go: Key bindings (bubbles/key) and help layout
//   - theme.go: Chrome palettes; entry colors come from the console style
//
// # Overlay States
//
//	Hidden --Show--> Showing --(300ms)--> Shown --Hide--> Hiding --(300ms)--> Hidden
//
// Show only acts from Hidden and Hide only from Shown. Requests during a
// transition are dropped. Transitions advance on frame ticks and complete
// once TransitionDuration has elapsed.
//
// # Event Flow
//
//  1. Program.Run attaches the sink; the console replays its history
//  2. Key "`" calls Console.Show or Console.Hide (never the overlay directly)
//  3. The dispatcher delivers showMsg/hideMsg/entryMsg/clearedMsg in order
//  4. Entries are rendered with Console.Render into a following viewport
//  5. Focus loss, suspend and quit are reported to Console.HandleLifecycle
//     as resign-active, background and terminate
//
// # Key Bindings
//
//   - `: Show/hide the console panel
//   - c: Clear the log
//   - m: Toggle per-level marks (saved to prefs)
//   - T: Cycle theme (saved to prefs)
//   - v/d/i/w/e: Log a demo entry at verbose/debug/info/warning/error
//   - j/k, g/G: Scroll; G resumes following the tail
//   - ?: Toggle full help
//   - ctrl+z: Suspend
//   - q or Ctrl+C: Exit
package ui
