// Package config loads the console configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/fkconsole/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// Unlike preferences, a config file that exists but cannot be parsed is an
// error: the user asked for something specific and should hear about it.
//
// # TOML Format
//
//	persist = true                  # save history across restarts
//	store = "file"                  # file | sqlite | memory
//	store_path = "~/.local/share/fkconsole"
//	mirror = "origin-first"         # origin-first | message-first | off
//	persist_on = ["background", "terminate"]  # also: resign-active
//	autosave_seconds = 0            # 0 disables periodic saves
//	capture_print = false           # route stdout lines into verbose entries
//	log_level = "warn"              # internal diagnostics on stderr
//	mark_mode = false
//
//	[colors]
//	verbose = "white"
//	debug = "#00a0be"
//	info = "#83c057"
//	warning = "yellow"
//	error = "red"
//
//	[marks]
//	error = "✖"
//
//	[font]
//	bold = false
//	italic = false
//	faint = false
//
// Colors accept names, #rgb, #rrggbb or an ANSI 256 palette index.
//
// # Live Reload
//
// Watch re-reads the file on change (debounced) so colors, marks and the
// mirror settings can be tuned while the console is open.
package config
