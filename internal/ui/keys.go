package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the overlay.
type keyMap struct {
	// Global
	Toggle     key.Binding
	Quit       key.Binding
	Suspend    key.Binding
	Help       key.Binding
	CycleTheme key.Binding

	// Console actions
	Clear       key.Binding
	ToggleMarks key.Binding

	// Demo entries
	EmitVerbose key.Binding
	EmitDebug   key.Binding
	EmitInfo    key.Binding
	EmitWarning key.Binding
	EmitError   key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys("`"),
			key.WithHelp("`", "Show/hide console"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Suspend: key.NewBinding(
			key.WithKeys("ctrl+z"),
			key.WithHelp("ctrl+z", "Suspend"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),

		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Clear log"),
		),
		ToggleMarks: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Toggle level marks"),
		),

		EmitVerbose: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Log verbose"),
		),
		EmitDebug: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Log debug"),
		),
		EmitInfo: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "Log info"),
		),
		EmitWarning: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "Log warning"),
		),
		EmitError: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Log error"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Follow tail"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Clear, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Clear, k.ToggleMarks},
		{k.EmitVerbose, k.EmitDebug, k.EmitInfo, k.EmitWarning, k.EmitError},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.CycleTheme, k.Suspend, k.Help, k.Quit},
	}
}
