package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/fkconsole/internal/entry"
)

// Messages delivered from the console dispatcher into the event loop.
type (
	entryMsg   struct{ entry entry.Entry }
	clearedMsg struct{}
	showMsg    struct{}
	hideMsg    struct{}
)

type sender interface {
	Send(msg tea.Msg)
}

// programSink adapts a running program to console.Sink. Every callback is
// turned into a message, so all model state is touched only by the event loop.
type programSink struct {
	program sender
}

func (s programSink) OnEntryAppended(e entry.Entry) { s.program.Send(entryMsg{entry: e}) }
func (s programSink) OnCleared()                    { s.program.Send(clearedMsg{}) }
func (s programSink) OnShowRequested()              { s.program.Send(showMsg{}) }
func (s programSink) OnHideRequested()              { s.program.Send(hideMsg{}) }
