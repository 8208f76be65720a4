package console

import "github.com/five82/fkconsole/internal/entry"

// Sink is the rendering surface that displays entries. Every method is called
// from the console's single dispatch goroutine, in the order the console
// produced the notifications.
type Sink interface {
	OnEntryAppended(e entry.Entry)
	OnCleared()
	OnShowRequested()
	OnHideRequested()
}

type eventKind int

const (
	eventAppended eventKind = iota
	eventCleared
	eventShow
	eventHide
)

func (k eventKind) String() string {
	switch k {
	case eventAppended:
		return "appended"
	case eventCleared:
		return "cleared"
	case eventShow:
		return "show"
	case eventHide:
		return "hide"
	default:
		return "unknown"
	}
}

type event struct {
	kind  eventKind
	entry entry.Entry
	sink  Sink
}
