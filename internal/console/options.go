package console

import (
	"fmt"
	"strings"
)

// MirrorOrder controls how entries are echoed to the mirror writer.
type MirrorOrder int

const (
	// MirrorOriginFirst writes the origin header, then the message.
	MirrorOriginFirst MirrorOrder = iota
	// MirrorMessageFirst writes the message, then the origin header.
	MirrorMessageFirst
	// MirrorOff disables console mirroring.
	MirrorOff
)

// ParseMirrorOrder maps a config value to a MirrorOrder. Empty means
// origin-first.
func ParseMirrorOrder(value string) (MirrorOrder, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "origin-first":
		return MirrorOriginFirst, nil
	case "message-first":
		return MirrorMessageFirst, nil
	case "off", "none":
		return MirrorOff, nil
	default:
		return MirrorOriginFirst, fmt.Errorf("unknown mirror order %q", value)
	}
}

// Lifecycle is a host application state change that may trigger a flush.
type Lifecycle string

const (
	ResignActive    Lifecycle = "resign-active"
	EnterBackground Lifecycle = "background"
	Terminate       Lifecycle = "terminate"
)

// DefaultPersistOn is the set of lifecycle events that flush by default.
func DefaultPersistOn() []Lifecycle {
	return []Lifecycle{EnterBackground, Terminate}
}

// ParseLifecycle validates a lifecycle name.
func ParseLifecycle(value string) (Lifecycle, error) {
	switch l := Lifecycle(strings.ToLower(strings.TrimSpace(value))); l {
	case ResignActive, EnterBackground, Terminate:
		return l, nil
	default:
		return "", fmt.Errorf("unknown lifecycle event %q", value)
	}
}
