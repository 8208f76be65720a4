// Package entry defines the immutable record of one captured log event.
package entry

import (
	"fmt"
	"time"
)

// Entry is one captured log event. All fields are plain values, so a copied
// Entry never shares state with the original.
type Entry struct {
	Timestamp time.Time
	Origin    string
	Level     Level
	Message   string
}

// New builds an entry stamped with the current time.
func New(origin string, level Level, value any) Entry {
	return Entry{
		Timestamp: time.Now(),
		Origin:    origin,
		Level:     level,
		Message:   Describe(value),
	}
}

// At builds an entry for site at time t, deriving the origin header.
func At(t time.Time, site CallSite, level Level, value any) Entry {
	return Entry{
		Timestamp: t,
		Origin:    site.Origin(t),
		Level:     level,
		Message:   Describe(value),
	}
}

// Describe converts an arbitrary value to its display string. A nil value
// becomes the empty string.
func Describe(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// Text is the plain rendering: origin header followed by the message.
func (e Entry) Text() string {
	return e.Origin + e.Message
}
