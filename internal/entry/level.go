package entry

import (
	"errors"
	"fmt"
)

// ErrInvalidLevel reports a level name outside the five known levels.
var ErrInvalidLevel = errors.New("invalid level kind")

// Level identifies how an entry is marked and colored. Levels are not a
// severity filter; every level is always recorded.
type Level int

const (
	Verbose Level = iota
	Debug
	Info
	Warning
	Error
)

var levelNames = [...]string{
	Verbose: "verbose",
	Debug:   "debug",
	Info:    "info",
	Warning: "warning",
	Error:   "error",
}

// Levels returns every level in display order.
func Levels() []Level {
	return []Level{Verbose, Debug, Info, Warning, Error}
}

// Valid reports whether l is one of the five known levels.
func (l Level) Valid() bool {
	return l >= Verbose && l <= Error
}

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel maps a level name back to its Level.
func ParseLevel(name string) (Level, error) {
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, int(l))
	}
	return []byte(levelNames[l]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
