package state

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/fkconsole/internal/entry"
)

// SchemaVersion is the persisted document version written by Encode.
const SchemaVersion = 1

// ErrDecode wraps every failure to turn persisted bytes back into history.
var ErrDecode = errors.New("decode log history")

// History is the persisted form of a store: the entries plus the session that
// wrote them.
type History struct {
	Session string
	SavedAt time.Time
	Entries []entry.Entry
}

type document struct {
	Version int       `toml:"version"`
	Session string    `toml:"session,omitempty"`
	SavedAt time.Time `toml:"saved_at"`
	Entries []record  `toml:"entries"`
}

// The string fields are pointers so a missing key is distinguishable from an
// empty string. A zero Time means the entry carried no timestamp.
type record struct {
	Info  *string   `toml:"info"`
	Log   *string   `toml:"log"`
	Level *string   `toml:"level"`
	Time  time.Time `toml:"time"`
}

// Encode serializes h as a versioned TOML document.
func Encode(h History) ([]byte, error) {
	doc := document{
		Version: SchemaVersion,
		Session: h.Session,
		SavedAt: h.SavedAt,
		Entries: make([]record, 0, len(h.Entries)),
	}
	for i, e := range h.Entries {
		if !e.Level.Valid() {
			return nil, fmt.Errorf("encode entry %d: %w", i, entry.ErrInvalidLevel)
		}
		info, msg, level := e.Origin, e.Message, e.Level.String()
		rec := record{Info: &info, Log: &msg, Level: &level}
		if !e.Timestamp.IsZero() {
			rec.Time = e.Timestamp
		}
		doc.Entries = append(doc.Entries, rec)
	}

	out, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode log history: %w", err)
	}
	return out, nil
}

// Decode parses bytes produced by Encode. Unknown keys, missing entry fields,
// unknown level names and unsupported versions are all reported as ErrDecode.
func Decode(raw []byte) (History, error) {
	var doc document
	dec := toml.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return History{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if doc.Version != SchemaVersion {
		return History{}, fmt.Errorf("%w: unsupported version %d", ErrDecode, doc.Version)
	}

	h := History{
		Session: doc.Session,
		SavedAt: doc.SavedAt,
		Entries: make([]entry.Entry, 0, len(doc.Entries)),
	}
	for i, rec := range doc.Entries {
		switch {
		case rec.Info == nil:
			return History{}, fmt.Errorf("%w: entry %d missing info", ErrDecode, i)
		case rec.Log == nil:
			return History{}, fmt.Errorf("%w: entry %d missing log", ErrDecode, i)
		case rec.Level == nil:
			return History{}, fmt.Errorf("%w: entry %d missing level", ErrDecode, i)
		}
		level, err := entry.ParseLevel(*rec.Level)
		if err != nil {
			return History{}, fmt.Errorf("%w: entry %d: %w", ErrDecode, i, err)
		}
		e := entry.Entry{Origin: *rec.Info, Message: *rec.Log, Level: level}
		if !rec.Time.IsZero() {
			e.Timestamp = rec.Time
		}
		h.Entries = append(h.Entries, e)
	}
	return h, nil
}
