// Package export writes a log history in human and machine readable forms.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/five82/fkconsole/internal/entry"
	"github.com/five82/fkconsole/internal/format"
)

// Format names an output encoding.
type Format string

const (
	Text  Format = "text"  // styled with terminal colors
	Plain Format = "plain" // origin and message, no styling
	YAML  Format = "yaml"
	JSON  Format = "json"
	Table Format = "table"
)

// ErrUnknownFormat is returned for a format name Write does not support.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{Text, Plain, YAML, JSON, Table}
}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFormat, name)
}

// record is the structured shape of one entry in yaml and json output.
type record struct {
	Time    string `json:"time" yaml:"time"`
	Level   string `json:"level" yaml:"level"`
	Origin  string `json:"origin" yaml:"origin"`
	Message string `json:"message" yaml:"message"`
}

func toRecords(entries []entry.Entry) []record {
	out := make([]record, 0, len(entries))
	for _, e := range entries {
		out = append(out, record{
			Time:    e.Timestamp.Format(entry.TimeLayout),
			Level:   e.Level.String(),
			Origin:  strings.TrimSuffix(e.Origin, "\n"),
			Message: e.Message,
		})
	}
	return out
}

// Write encodes entries to w. Text and Plain use style the same way the
// overlay does.
func Write(w io.Writer, entries []entry.Entry, f Format, style format.Style) error {
	switch f {
	case Text, Plain:
		return writeLines(w, entries, f, style)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(toRecords(entries)); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return nil
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(toRecords(entries)); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case Table:
		return writeTable(w, entries)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, string(f))
	}
}

func writeLines(w io.Writer, entries []entry.Entry, f Format, style format.Style) error {
	for _, e := range entries {
		run := style.Render(e)
		line := run.Plain()
		if f == Text {
			line = run.ANSI()
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return fmt.Errorf("write entry: %w", err)
		}
	}
	return nil
}

func writeTable(w io.Writer, entries []entry.Entry) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Time", "Level", "Call site", "Message"})
	for i, e := range entries {
		t.AppendRow(table.Row{
			strconv.Itoa(i + 1),
			e.Timestamp.Format(entry.TimeLayout),
			e.Level.String(),
			callSite(e),
			e.Message,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", strconv.Itoa(len(entries))})
	if _, err := io.WriteString(w, t.Render()+"\n"); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}

// callSite is the origin without its timestamp and trailing colon.
func callSite(e entry.Entry) string {
	site := strings.TrimSuffix(strings.TrimSuffix(e.Origin, "\n"), ":")
	if ts := e.Timestamp.Format(entry.TimeLayout); strings.HasPrefix(site, ts+" ") {
		site = strings.TrimPrefix(site, ts+" ")
	}
	return site
}
