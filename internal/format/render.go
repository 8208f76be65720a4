package format

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/fkconsole/internal/entry"
)

// Segment is a run of text drawn in one color.
type Segment struct {
	Text   string
	Color  string
	Bold   bool
	Italic bool
	Faint  bool
}

// Run is an entry rendered as styled segments.
type Run []Segment

// Render turns e into an origin segment in OriginColor followed by the
// message in the level's color, prefixed by the level mark in mark mode.
func (s Style) Render(e entry.Entry) Run {
	msg := e.Message
	if s.MarkMode {
		if mark := s.Mark(e.Level); mark != "" {
			msg = mark + " " + msg
		}
	}
	run := make(Run, 0, 2)
	if e.Origin != "" {
		run = append(run, Segment{Text: e.Origin, Color: OriginColor})
	}
	run = append(run, Segment{
		Text:   msg,
		Color:  s.Color(e.Level),
		Bold:   s.Font.Bold,
		Italic: s.Font.Italic,
		Faint:  s.Font.Faint,
	})
	return run
}

// Plain concatenates the segment text without styling.
func (r Run) Plain() string {
	var b strings.Builder
	for _, seg := range r {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// ANSI renders the run with terminal colors. Each line is styled on its own
// so lipgloss never pads one line to match another.
func (r Run) ANSI() string {
	var b strings.Builder
	for _, seg := range r {
		st := lipgloss.NewStyle().
			Foreground(lipgloss.Color(seg.Color)).
			Bold(seg.Bold).
			Italic(seg.Italic).
			Faint(seg.Faint)
		for i, line := range strings.Split(seg.Text, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line != "" {
				b.WriteString(st.Render(line))
			}
		}
	}
	return b.String()
}
