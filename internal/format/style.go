// Package format renders log entries into colored text runs.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/five82/fkconsole/internal/entry"
)

// OriginColor is the fixed color of the origin header.
const OriginColor = "#555555"

// Font describes how message text is drawn. Name and Size are advisory and
// only honoured by sinks that control typefaces; terminals use the flags.
type Font struct {
	Name   string
	Size   int
	Bold   bool
	Italic bool
	Faint  bool
}

// Style is the active color and mark configuration. It is a value; setters
// return a modified copy.
type Style struct {
	Colors   [5]string
	Marks    [5]string
	MarkMode bool
	Font     Font
}

// DefaultStyle returns the stock palette: white, cyan-blue, green, yellow, red.
func DefaultStyle() Style {
	return Style{
		Colors: [5]string{
			entry.Verbose: "#ffffff",
			entry.Debug:   "#00a0be",
			entry.Info:    "#83c057",
			entry.Warning: "#ffff00",
			entry.Error:   "#ff0000",
		},
		Marks: [5]string{
			entry.Verbose: "○",
			entry.Debug:   "◆",
			entry.Info:    "●",
			entry.Warning: "▲",
			entry.Error:   "✖",
		},
		Font: Font{Size: 15},
	}
}

// Color returns the color bound to level, or the verbose color for an
// out-of-range level.
func (s Style) Color(level entry.Level) string {
	if !level.Valid() {
		return s.Colors[entry.Verbose]
	}
	return s.Colors[level]
}

// Mark returns the glyph bound to level.
func (s Style) Mark(level entry.Level) string {
	if !level.Valid() {
		return ""
	}
	return s.Marks[level]
}

// WithColor returns s with level's color replaced.
func (s Style) WithColor(level entry.Level, color string) Style {
	if level.Valid() {
		s.Colors[level] = color
	}
	return s
}

// WithMark returns s with level's mark glyph replaced.
func (s Style) WithMark(level entry.Level, glyph string) Style {
	if level.Valid() {
		s.Marks[level] = glyph
	}
	return s
}

var namedColors = map[string]string{
	"white":    "#ffffff",
	"black":    "#000000",
	"red":      "#ff0000",
	"green":    "#00ff00",
	"blue":     "#0000ff",
	"yellow":   "#ffff00",
	"cyan":     "#00ffff",
	"magenta":  "#ff00ff",
	"gray":     "#808080",
	"darkgray": "#555555",
}

// ParseColor normalizes a color given as a name, "#rgb", "#rrggbb" or an ANSI
// 256 palette index.
func ParseColor(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return "", fmt.Errorf("color is empty")
	}
	if hex, ok := namedColors[strings.ReplaceAll(v, " ", "")]; ok {
		return hex, nil
	}
	if strings.HasPrefix(v, "#") {
		digits := v[1:]
		if len(digits) != 3 && len(digits) != 6 {
			return "", fmt.Errorf("invalid hex color %q", value)
		}
		if _, err := strconv.ParseUint(digits, 16, 32); err != nil {
			return "", fmt.Errorf("invalid hex color %q", value)
		}
		if len(digits) == 3 {
			digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
		}
		return "#" + digits, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > 255 {
		return "", fmt.Errorf("invalid color %q", value)
	}
	return strconv.Itoa(n), nil
}
