// Package prefs remembers what the user picked inside the overlay (theme and
// mark mode) across runs. The file lives next to the config at
// ~/.config/fkconsole/prefs.toml and is rewritten whenever a choice changes.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/fkconsole/internal/config"
)

// Prefs holds the choices a user makes from inside the overlay. ShowMarks is
// OR-ed with the config's mark_mode at startup, so it can only turn marks on.
type Prefs struct {
	Theme     string `toml:"theme"`
	ShowMarks bool   `toml:"show_marks"`
}

const (
	defaultPrefsPath = "~/.config/fkconsole/prefs.toml"
	defaultTheme     = "Nightfox"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Default returns the preferences used when nothing has been saved.
func Default() Prefs {
	return Prefs{Theme: defaultTheme}
}

func (p Prefs) normalized() Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	return p
}

// Load reads preferences from path, or the default location when path is
// empty. Preferences are cosmetic: an unreadable or malformed file yields
// defaults rather than an error, and unknown keys are ignored so an older
// binary can read a newer file.
func Load(path string) Prefs {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default()
	}
	raw, err := os.ReadFile(resolved)
	if err != nil {
		return Default()
	}
	p := Default()
	if err := toml.Unmarshal(raw, &p); err != nil {
		return Default()
	}
	return p.normalized()
}

// Save replaces the preferences file at path. The write goes through a temp
// file in the same directory so a crash mid-save keeps the previous choices.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve prefs path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	raw, err := toml.Marshal(p.normalized())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(resolved), ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	_, writeErr := tmp.Write(raw)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("commit prefs: %w", err)
	}
	return nil
}

// Update loads the preferences at path, applies fn and saves the result.
// Fields fn leaves alone keep whatever is on disk.
func Update(path string, fn func(*Prefs)) error {
	p := Load(path)
	fn(&p)
	return Save(path, p)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	return config.ExpandPath(path)
}
