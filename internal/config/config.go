package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/fkconsole/internal/console"
	"github.com/five82/fkconsole/internal/entry"
	"github.com/five82/fkconsole/internal/format"
	"github.com/five82/fkconsole/internal/kv"
)

// Config is the resolved console configuration.
type Config struct {
	Persist      bool
	Store        string
	StorePath    string
	MirrorOrder  console.MirrorOrder
	PersistOn    []console.Lifecycle
	Autosave     time.Duration
	CapturePrint bool
	LogLevel     log.Level
	Style        format.Style
}

const (
	defaultConfigPath = "~/.config/fkconsole/config.toml"
	defaultStorePath  = "~/.local/share/fkconsole"
)

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Persist:     true,
		Store:       kv.BackendFile,
		StorePath:   mustExpand(defaultStorePath),
		MirrorOrder: console.MirrorOriginFirst,
		PersistOn:   console.DefaultPersistOn(),
		LogLevel:    log.WarnLevel,
		Style:       format.DefaultStyle(),
	}
}

type rawFont struct {
	Name   string `toml:"name"`
	Size   int    `toml:"size"`
	Bold   bool   `toml:"bold"`
	Italic bool   `toml:"italic"`
	Faint  bool   `toml:"faint"`
}

type rawConfig struct {
	Persist         *bool             `toml:"persist"`
	Store           string            `toml:"store"`
	StorePath       string            `toml:"store_path"`
	Mirror          string            `toml:"mirror"`
	PersistOn       []string          `toml:"persist_on"`
	AutosaveSeconds int               `toml:"autosave_seconds"`
	CapturePrint    bool              `toml:"capture_print"`
	LogLevel        string            `toml:"log_level"`
	MarkMode        bool              `toml:"mark_mode"`
	Colors          map[string]string `toml:"colors"`
	Marks           map[string]string `toml:"marks"`
	Font            *rawFont          `toml:"font"`
}

// Load locates and parses the config file, falling back to defaults when it is
// missing. Empty fields keep their defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := apply(&cfg, raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func apply(cfg *Config, raw rawConfig) error {
	if raw.Persist != nil {
		cfg.Persist = *raw.Persist
	}

	if store := strings.ToLower(strings.TrimSpace(raw.Store)); store != "" {
		switch store {
		case kv.BackendFile, kv.BackendSQLite, kv.BackendMemory:
			cfg.Store = store
		default:
			return fmt.Errorf("unknown store %q", raw.Store)
		}
	}
	if p := strings.TrimSpace(raw.StorePath); p != "" {
		cfg.StorePath = mustExpand(p)
	}

	order, err := console.ParseMirrorOrder(raw.Mirror)
	if err != nil {
		return err
	}
	cfg.MirrorOrder = order

	if raw.PersistOn != nil {
		cfg.PersistOn = make([]console.Lifecycle, 0, len(raw.PersistOn))
		for _, name := range raw.PersistOn {
			ev, err := console.ParseLifecycle(name)
			if err != nil {
				return err
			}
			cfg.PersistOn = append(cfg.PersistOn, ev)
		}
	}

	if raw.AutosaveSeconds < 0 {
		return fmt.Errorf("autosave_seconds must not be negative")
	}
	cfg.Autosave = time.Duration(raw.AutosaveSeconds) * time.Second
	cfg.CapturePrint = raw.CapturePrint

	if lvl := strings.TrimSpace(raw.LogLevel); lvl != "" {
		parsed, err := log.ParseLevel(lvl)
		if err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
		cfg.LogLevel = parsed
	}

	style := cfg.Style
	style.MarkMode = raw.MarkMode
	for name, value := range raw.Colors {
		level, err := entry.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
		if err != nil {
			return fmt.Errorf("colors: %w", err)
		}
		color, err := format.ParseColor(value)
		if err != nil {
			return fmt.Errorf("colors.%s: %w", name, err)
		}
		style = style.WithColor(level, color)
	}
	for name, glyph := range raw.Marks {
		level, err := entry.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
		if err != nil {
			return fmt.Errorf("marks: %w", err)
		}
		style = style.WithMark(level, glyph)
	}
	if raw.Font != nil {
		font := format.Font{
			Name:   strings.TrimSpace(raw.Font.Name),
			Size:   raw.Font.Size,
			Bold:   raw.Font.Bold,
			Italic: raw.Font.Italic,
			Faint:  raw.Font.Faint,
		}
		if font.Size <= 0 {
			font.Size = style.Font.Size
		}
		style.Font = font
	}
	cfg.Style = style
	return nil
}

// ResolvePath expands path, or the default location when path is empty.
func ResolvePath(path string) (string, error) {
	return resolvePath(path)
}

// ExpandPath trims path, expands a leading ~ and makes it absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
