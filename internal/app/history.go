package app

import (
	"fmt"
	"io"

	"github.com/five82/fkconsole/internal/config"
	"github.com/five82/fkconsole/internal/export"
	"github.com/five82/fkconsole/internal/kv"
	"github.com/five82/fkconsole/internal/state"
)

// Dump writes the persisted history to w without starting the overlay.
func Dump(w io.Writer, configPath string, f export.Format) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	backend, err := kv.Open(cfg.Store, cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer backend.Close()

	h, err := state.ReadHistory(backend)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if err := export.Write(w, h.Entries, f, cfg.Style); err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	return nil
}

// ClearHistory deletes the persisted history.
func ClearHistory(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	backend, err := kv.Open(cfg.Store, cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer backend.Close()

	if err := state.DeleteHistory(backend); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
