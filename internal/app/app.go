package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/five82/fkconsole/internal/config"
	"github.com/five82/fkconsole/internal/console"
	"github.com/five82/fkconsole/internal/crash"
	"github.com/five82/fkconsole/internal/kv"
	"github.com/five82/fkconsole/internal/prefs"
	"github.com/five82/fkconsole/internal/state"
	"github.com/five82/fkconsole/internal/ui"
)

const closeTimeout = 2 * time.Second

// Options configure the console application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/fkconsole/prefs.toml
	MirrorPath string // file that receives mirrored entries; empty discards them
	Stderr     io.Writer
}

// Run boots the overlay until the user quits or the context is cancelled,
// then flushes the history.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(opts.Stderr, cfg.LogLevel)
	userPrefs := prefs.Load(opts.PrefsPath)

	backend, err := kv.Open(cfg.Store, cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Warn("close history store", "err", err)
		}
	}()

	// The overlay owns the terminal, so mirrored lines go to a file or nowhere.
	mirror, closeMirror, err := openMirror(opts.MirrorPath)
	if err != nil {
		return err
	}
	defer closeMirror()

	store := state.NewStore(backend, logger)
	store.SetPersistenceEnabled(cfg.Persist)

	style := cfg.Style
	style.MarkMode = style.MarkMode || userPrefs.ShowMarks
	c := console.New(console.Options{
		Store:       store,
		Mirror:      mirror,
		MirrorOrder: cfg.MirrorOrder,
		Style:       &style,
		PersistOn:   cfg.PersistOn,
		Logger:      logger,
	})
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := c.Close(closeCtx); err != nil {
			logger.Warn("close console", "err", err)
		}
	}()

	bridge := crash.Install(c)
	defer bridge.Recover()

	c.Restore()
	logger.Debug("history restored", "entries", len(c.Snapshot()), "session", store.Session())

	// Build the program before stdout is captured so it keeps the real terminal.
	program := ui.NewProgram(ui.Options{
		Console:   c,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		Logger:    logger,
	}, tea.WithOutput(os.Stdout))

	if cfg.CapturePrint {
		restore, err := c.CaptureStdout()
		if err != nil {
			logger.Warn("capture stdout", "err", err)
		} else {
			defer restore()
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer bridge.Recover()
		defer cancel()
		return program.Run(gctx)
	})

	if cfg.Autosave > 0 {
		g.Go(func() error {
			defer bridge.Recover()
			runAutosave(gctx, c, cfg.Autosave, logger)
			return nil
		})
	}

	g.Go(func() error {
		defer bridge.Recover()
		watchConfig(gctx, opts.ConfigPath, c, program, logger)
		return nil
	})

	g.Go(func() error {
		watchFatalSignals(gctx, bridge, func() {
			if err := program.Release(); err != nil {
				logger.Debug("release terminal", "err", err)
			}
		}, logger)
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run overlay: %w", err)
	}
	return nil
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "fkconsole",
		ReportTimestamp: true,
	})
}

func openMirror(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open mirror file: %w", err)
	}
	return file, func() { _ = file.Close() }, nil
}

// watchConfig applies config edits to the running console. Settings that
// shape the process itself (store, capture) still need a restart.
func watchConfig(ctx context.Context, path string, c *console.Console, program *ui.Program, logger *log.Logger) {
	resolved, err := config.ResolvePath(path)
	if err != nil {
		logger.Debug("config watch disabled", "err", err)
		return
	}
	err = config.Watch(ctx, resolved, func(cfg config.Config) {
		style := cfg.Style
		style.MarkMode = c.Style().MarkMode
		c.SetStyle(style)
		c.SetPersistenceEnabled(cfg.Persist)
		c.SetPersistOn(cfg.PersistOn)
		logger.SetLevel(cfg.LogLevel)
		program.Restyle()
		logger.Info("config reloaded", "path", resolved)
	}, func(err error) {
		logger.Warn("reload config", "err", err)
	})
	if err != nil {
		logger.Debug("config watch stopped", "err", err)
	}
}
