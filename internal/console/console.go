package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/fkconsole/internal/capture"
	"github.com/five82/fkconsole/internal/entry"
	"github.com/five82/fkconsole/internal/format"
	"github.com/five82/fkconsole/internal/state"
)

// Options configure a Console.
type Options struct {
	Store       *state.Store // nil creates an in-memory store
	Mirror      io.Writer    // nil uses os.Stdout at construction time
	MirrorOrder MirrorOrder
	Style       *format.Style // nil uses format.DefaultStyle
	PersistOn   []Lifecycle   // nil uses DefaultPersistOn
	Logger      *log.Logger   // diagnostics; nil discards
	Now         func() time.Time
}

// Console is the entry point application code logs through. Construct one per
// process with New and pass it to whatever needs to log.
type Console struct {
	// mu orders entry construction, mirroring, append and enqueue, so the
	// store order, mirror order and sink order are the same.
	mu     sync.Mutex
	store  *state.Store
	mirror io.Writer
	order  MirrorOrder
	now    func() time.Time
	logger *log.Logger

	style     atomic.Pointer[format.Style]
	sink      atomic.Pointer[sinkRef]
	persistOn atomic.Pointer[map[Lifecycle]bool]

	queue   *dispatcher
	dropped atomic.Int64
	closed  atomic.Bool
}

type sinkRef struct{ sink Sink }

// New builds a Console. Dispatch to the sink starts immediately; call Close
// on shutdown.
func New(opts Options) *Console {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	store := opts.Store
	if store == nil {
		store = state.NewStore(nil, logger)
	}
	mirror := opts.Mirror
	if mirror == nil {
		mirror = os.Stdout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	c := &Console{
		store:  store,
		mirror: mirror,
		order:  opts.MirrorOrder,
		now:    now,
		logger: logger,
	}
	style := format.DefaultStyle()
	if opts.Style != nil {
		style = *opts.Style
	}
	c.style.Store(&style)

	persistOn := opts.PersistOn
	if persistOn == nil {
		persistOn = DefaultPersistOn()
	}
	c.SetPersistOn(persistOn)

	c.queue = newDispatcher(c.deliver)
	return c
}

// Verbose records value at verbose level.
func (c *Console) Verbose(value any) { c.Log(entry.Verbose, value, entry.Caller(1)) }

// Debug records value at debug level.
func (c *Console) Debug(value any) { c.Log(entry.Debug, value, entry.Caller(1)) }

// Info records value at info level.
func (c *Console) Info(value any) { c.Log(entry.Info, value, entry.Caller(1)) }

// Warning records value at warning level.
func (c *Console) Warning(value any) { c.Log(entry.Warning, value, entry.Caller(1)) }

// Error records value at error level.
func (c *Console) Error(value any) { c.Log(entry.Error, value, entry.Caller(1)) }

// Print joins items with spaces and records them at verbose level, the way a
// bare debug print would.
func (c *Console) Print(items ...any) {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = entry.Describe(item)
	}
	c.Log(entry.Verbose, strings.Join(parts, " "), entry.Caller(1))
}

// Log records value at level for an explicit call site. It never fails and
// never panics; a broken sink only loses the visual update.
func (c *Console) Log(level entry.Level, value any, site entry.CallSite) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("log call panicked", "panic", r)
		}
	}()
	if !level.Valid() {
		level = entry.Verbose
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry.At(c.now(), site, level, value)
	c.writeMirror(e)
	c.store.Append(e)
	if s := c.currentSink(); s != nil {
		c.queue.enqueue(event{kind: eventAppended, entry: e, sink: s})
	}
}

func (c *Console) writeMirror(e entry.Entry) {
	var line string
	switch c.order {
	case MirrorOff:
		return
	case MirrorMessageFirst:
		line = e.Message + e.Origin
		if !strings.HasSuffix(line, "\n") {
			line += "\n"
		}
	default:
		line = e.Origin + e.Message + "\n"
	}
	if _, err := io.WriteString(c.mirror, line); err != nil {
		c.logger.Debug("mirror write failed", "err", err)
	}
}

// Clear empties the history and asks the sink to drop its visible rows.
func (c *Console) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Clear()
	if s := c.currentSink(); s != nil {
		c.queue.enqueue(event{kind: eventCleared, sink: s})
	}
}

// Show asks the sink to present itself.
func (c *Console) Show() { c.request(eventShow) }

// Hide asks the sink to dismiss itself.
func (c *Console) Hide() { c.request(eventHide) }

func (c *Console) request(kind eventKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s := c.currentSink(); s != nil {
		c.queue.enqueue(event{kind: kind, sink: s})
	}
}

// SetSink registers the rendering surface. Nil unregisters it. Entries logged
// while no sink is registered are still recorded; use Attach to register a
// sink that needs to catch up.
func (c *Console) SetSink(s Sink) {
	if s == nil {
		c.sink.Store(nil)
		return
	}
	c.sink.Store(&sinkRef{sink: s})
}

// Attach registers s and replays the current history to it as a clear
// followed by one append per entry. Registration and replay happen under the
// same lock as logging, so s sees every entry exactly once and in order.
func (c *Console) Attach(s Sink) {
	if s == nil {
		c.SetSink(nil)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sink.Store(&sinkRef{sink: s})
	c.queue.enqueue(event{kind: eventCleared, sink: s})
	for _, e := range c.store.Snapshot() {
		c.queue.enqueue(event{kind: eventAppended, entry: e, sink: s})
	}
}

func (c *Console) currentSink() Sink {
	if ref := c.sink.Load(); ref != nil {
		return ref.sink
	}
	return nil
}

func (c *Console) deliver(ev event) {
	defer func() {
		if r := recover(); r != nil {
			c.dropped.Add(1)
			c.logger.Warn("sink panicked", "event", ev.kind, "panic", r)
		}
	}()
	switch ev.kind {
	case eventAppended:
		ev.sink.OnEntryAppended(ev.entry)
	case eventCleared:
		ev.sink.OnCleared()
	case eventShow:
		ev.sink.OnShowRequested()
	case eventHide:
		ev.sink.OnHideRequested()
	}
}

// DroppedRenders reports how many sink notifications failed.
func (c *Console) DroppedRenders() int64 {
	return c.dropped.Load()
}

// Sync waits until every notification queued so far has reached the sink.
func (c *Console) Sync(ctx context.Context) error {
	return c.queue.wait(ctx)
}

// Snapshot returns a copy of the recorded history.
func (c *Console) Snapshot() []entry.Entry {
	return c.store.Snapshot()
}

// Style returns the active formatting configuration.
func (c *Console) Style() format.Style {
	return *c.style.Load()
}

// Render formats e with the active style.
func (c *Console) Render(e entry.Entry) format.Run {
	return c.Style().Render(e)
}

// SetStyle replaces the whole formatting configuration.
func (c *Console) SetStyle(s format.Style) {
	c.style.Store(&s)
}

func (c *Console) updateStyle(fn func(format.Style) format.Style) {
	for {
		old := c.style.Load()
		next := fn(*old)
		if c.style.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetLevelColor binds color to level. Colors are names, hex codes or ANSI
// palette indexes.
func (c *Console) SetLevelColor(level entry.Level, color string) error {
	if !level.Valid() {
		return fmt.Errorf("set color: %w", entry.ErrInvalidLevel)
	}
	parsed, err := format.ParseColor(color)
	if err != nil {
		return fmt.Errorf("set color: %w", err)
	}
	c.updateStyle(func(s format.Style) format.Style { return s.WithColor(level, parsed) })
	return nil
}

// SetLevelMark binds a marker glyph to level.
func (c *Console) SetLevelMark(level entry.Level, glyph string) error {
	if !level.Valid() {
		return fmt.Errorf("set mark: %w", entry.ErrInvalidLevel)
	}
	c.updateStyle(func(s format.Style) format.Style { return s.WithMark(level, glyph) })
	return nil
}

// SetMarkMode toggles the per-level marker prefix.
func (c *Console) SetMarkMode(enabled bool) {
	c.updateStyle(func(s format.Style) format.Style {
		s.MarkMode = enabled
		return s
	})
}

// SetFont replaces the message font.
func (c *Console) SetFont(font format.Font) {
	c.updateStyle(func(s format.Style) format.Style {
		s.Font = font
		return s
	})
}

// SetPersistenceEnabled toggles saving and loading history.
func (c *Console) SetPersistenceEnabled(enabled bool) {
	c.store.SetPersistenceEnabled(enabled)
}

// PersistenceEnabled reports whether history is saved and loaded.
func (c *Console) PersistenceEnabled() bool {
	return c.store.PersistenceEnabled()
}

// SetPersistOn replaces the lifecycle events that trigger a flush.
func (c *Console) SetPersistOn(events []Lifecycle) {
	set := make(map[Lifecycle]bool, len(events))
	for _, ev := range events {
		set[ev] = true
	}
	c.persistOn.Store(&set)
}

// HandleLifecycle flushes history when ev is one of the configured triggers.
func (c *Console) HandleLifecycle(ev Lifecycle) {
	if (*c.persistOn.Load())[ev] {
		c.Flush()
	}
}

// Restore loads persisted history into the store. It is safe to call more
// than once; only the first call reads the backend.
func (c *Console) Restore() {
	c.store.Restore()
}

// Persist writes the history synchronously and reports any failure.
func (c *Console) Persist() error {
	return c.store.Persist()
}

// Flush writes the history synchronously. Failures are logged, not returned.
func (c *Console) Flush() {
	if err := c.store.Persist(); err != nil {
		c.logger.Warn("persist log history", "err", err)
	}
}

// CaptureStdout routes everything written to os.Stdout into verbose entries
// until the returned func is called. The mirror keeps writing to the stdout
// the console was built with.
func (c *Console) CaptureStdout() (restore func(), err error) {
	undo, err := capture.Redirect(&os.Stdout, func(line string) {
		c.Log(entry.Verbose, line, entry.CallSite{File: "stdout"})
	})
	if err != nil {
		return nil, fmt.Errorf("capture stdout: %w", err)
	}
	return func() {
		if err := undo(); err != nil {
			c.logger.Debug("restore stdout", "err", err)
		}
	}, nil
}

// Close delivers pending notifications, stops dispatch and flushes history.
// Entries logged after Close are still recorded but no longer reach the sink.
func (c *Console) Close(ctx context.Context) error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := c.queue.wait(ctx)
	c.queue.close()
	c.Flush()
	return err
}
