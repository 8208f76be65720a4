package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/fkconsole/internal/entry"
	"github.com/five82/fkconsole/internal/format"
	"github.com/five82/fkconsole/internal/kv"
	"github.com/five82/fkconsole/internal/state"
)

type recordingSink struct {
	mu      sync.Mutex
	entries []entry.Entry
	events  []string
}

func (r *recordingSink) OnEntryAppended(e entry.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	r.events = append(r.events, "append:"+e.Message)
}

func (r *recordingSink) OnCleared() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
	r.events = append(r.events, "clear")
}

func (r *recordingSink) OnShowRequested() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "show")
}

func (r *recordingSink) OnHideRequested() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "hide")
}

func (r *recordingSink) snapshot() ([]entry.Entry, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entry.Entry(nil), r.entries...), append([]string(nil), r.events...)
}

type panicSink struct{ recordingSink }

func (p *panicSink) OnEntryAppended(e entry.Entry) {
	if e.Message == "explode" {
		panic("render failed")
	}
	p.recordingSink.OnEntryAppended(e)
}

var fixedNow = time.Date(2026, 10, 19, 9, 41, 7, 250_000_000, time.UTC)

func newTestConsole(t *testing.T, opts Options) (*Console, *bytes.Buffer) {
	t.Helper()
	var mirror bytes.Buffer
	if opts.Mirror == nil {
		opts.Mirror = &mirror
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	c := New(opts)
	t.Cleanup(func() { _ = c.Close(context.Background()) })
	return c, &mirror
}

func TestConsole_LevelCallsRecordInOrder(t *testing.T) {
	c, _ := newTestConsole(t, Options{})

	calls := []struct {
		fn    func(any)
		level entry.Level
	}{
		{c.Verbose, entry.Verbose},
		{c.Debug, entry.Debug},
		{c.Info, entry.Info},
		{c.Warning, entry.Warning},
		{c.Error, entry.Error},
		{c.Info, entry.Info},
	}
	for i, call := range calls {
		call.fn(i)
	}

	snap := c.Snapshot()
	require.Len(t, snap, len(calls))
	for i, e := range snap {
		assert.Equal(t, calls[i].level, e.Level, "entry %d level", i)
		assert.Equal(t, fmt.Sprint(i), e.Message, "entry %d message", i)
	}
}

func TestConsole_CapturesCallSite(t *testing.T) {
	c, _ := newTestConsole(t, Options{})
	c.Info("hello")

	snap := c.Snapshot()
	require.Len(t, snap, 1)
	assert.True(t, strings.HasPrefix(snap[0].Origin, "2026-10-19 09:41:07.250 console_test.TestConsole_CapturesCallSite() [line "),
		"origin = %q", snap[0].Origin)
	assert.True(t, strings.HasSuffix(snap[0].Origin, "]:\n"))
}

func TestConsole_NilValueIsEmptyMessage(t *testing.T) {
	c, _ := newTestConsole(t, Options{})
	c.Warning(nil)
	snap := c.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "", snap[0].Message)
}

func TestConsole_MirrorsOncePerCall(t *testing.T) {
	c, mirror := newTestConsole(t, Options{})
	site := entry.CallSite{File: "app.go", Function: "main.run", Line: 3}
	c.Log(entry.Info, "hello", site)
	c.Log(entry.Error, "world", site)

	want := "2026-10-19 09:41:07.250 app.run() [line 3]:\nhello\n" +
		"2026-10-19 09:41:07.250 app.run() [line 3]:\nworld\n"
	assert.Equal(t, want, mirror.String())
}

func TestConsole_MirrorOrders(t *testing.T) {
	site := entry.CallSite{File: "app.go", Function: "main.run", Line: 3}

	c, mirror := newTestConsole(t, Options{MirrorOrder: MirrorMessageFirst})
	c.Log(entry.Info, "hello", site)
	assert.Equal(t, "hello2026-10-19 09:41:07.250 app.run() [line 3]:\n", mirror.String())

	off, offMirror := newTestConsole(t, Options{MirrorOrder: MirrorOff})
	off.Log(entry.Info, "hello", site)
	assert.Empty(t, offMirror.String())
	assert.Len(t, off.Snapshot(), 1)
}

func TestConsole_SinkReceivesEntriesInOrder(t *testing.T) {
	c, _ := newTestConsole(t, Options{})
	sink := &recordingSink{}
	c.SetSink(sink)

	c.Info("a")
	c.Show()
	c.Error("b")
	c.Clear()
	c.Debug("c")
	c.Hide()
	require.NoError(t, c.Sync(context.Background()))

	entries, events := sink.snapshot()
	assert.Equal(t, []string{"append:a", "show", "append:b", "clear", "append:c", "hide"}, events)
	require.Len(t, entries, 1)
	assert.Equal(t, "c", entries[0].Message)
	assert.Len(t, c.Snapshot(), 1)
}

func TestConsole_NoSinkStillRecords(t *testing.T) {
	c, mirror := newTestConsole(t, Options{})
	c.Info("before sink")
	c.Show()
	require.NoError(t, c.Sync(context.Background()))
	assert.Len(t, c.Snapshot(), 1)
	assert.Contains(t, mirror.String(), "before sink")
}

func TestConsole_AttachReplaysHistory(t *testing.T) {
	c, _ := newTestConsole(t, Options{})
	c.Info("a")
	c.Warning("b")

	sink := &recordingSink{}
	c.Attach(sink)
	c.Error("c")
	require.NoError(t, c.Sync(context.Background()))

	entries, events := sink.snapshot()
	assert.Equal(t, []string{"clear", "append:a", "append:b", "append:c"}, events)
	require.Len(t, entries, 3)
	assert.Equal(t, entry.Warning, entries[1].Level)
}

func TestConsole_SinkPanicIsSwallowed(t *testing.T) {
	c, mirror := newTestConsole(t, Options{})
	sink := &panicSink{}
	c.SetSink(sink)

	c.Info("ok")
	c.Info("explode")
	c.Info("after")
	require.NoError(t, c.Sync(context.Background()))

	assert.Len(t, c.Snapshot(), 3)
	assert.EqualValues(t, 1, c.DroppedRenders())
	_, events := sink.snapshot()
	assert.Equal(t, []string{"append:ok", "append:after"}, events)
	assert.Equal(t, 3, strings.Count(mirror.String(), "]:\n"))
}

func TestConsole_ConcurrentProducersKeepPerGoroutineOrder(t *testing.T) {
	const producers, perProducer = 8, 250
	c, _ := newTestConsole(t, Options{MirrorOrder: MirrorOff})
	sink := &recordingSink{}
	c.SetSink(sink)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				c.Debug(fmt.Sprintf("%d:%d", p, i))
			}
		}(p)
	}
	wg.Wait()
	require.NoError(t, c.Sync(context.Background()))

	stored := c.Snapshot()
	rendered, _ := sink.snapshot()
	require.Len(t, stored, producers*perProducer)
	require.Len(t, rendered, producers*perProducer)

	next := make(map[int]int)
	for i, e := range stored {
		assert.Equal(t, e.Message, rendered[i].Message, "render order must match append order at %d", i)
		var p, seq int
		_, err := fmt.Sscanf(e.Message, "%d:%d", &p, &seq)
		require.NoError(t, err)
		require.Equal(t, next[p], seq, "producer %d out of order", p)
		next[p]++
	}
}

func TestConsole_Print(t *testing.T) {
	c, _ := newTestConsole(t, Options{})
	c.Print("a", 1, nil, errors.New("b"))
	snap := c.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, entry.Verbose, snap[0].Level)
	assert.Equal(t, "a 1  b", snap[0].Message)
}

func TestConsole_StyleSetters(t *testing.T) {
	c, _ := newTestConsole(t, Options{})

	require.NoError(t, c.SetLevelColor(entry.Info, "cyan"))
	assert.Equal(t, "#00ffff", c.Style().Color(entry.Info))
	assert.Error(t, c.SetLevelColor(entry.Info, "not-a-color"))
	assert.ErrorIs(t, c.SetLevelColor(entry.Level(7), "red"), entry.ErrInvalidLevel)

	require.NoError(t, c.SetLevelMark(entry.Error, "!"))
	c.SetMarkMode(true)
	c.SetFont(format.Font{Name: "Menlo", Size: 12, Bold: true})

	run := c.Render(entry.Entry{Origin: "o:\n", Message: "x", Level: entry.Error})
	assert.Equal(t, "o:\n! x", run.Plain())
	assert.True(t, run[1].Bold)
	assert.Equal(t, "Menlo", c.Style().Font.Name)
}

func TestConsole_PersistAndRestoreAcrossInstances(t *testing.T) {
	backend := kv.NewMemoryStore()
	site := entry.CallSite{File: "a.go", Function: "main.f", Line: 1}

	first, _ := newTestConsole(t, Options{Store: state.NewStore(backend, nil)})
	first.Log(entry.Info, "hello", site)
	first.Log(entry.Error, "world", site)
	require.NoError(t, first.Persist())

	second, _ := newTestConsole(t, Options{Store: state.NewStore(backend, nil)})
	second.Restore()
	snap := second.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "hello", snap[0].Message)
	assert.Equal(t, entry.Error, snap[1].Level)
}

func TestConsole_HandleLifecycle(t *testing.T) {
	backend := kv.NewMemoryStore()
	c, _ := newTestConsole(t, Options{
		Store:     state.NewStore(backend, nil),
		PersistOn: []Lifecycle{Terminate},
	})
	c.Info("x")

	c.HandleLifecycle(EnterBackground)
	_, err := backend.Get(state.LogKey)
	assert.ErrorIs(t, err, kv.ErrNotFound, "background is not a configured trigger")

	c.HandleLifecycle(Terminate)
	h, err := state.ReadHistory(backend)
	require.NoError(t, err)
	assert.Len(t, h.Entries, 1)
}

func TestConsole_PersistenceDisabled(t *testing.T) {
	backend := kv.NewMemoryStore()
	c, _ := newTestConsole(t, Options{Store: state.NewStore(backend, nil)})
	c.SetPersistenceEnabled(false)
	c.Info("x")
	c.Flush()
	_, err := backend.Get(state.LogKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestConsole_CloseFlushesAndStopsDispatch(t *testing.T) {
	backend := kv.NewMemoryStore()
	c := New(Options{Store: state.NewStore(backend, nil), Mirror: &bytes.Buffer{}})
	sink := &recordingSink{}
	c.SetSink(sink)
	c.Info("a")

	require.NoError(t, c.Close(context.Background()))
	require.NoError(t, c.Close(context.Background()))

	h, err := state.ReadHistory(backend)
	require.NoError(t, err)
	assert.Len(t, h.Entries, 1)

	c.Info("late")
	assert.Len(t, c.Snapshot(), 2)
	_, events := sink.snapshot()
	assert.Equal(t, []string{"append:a"}, events)
}

func TestParseMirrorOrder(t *testing.T) {
	tests := map[string]MirrorOrder{
		"":              MirrorOriginFirst,
		"origin-first":  MirrorOriginFirst,
		"Message-First": MirrorMessageFirst,
		"off":           MirrorOff,
	}
	for in, want := range tests {
		got, err := ParseMirrorOrder(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseMirrorOrder("sideways")
	assert.Error(t, err)
}

func TestParseLifecycle(t *testing.T) {
	for _, name := range []string{"resign-active", "background", " Terminate "} {
		_, err := ParseLifecycle(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseLifecycle("suspend")
	assert.Error(t, err)
}

func TestConsole_CaptureStdoutRecordsVerboseEntries(t *testing.T) {
	realStdout := os.Stdout
	t.Cleanup(func() { os.Stdout = realStdout })

	mirrorFile, err := os.CreateTemp(t.TempDir(), "mirror")
	require.NoError(t, err)
	t.Cleanup(func() { _ = mirrorFile.Close() })
	os.Stdout = mirrorFile

	// Mirror is left nil so the console binds to the stdout of the moment.
	c := New(Options{})
	t.Cleanup(func() { _ = c.Close(context.Background()) })

	restore, err := c.CaptureStdout()
	require.NoError(t, err)
	fmt.Println("printed line")
	fmt.Println("second line")
	restore()

	assert.Same(t, mirrorFile, os.Stdout, "restore should put the original stdout back")

	got := c.Snapshot()
	require.Len(t, got, 2, "mirror output must not be captured again")
	for i, want := range []string{"printed line", "second line"} {
		assert.Equal(t, entry.Verbose, got[i].Level)
		assert.Equal(t, want, got[i].Message)
	}

	mirrored, err := os.ReadFile(mirrorFile.Name())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(mirrored), "printed line"))
	assert.Equal(t, 1, strings.Count(string(mirrored), "second line"))
}
