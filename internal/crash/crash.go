// Package crash records a final error entry and flushes history when the
// process is going down on a panic or fatal signal.
package crash

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/five82/fkconsole/internal/console"
	"github.com/five82/fkconsole/internal/entry"
)

var (
	installOnce sync.Once
	installed   *Bridge
)

// Bridge writes the last words of a dying process into the console.
type Bridge struct {
	console *console.Console
}

// Install registers the process-wide bridge for c. Only the first call takes
// effect; later calls return the bridge it created.
func Install(c *console.Console) *Bridge {
	installOnce.Do(func() {
		installed = newBridge(c)
	})
	return installed
}

func newBridge(c *console.Console) *Bridge {
	return &Bridge{console: c}
}

// Recover must be deferred directly. On a panic it records one error entry,
// persists the history synchronously and re-panics so the process still dies.
func (b *Bridge) Recover() {
	r := recover()
	if r == nil {
		return
	}
	b.record(fmt.Sprintf("panic: %v", r), panicSite())
	panic(r)
}

// Go runs fn on a new goroutine guarded by Recover.
func (b *Bridge) Go(fn func()) {
	go func() {
		defer b.Recover()
		fn()
	}()
}

// Fatal records reason as an error entry and persists immediately. Use it
// when a fatal signal arrives and the process is about to exit.
func (b *Bridge) Fatal(reason any) {
	b.record(fmt.Sprintf("fatal: %s", entry.Describe(reason)), entry.Caller(1))
}

func (b *Bridge) record(msg string, site entry.CallSite) {
	defer func() { _ = recover() }()
	if b == nil || b.console == nil {
		return
	}
	b.console.Log(entry.Error, msg, site)
	_ = b.console.Persist()
}

// panicSite walks up from the deferred call to the first frame outside the
// runtime and the bridge itself, which is where the panic was raised.
func panicSite() entry.CallSite {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if !strings.HasPrefix(f.Function, "runtime.") && !isBridgeFrame(f.Function) {
			return entry.CallSite{File: f.File, Function: f.Function, Line: f.Line}
		}
		if !more {
			return entry.CallSite{}
		}
	}
}

func isBridgeFrame(fn string) bool {
	return strings.Contains(fn, "/internal/crash.(*Bridge)") || strings.HasSuffix(fn, "/internal/crash.panicSite")
}
