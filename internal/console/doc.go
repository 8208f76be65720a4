// Package console is the logging facade: the single entry point application
// code calls to capture log entries.
//
// # Data Flow
//
//	app code ──Info(v)──→ Console.Log
//	                        │  (mutex: one writer at a time)
//	                        ├─→ entry.At(now, callsite, level, v)
//	                        ├─→ mirror writer (plain text, once)
//	                        ├─→ state.Store.Append
//	                        └─→ dispatch queue ──→ Sink.OnEntryAppended
//	                                (one goroutine, FIFO)
//
// # Dispatch Discipline
//
// Notifications to the sink are asynchronous. The producer appends to an
// unbounded queue and returns; a single dispatch goroutine delivers in queue
// order. Because construction, append and enqueue happen under one mutex, the
// sink sees entries in exactly the order they were stored, and each producing
// goroutine's entries keep their relative order. Use Sync to wait for the
// queue to drain.
//
// A sink that panics loses that one notification; the entry is still stored
// and mirrored, and DroppedRenders counts the loss.
//
// # Persistence
//
// Flush and Persist write the store synchronously, bypassing the dispatch
// queue. HandleLifecycle flushes only for the configured lifecycle events
// (background and terminate by default).
package console
