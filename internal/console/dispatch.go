package console

import (
	"context"
	"sync"
)

// dispatcher is an unbounded FIFO drained by one goroutine. Producers never
// block on a slow sink and nothing is dropped while the dispatcher runs.
type dispatcher struct {
	mu        sync.Mutex
	pending   []event
	enqueued  uint64
	delivered uint64
	progress  chan struct{}
	stopped   bool

	wake    chan struct{}
	stop    chan struct{}
	done    chan struct{}
	deliver func(event)
}

func newDispatcher(deliver func(event)) *dispatcher {
	d := &dispatcher{
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		deliver:  deliver,
	}
	go d.run()
	return d
}

func (d *dispatcher) enqueue(ev event) bool {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return false
	}
	d.pending = append(d.pending, ev)
	d.enqueued++
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return true
}

func (d *dispatcher) run() {
	defer close(d.done)
	for {
		select {
		case <-d.wake:
			d.drain()
		case <-d.stop:
			d.drain()
			return
		}
	}
}

func (d *dispatcher) drain() {
	for {
		d.mu.Lock()
		batch := d.pending
		d.pending = nil
		d.mu.Unlock()
		if len(batch) == 0 {
			return
		}

		for _, ev := range batch {
			d.deliver(ev)
		}

		d.mu.Lock()
		d.delivered += uint64(len(batch))
		close(d.progress)
		d.progress = make(chan struct{})
		d.mu.Unlock()
	}
}

// wait blocks until everything enqueued before the call has been delivered.
func (d *dispatcher) wait(ctx context.Context) error {
	d.mu.Lock()
	target := d.enqueued
	d.mu.Unlock()

	for {
		d.mu.Lock()
		if d.delivered >= target {
			d.mu.Unlock()
			return nil
		}
		progress := d.progress
		d.mu.Unlock()

		select {
		case <-progress:
		case <-d.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// close stops accepting events, delivers what is queued and waits for the
// dispatch goroutine to exit.
func (d *dispatcher) close() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		<-d.done
		return
	}
	d.stopped = true
	d.mu.Unlock()

	close(d.stop)
	<-d.done
}
