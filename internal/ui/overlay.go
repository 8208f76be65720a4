package ui

import "time"

// TransitionDuration bounds every show or hide animation.
const TransitionDuration = 300 * time.Millisecond

// Phase is where the overlay is in its show/hide cycle.
type Phase int

const (
	Hidden Phase = iota
	Showing
	Shown
	Hiding
)

func (p Phase) String() string {
	switch p {
	case Hidden:
		return "hidden"
	case Showing:
		return "showing"
	case Shown:
		return "shown"
	case Hiding:
		return "hiding"
	default:
		return "unknown"
	}
}

// Overlay tracks the console panel's visibility. Requests that arrive while a
// transition is running are ignored, so a double toggle can never leave the
// panel half drawn.
type Overlay struct {
	phase   Phase
	started time.Time
}

// Phase reports the current phase.
func (o *Overlay) Phase() Phase { return o.phase }

// Visible reports whether any part of the panel is drawn.
func (o *Overlay) Visible() bool { return o.phase != Hidden }

// Animating reports whether a transition is in flight.
func (o *Overlay) Animating() bool { return o.phase == Showing || o.phase == Hiding }

// Show starts the show transition. It only acts from Hidden.
func (o *Overlay) Show(now time.Time) bool {
	if o.phase != Hidden {
		return false
	}
	o.phase = Showing
	o.started = now
	return true
}

// Hide starts the hide transition. It only acts from Shown.
func (o *Overlay) Hide(now time.Time) bool {
	if o.phase != Shown {
		return false
	}
	o.phase = Hiding
	o.started = now
	return true
}

// Complete commits the in-flight transition.
func (o *Overlay) Complete() bool {
	switch o.phase {
	case Showing:
		o.phase = Shown
	case Hiding:
		o.phase = Hidden
	default:
		return false
	}
	return true
}

// Advance completes the transition once TransitionDuration has elapsed and
// reports whether it did.
func (o *Overlay) Advance(now time.Time) bool {
	if !o.Animating() || now.Sub(o.started) < TransitionDuration {
		return false
	}
	return o.Complete()
}

// Extent is the fraction of the panel that is drawn at now, in [0, 1].
func (o *Overlay) Extent(now time.Time) float64 {
	switch o.phase {
	case Shown:
		return 1
	case Showing:
		return progress(o.started, now)
	case Hiding:
		return 1 - progress(o.started, now)
	default:
		return 0
	}
}

func progress(start, now time.Time) float64 {
	p := float64(now.Sub(start)) / float64(TransitionDuration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
