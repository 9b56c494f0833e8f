package pointer

import "time"

// Button derives drag events from sampled button state, for hosts that
// report whether a button is held rather than press and release events.
// A drag starts only when the press happens inside the container; once
// started it is followed everywhere until the button is released.
type Button struct {
	held   bool
	active bool
	lastX  float64
}

// Sample feeds the state seen at now and returns the resulting event, if
// any.
func (b *Button) Sample(pressed, inside bool, x float64, now time.Time) (Event, bool) {
	justPressed := pressed && !b.held
	b.held = pressed

	switch {
	case !b.active && justPressed && inside:
		b.active = true
		b.lastX = x
		return Event{Kind: KindDown, X: x, At: now}, true
	case b.active && !pressed:
		b.active = false
		return Event{Kind: KindUp, At: now}, true
	case b.active && x != b.lastX:
		b.lastX = x
		return Event{Kind: KindMove, X: x, At: now}, true
	}
	return Event{}, false
}

// Active reports whether a drag started by this button is in progress.
func (b *Button) Active() bool { return b.active }
