package pointer

import (
	"fmt"
	"math"
	"time"
)

const (
	DefaultSampleInterval  = 10 * time.Millisecond
	DefaultSpeedMultiplier = -10.0
)

// Target is the animation engine as seen by the tracker.
type Target interface {
	Ready() bool
	Current() float64
	SetTarget(end float64) error
}

// Container reports the drag surface width in the same unit as pointer X.
type Container interface {
	Width() float64
}

// Config holds the tracker tuning. SpeedMultiplier is signed: negative
// values turn a rightward drag into decreasing frame positions.
type Config struct {
	TotalFrames     int
	SampleInterval  time.Duration
	SpeedMultiplier float64
}

// DefaultConfig returns the stock tuning for totalFrames frames.
func DefaultConfig(totalFrames int) Config {
	return Config{
		TotalFrames:     totalFrames,
		SampleInterval:  DefaultSampleInterval,
		SpeedMultiplier: DefaultSpeedMultiplier,
	}
}

// Tracker turns a drag gesture into motion targets. Velocity is measured
// per sampling window: every accepted sample moves the reference point to
// the sampled position.
type Tracker struct {
	cfg       Config
	target    Target
	container Container

	startX     float64
	lastSample time.Time
	dragging   bool
}

func NewTracker(target Target, container Container, cfg Config) *Tracker {
	if cfg.SampleInterval < 0 {
		cfg.SampleInterval = 0
	}
	return &Tracker{cfg: cfg, target: target, container: container}
}

// Down starts a drag session at x.
func (t *Tracker) Down(x float64) {
	t.startX = x
	t.dragging = true
}

// Up ends the drag session.
func (t *Tracker) Up() {
	t.dragging = false
}

// Move handles a pointer position. It does nothing unless the target is
// ready and a drag is in progress, and drops moves that arrive less than
// SampleInterval after the last accepted sample.
func (t *Tracker) Move(x float64, now time.Time) error {
	if !t.target.Ready() || !t.dragging {
		return nil
	}
	if now.Sub(t.lastSample) < t.cfg.SampleInterval {
		return nil
	}

	width := t.container.Width()
	if width <= 0 {
		return nil
	}

	distance := x - t.startX
	offset := math.Ceil(float64(t.cfg.TotalFrames-1) * t.cfg.SpeedMultiplier * (distance / width))
	if err := t.target.SetTarget(t.target.Current() + offset); err != nil {
		return fmt.Errorf("pointer: sample at x=%v: %w", x, err)
	}

	t.startX = x
	t.lastSample = now
	return nil
}

// Dispatch routes a discrete input event.
func (t *Tracker) Dispatch(ev Event) error {
	switch ev.Kind {
	case KindDown:
		t.Down(ev.X)
	case KindUp:
		t.Up()
	case KindMove:
		return t.Move(ev.X, ev.At)
	default:
		return fmt.Errorf("pointer: unknown event kind %d", ev.Kind)
	}
	return nil
}

func (t *Tracker) Dragging() bool { return t.dragging }

// StartX returns the reference position of the current sampling window.
func (t *Tracker) StartX() float64 { return t.startX }
