package motion

import (
	"errors"
	"fmt"
	"math"

	"github.com/milk9111/threesixty/filmstrip"
)

// easing is the share of the remaining distance covered per tick.
const easing = 0.1

var ErrInvalidTarget = errors.New("motion: target frame out of range")

// MaxTarget bounds target magnitudes to the range where float64 still
// represents every whole frame.
const MaxTarget = 1 << 53

// State is the engine's animation state.
type State int

const (
	AwaitingReady State = iota
	Idle
	Animating
)

func (s State) String() string {
	switch s {
	case AwaitingReady:
		return "awaiting-ready"
	case Idle:
		return "idle"
	case Animating:
		return "animating"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Renderer receives frame visibility changes. Indices come from
// filmstrip.Normalize and may be out of range for fractional positions.
type Renderer interface {
	ShowFrame(index int)
	HideFrame(index int)
	RevealAll()
}

// Engine eases a continuous frame position toward a target. It starts its
// ticker only when there is distance to cover and stops it on arrival.
type Engine struct {
	totalFrames int
	current     float64
	end         float64
	ready       bool

	renderer Renderer
	ticker   Ticker
}

// NewEngine creates an engine for totalFrames frames. The engine stays in
// AwaitingReady until MarkReady is called.
func NewEngine(totalFrames int, renderer Renderer, ticker Ticker) *Engine {
	if renderer == nil {
		renderer = nopRenderer{}
	}
	if ticker == nil {
		ticker = &FrameTicker{}
	}
	return &Engine{totalFrames: totalFrames, renderer: renderer, ticker: ticker}
}

// MarkReady moves AwaitingReady to Idle, resets the target to 0, shows the
// current frame and reveals the widget. Later calls do nothing.
func (e *Engine) MarkReady() {
	if e.ready {
		return
	}
	e.ready = true
	e.end = 0
	e.renderer.ShowFrame(e.Frame())
	e.renderer.RevealAll()
	e.refresh()
}

// SetTarget replaces the motion target. Non-finite targets and targets
// beyond MaxTarget are rejected; before MarkReady the call is ignored.
func (e *Engine) SetTarget(end float64) error {
	if math.IsNaN(end) || math.Abs(end) > MaxTarget {
		return fmt.Errorf("%w: %v", ErrInvalidTarget, end)
	}
	if !e.ready {
		return nil
	}
	e.end = end
	e.refresh()
	return nil
}

// Tick advances one easing step. The step is 10% of the remaining distance,
// floored when moving down and ceiled when moving up, so whole-frame
// distances shrink every tick and land exactly on the target.
func (e *Engine) Tick() {
	if !e.ready || e.current == e.end {
		e.ticker.Stop()
		return
	}

	distance := e.end - e.current
	var step float64
	if e.end < e.current {
		step = math.Floor(distance * easing)
	} else {
		step = math.Ceil(distance * easing)
	}

	next := e.current + step
	// only fractional distances can overshoot
	if (step > 0 && next > e.end) || (step < 0 && next < e.end) {
		next = e.end
	}

	e.renderer.HideFrame(e.Frame())
	e.current = next
	e.renderer.ShowFrame(e.Frame())

	if e.current == e.end {
		e.ticker.Stop()
	}
}

func (e *Engine) refresh() {
	if e.current != e.end {
		e.ticker.Start(e.Tick)
	}
}

// Stop tears the ticker down without touching the position.
func (e *Engine) Stop() { e.ticker.Stop() }

func (e *Engine) State() State {
	switch {
	case !e.ready:
		return AwaitingReady
	case e.current != e.end:
		return Animating
	default:
		return Idle
	}
}

func (e *Engine) Ready() bool { return e.ready }
func (e *Engine) Current() float64 { return e.current }
func (e *Engine) End() float64 { return e.end }
func (e *Engine) TotalFrames() int { return e.totalFrames }
func (e *Engine) Ticking() bool { return e.ticker.Active() }
func (e *Engine) Frame() int { return filmstrip.Normalize(e.current, e.totalFrames) }

type nopRenderer struct{}

func (nopRenderer) ShowFrame(int) {}
func (nopRenderer) HideFrame(int) {}
func (nopRenderer) RevealAll() {}
