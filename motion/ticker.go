package motion

import "time"

// TickInterval is the fixed period of the easing loop (60 Hz).
const TickInterval = time.Second / 60

// Ticker is a cancellable periodic task. Start and Stop are idempotent:
// starting a running ticker keeps the first callback, stopping a stopped
// ticker does nothing.
type Ticker interface {
	Start(fn func())
	Stop()
	Active() bool
}

// FrameTicker is driven by a host loop that already runs at the tick rate,
// such as ebiten's Update. The host calls Advance once per frame.
type FrameTicker struct {
	fn     func()
	active bool
	ticks  uint64
}

func (t *FrameTicker) Start(fn func()) {
	if t.active {
		return
	}
	t.fn = fn
	t.active = true
}

func (t *FrameTicker) Stop() {
	if !t.active {
		return
	}
	t.active = false
	t.fn = nil
}

func (t *FrameTicker) Active() bool { return t.active }

// Advance runs the callback once if the ticker is active and reports
// whether it did.
func (t *FrameTicker) Advance() bool {
	if !t.active || t.fn == nil {
		return false
	}
	t.ticks++
	t.fn()
	return true
}

// Ticks returns how many callbacks Advance has run.
func (t *FrameTicker) Ticks() uint64 { return t.ticks }

// TimerTicker fires on a time.Ticker but never runs the callback itself:
// each tick is posted to the host's event channel and executed by the host
// loop, so widget state is only touched from one goroutine. Ticks queued by
// a previous Start are dropped once the ticker was stopped or restarted.
type TimerTicker struct {
	interval time.Duration
	post     chan<- func()

	active bool
	gen    uint64
	stop   chan struct{}
}

// NewTimerTicker creates a ticker that posts onto post every interval while
// started.
func NewTimerTicker(interval time.Duration, post chan<- func()) *TimerTicker {
	if interval <= 0 {
		interval = TickInterval
	}
	return &TimerTicker{interval: interval, post: post}
}

func (t *TimerTicker) Start(fn func()) {
	if t.active {
		return
	}
	t.active = true
	t.gen++
	gen := t.gen
	stop := make(chan struct{})
	t.stop = stop

	tick := func() {
		if t.active && t.gen == gen {
			fn()
		}
	}

	go func(interval time.Duration, post chan<- func()) {
		tk := time.NewTicker(interval)
		defer tk.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tk.C:
				select {
				case post <- tick:
				case <-stop:
					return
				}
			}
		}
	}(t.interval, t.post)
}

func (t *TimerTicker) Stop() {
	if !t.active {
		return
	}
	t.active = false
	close(t.stop)
	t.stop = nil
}

func (t *TimerTicker) Active() bool { return t.active }
