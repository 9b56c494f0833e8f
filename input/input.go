package input

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/threesixty/pointer"
)

// Area is the screen region a drag has to start in.
type Area interface {
	Contains(x, y int) bool
}

// Poller turns ebiten mouse and touch state into pointer events. A drag
// starts only inside the area but is followed across the whole window.
// Only the first touch is tracked.
type Poller struct {
	area Area

	mouse pointer.Button
	touch pointer.Button

	touchID  ebiten.TouchID
	touchIDs []ebiten.TouchID
	events   []pointer.Event
}

func NewPoller(area Area) *Poller {
	return &Poller{area: area}
}

// Update polls the current frame's input. The returned slice is reused by
// the next call.
func (p *Poller) Update(now time.Time) []pointer.Event {
	p.events = p.events[:0]

	mx, my := ebiten.CursorPosition()
	p.sample(&p.mouse, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), mx, my, now)

	if !p.touch.Active() {
		p.touchIDs = inpututil.AppendJustPressedTouchIDs(p.touchIDs[:0])
		for _, id := range p.touchIDs {
			tx, ty := ebiten.TouchPosition(id)
			if p.area.Contains(tx, ty) {
				p.touchID = id
				p.sample(&p.touch, true, tx, ty, now)
				break
			}
		}
		return p.events
	}

	released := inpututil.IsTouchJustReleased(p.touchID)
	tx, ty := ebiten.TouchPosition(p.touchID)
	p.sample(&p.touch, !released, tx, ty, now)
	return p.events
}

func (p *Poller) sample(b *pointer.Button, pressed bool, x, y int, now time.Time) {
	if ev, ok := b.Sample(pressed, p.area.Contains(x, y), float64(x), now); ok {
		p.events = append(p.events, ev)
	}
}

// Dragging reports whether a mouse or touch drag is in progress.
func (p *Poller) Dragging() bool { return p.mouse.Active() || p.touch.Active() }
