package replay

import (
	"time"

	"github.com/milk9111/threesixty/pointer"
)

// Player releases scripted steps as pointer events once their time has
// come.
type Player struct {
	steps []Step
	start time.Time
	next  int
}

func NewPlayer(steps []Step, start time.Time) *Player {
	return &Player{steps: steps, start: start}
}

// Due returns every step scheduled at or before now, stamped with its
// scheduled time.
func (p *Player) Due(now time.Time) []pointer.Event {
	var out []pointer.Event
	for p.next < len(p.steps) {
		s := p.steps[p.next]
		at := p.start.Add(s.At)
		if at.After(now) {
			break
		}
		out = append(out, pointer.Event{Kind: s.Kind, X: s.X, At: at})
		p.next++
	}
	return out
}

// NextAt returns when the next step is due.
func (p *Player) NextAt() (time.Time, bool) {
	if p.Done() {
		return time.Time{}, false
	}
	return p.start.Add(p.steps[p.next].At), true
}

func (p *Player) Done() bool { return p.next >= len(p.steps) }
