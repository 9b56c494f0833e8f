package viewer

import "github.com/milk9111/threesixty/filmstrip"

// Fanout broadcasts every render call to each renderer in order.
type Fanout []Renderer

func (f Fanout) CreateFrame(frame filmstrip.Frame) {
	for _, r := range f {
		r.CreateFrame(frame)
	}
}

func (f Fanout) ShowFrame(index int) {
	for _, r := range f {
		r.ShowFrame(index)
	}
}

func (f Fanout) HideFrame(index int) {
	for _, r := range f {
		r.HideFrame(index)
	}
}

func (f Fanout) RevealAll() {
	for _, r := range f {
		r.RevealAll()
	}
}
