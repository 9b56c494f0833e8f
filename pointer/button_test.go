package pointer

import "testing"

func TestButtonSample(t *testing.T) {
	type sample struct {
		pressed, inside bool
		x               float64
	}
	frames := []struct {
		name string
		in   sample
		want Kind
	}{
		{"hover", sample{false, true, 10}, 0},
		{"press_outside", sample{true, false, 500}, 0},
		{"drag_into_area", sample{true, true, 20}, 0},
		{"release_outside_drag", sample{false, true, 20}, 0},
		{"press_inside", sample{true, true, 20}, KindDown},
		{"hold_still", sample{true, true, 20}, 0},
		{"move", sample{true, true, 30}, KindMove},
		{"move_outside", sample{true, false, 900}, KindMove},
		{"release", sample{false, false, 900}, KindUp},
		{"hover_after", sample{false, true, 40}, 0},
	}

	var b Button
	for _, f := range frames {
		t.Run(f.name, func(t *testing.T) {
			ev, ok := b.Sample(f.in.pressed, f.in.inside, f.in.x, epoch)
			if f.want == 0 {
				if ok {
					t.Fatalf("unexpected event %v", ev.Kind)
				}
				return
			}
			if !ok || ev.Kind != f.want {
				t.Fatalf("got %v (%v), want %v", ev.Kind, ok, f.want)
			}
			if ev.Kind != KindUp && ev.X != f.in.x {
				t.Fatalf("X = %v, want %v", ev.X, f.in.x)
			}
			if !ev.At.Equal(epoch) {
				t.Fatalf("event not stamped with the sample time")
			}
		})
	}
	if b.Active() {
		t.Fatalf("drag still active")
	}
}
