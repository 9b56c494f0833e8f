package replay

import (
	"context"
	"testing"
	"time"

	"github.com/milk9111/threesixty/pointer"
)

func TestCompileEmbeddedScripts(t *testing.T) {
	for _, name := range []string{"spin", "nudge.tengo", "scripts/spin.tengo"} {
		t.Run(name, func(t *testing.T) {
			src, err := LoadScript(name)
			if err != nil {
				t.Fatalf("LoadScript: %v", err)
			}
			steps, err := Compile(context.Background(), src, Params{Width: 256, TotalFrames: 180})
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			if len(steps) < 3 {
				t.Fatalf("expected a full gesture, got %d steps", len(steps))
			}
			if steps[0].Kind != pointer.KindDown || steps[len(steps)-1].Kind != pointer.KindUp {
				t.Fatalf("gesture must start with down and end with up: %+v", steps)
			}
		})
	}
}

func TestCompileUsesParams(t *testing.T) {
	src := []byte(`events := [{kind: "down", x: width, at: 0}, {kind: "move", x: total_frames, at: 1.5}]`)
	steps, err := Compile(context.Background(), src, Params{Width: 300, TotalFrames: 36})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if steps[0].X != 300 || steps[1].X != 36 || steps[1].At != 1500*time.Microsecond {
		t.Fatalf("unexpected steps %+v", steps)
	}
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"syntax", `events := [`},
		{"no_events", `x := 1`},
		{"not_a_map", `events := [1]`},
		{"bad_kind", `events := [{kind: "hover", x: 1, at: 0}]`},
		{"missing_at", `events := [{kind: "down", x: 1}]`},
		{"missing_x", `events := [{kind: "move", at: 0}]`},
		{"out_of_order", `events := [{kind: "down", x: 0, at: 10}, {kind: "up", at: 5}]`},
		{"runtime_error", `events := [{kind: "down", x: 1 / 0, at: 0}]`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Compile(context.Background(), []byte(c.src), Params{Width: 1}); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestPlayerReleasesStepsInOrder(t *testing.T) {
	start := time.Unix(100, 0)
	steps := []Step{
		{At: 0, Kind: pointer.KindDown, X: 0},
		{At: 10 * time.Millisecond, Kind: pointer.KindMove, X: 5},
		{At: 10 * time.Millisecond, Kind: pointer.KindMove, X: 6},
		{At: 30 * time.Millisecond, Kind: pointer.KindUp},
	}
	p := NewPlayer(steps, start)

	if got := p.Due(start); len(got) != 1 || got[0].Kind != pointer.KindDown || !got[0].At.Equal(start) {
		t.Fatalf("first step: %+v", got)
	}
	if got := p.Due(start.Add(5 * time.Millisecond)); len(got) != 0 {
		t.Fatalf("step released early: %+v", got)
	}
	next, ok := p.NextAt()
	if !ok || !next.Equal(start.Add(10*time.Millisecond)) {
		t.Fatalf("NextAt = %v, %v", next, ok)
	}
	if got := p.Due(start.Add(20 * time.Millisecond)); len(got) != 2 || got[1].X != 6 {
		t.Fatalf("expected both moves, got %+v", got)
	}
	if p.Done() {
		t.Fatalf("player finished early")
	}
	if got := p.Due(start.Add(time.Second)); len(got) != 1 || got[0].Kind != pointer.KindUp {
		t.Fatalf("expected up, got %+v", got)
	}
	if !p.Done() {
		t.Fatalf("player not done")
	}
	if _, ok := p.NextAt(); ok {
		t.Fatalf("NextAt after the last step")
	}
}
