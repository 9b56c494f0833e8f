package filmstrip

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name    string
		current float64
		total   int
		want    int
	}{
		{"zero", 0, 180, 0},
		{"one", 1, 180, 178},
		{"minus_one", -1, 180, 1},
		{"last_positive", 179, 180, 0},
		{"full_turn", 180, 180, 0},
		{"minus_full_turn", -180, 180, 0},
		{"minus_179", -179, 180, 179},
		{"two_turns_plus_five", 365, 180, 174},
		{"fraction", 5.5, 180, 173},
		{"drag_full_width", -1790, 180, 170},
		{"two_frames", 1, 2, 0},
		{"two_frames_negative", -1, 2, 1},
		{"fraction_past_last", 179.5, 180, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Normalize(c.current, c.total); got != c.want {
				t.Fatalf("Normalize(%v, %d) = %d, want %d", c.current, c.total, got, c.want)
			}
		})
	}
}

func TestNormalizeIntegerRange(t *testing.T) {
	for _, total := range []int{2, 3, 7, 36, 180} {
		seen := make(map[int]bool)
		for f := -3 * total; f <= 3*total; f++ {
			got := Normalize(float64(f), total)
			if got < 0 || got > total-1 {
				t.Fatalf("Normalize(%d, %d) = %d, outside [0, %d]", f, total, got, total-1)
			}
			if got == total {
				t.Fatalf("Normalize(%d, %d) returned totalFrames", f, total)
			}
			seen[got] = true
		}
		if len(seen) != total {
			t.Fatalf("total=%d: reached %d distinct indices, want %d", total, len(seen), total)
		}
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	if got := Normalize(12, 0); got != 0 {
		t.Fatalf("expected 0 for zero frames, got %d", got)
	}
	if got := Normalize(12, 1); got != 0 {
		t.Fatalf("expected 0 for a single frame, got %d", got)
	}
}

func TestPartition(t *testing.T) {
	slices, err := Partition(4, 100, 20)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if len(slices) != 4 {
		t.Fatalf("expected 4 slices, got %d", len(slices))
	}
	for i, s := range slices {
		if s.Width != 25 || s.Offset != float64(25*i) || s.Height != 20 {
			t.Fatalf("slice %d = %+v", i, s)
		}
		if r := s.Rect(); r.Dx() != 25 || r.Min.X != 25*i {
			t.Fatalf("slice %d rect = %v", i, r)
		}
	}

	uneven, err := Partition(3, 100, 10)
	if err != nil {
		t.Fatalf("Partition uneven: %v", err)
	}
	if got := uneven[2].Offset; got < 66.66 || got > 66.67 {
		t.Fatalf("expected fractional offset ~66.67, got %v", got)
	}

	if _, err := Partition(0, 100, 10); !errors.Is(err, ErrInvalidFrameCount) {
		t.Fatalf("expected ErrInvalidFrameCount, got %v", err)
	}
	if _, err := Partition(3, 0, 10); !errors.Is(err, ErrEmptySource) {
		t.Fatalf("expected ErrEmptySource, got %v", err)
	}
}

func TestStoreReadyExactlyOnce(t *testing.T) {
	const total = 12
	s, err := NewStore(total)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	order := rand.New(rand.NewSource(7)).Perm(total)
	readyCount := 0
	for n, idx := range order {
		if s.Add(Frame{Index: idx}) {
			readyCount++
			if n != total-1 {
				t.Fatalf("store ready after %d frames, want %d", n+1, total)
			}
		}
		// duplicates never count
		if s.Add(Frame{Index: idx}) {
			t.Fatalf("duplicate frame %d completed the store", idx)
		}
	}
	if readyCount != 1 {
		t.Fatalf("ready fired %d times, want 1", readyCount)
	}
	if !s.Ready() || s.Loaded() != total {
		t.Fatalf("store not complete: ready=%v loaded=%d", s.Ready(), s.Loaded())
	}
	if s.Add(Frame{Index: total}) || s.Add(Frame{Index: -1}) {
		t.Fatalf("out-of-range frames must be ignored")
	}
}

func TestStoreGetNormalizes(t *testing.T) {
	s, _ := NewStore(4)
	for i := 0; i < 4; i++ {
		s.Add(Frame{Index: i, Offset: float64(i * 10)})
	}
	f, ok := s.Get(-1)
	if !ok || f.Index != 1 {
		t.Fatalf("Get(-1) = %+v ok=%v, want index 1", f, ok)
	}
	f, ok = s.Get(1)
	if !ok || f.Index != 2 {
		t.Fatalf("Get(1) = %+v ok=%v, want index 2", f, ok)
	}
	if _, ok := s.At(9); ok {
		t.Fatalf("At(9) should miss")
	}
}

func TestNewStoreRejectsBadCount(t *testing.T) {
	if _, err := NewStore(0); !errors.Is(err, ErrInvalidFrameCount) {
		t.Fatalf("expected ErrInvalidFrameCount, got %v", err)
	}
}

func stripe(frames, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, frames*w, h))
	for i := 0; i < frames; i++ {
		c := color.RGBA{R: uint8(i), A: 0xff}
		for x := i * w; x < (i+1)*w; x++ {
			for y := 0; y < h; y++ {
				img.SetRGBA(x, y, c)
			}
		}
	}
	return img
}

func TestPreloadDeliversEveryFrame(t *testing.T) {
	const total = 24
	sheet := stripe(total, 5, 3)

	ch, err := Preload(context.Background(), sheet, total)
	if err != nil {
		t.Fatalf("Preload: %v", err)
	}

	s, _ := NewStore(total)
	readyCount := 0
	timeout := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case f, ok := <-ch:
			if !ok {
				done = true
				break
			}
			if b := f.Image.Bounds(); b.Dx() != 5 || b.Dy() != 3 {
				t.Fatalf("frame %d has bounds %v", f.Index, b)
			}
			r, _, _, _ := f.Image.At(0, 0).RGBA()
			if int(r>>8) != f.Index {
				t.Fatalf("frame %d cropped the wrong slice (red=%d)", f.Index, r>>8)
			}
			if s.Add(f) {
				readyCount++
			}
		case <-timeout:
			t.Fatalf("preload did not finish")
		}
	}
	if readyCount != 1 || !s.Ready() {
		t.Fatalf("expected one ready transition, got %d (ready=%v)", readyCount, s.Ready())
	}
}

func TestPreloadConfigurationErrors(t *testing.T) {
	if _, err := Preload(context.Background(), nil, 10); !errors.Is(err, ErrEmptySource) {
		t.Fatalf("expected ErrEmptySource, got %v", err)
	}
	if _, err := Preload(context.Background(), stripe(2, 2, 2), 0); !errors.Is(err, ErrInvalidFrameCount) {
		t.Fatalf("expected ErrInvalidFrameCount, got %v", err)
	}
}
