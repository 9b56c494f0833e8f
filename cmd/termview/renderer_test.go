package main

import (
	"image"
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/threesixty/filmstrip"
)

func twoTone(w, h int, top, bottom color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		c := top
		if y >= h/2 {
			c = bottom
		}
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func newScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)
	return screen
}

func TestTermRendererLayout(t *testing.T) {
	r := newTermRenderer(4, nil)
	r.Layout(40, 30)
	if r.area != image.Rect(2, 6, 38, 24) {
		t.Fatalf("square frames on 40x30: area %v", r.area)
	}
	if r.Width() != 36 {
		t.Fatalf("width = %v", r.Width())
	}

	// a short terminal bounds the height; the width follows the aspect ratio
	r.Layout(200, 12)
	if r.area.Dy() != 10 || r.area.Dx() != 20 {
		t.Fatalf("short terminal: area %v", r.area)
	}
	if !r.Contains(r.area.Min.X, r.area.Min.Y) || r.Contains(r.area.Max.X, r.area.Min.Y) {
		t.Fatalf("Contains does not match the area")
	}
}

func TestTermRendererDrawsVisibleFrame(t *testing.T) {
	screen := newScreen(t, 40, 30)
	r := newTermRenderer(2, color.Black)
	r.Layout(40, 30)

	red := color.RGBA{R: 0xff, A: 0xff}
	blue := color.RGBA{B: 0xff, A: 0xff}
	r.CreateFrame(filmstrip.Frame{Index: 0, Width: 8, Height: 8, Image: twoTone(8, 8, red, blue)})
	r.CreateFrame(filmstrip.Frame{Index: 1, Width: 8, Height: 8, Image: twoTone(8, 8, blue, blue)})

	r.ShowFrame(0)
	r.Draw(screen, "")
	ch, _, _, _ := screen.GetContent(r.area.Min.X+1, r.area.Min.Y)
	if ch == '▀' {
		t.Fatalf("frame drawn before reveal")
	}

	r.RevealAll()
	r.Draw(screen, "status")
	ch, _, style, _ := screen.GetContent(r.area.Min.X+1, r.area.Min.Y)
	fg, bg, _ := style.Decompose()
	if ch != '▀' {
		t.Fatalf("expected half block, got %q", ch)
	}
	if fr, _, fb := fg.RGB(); fr < 200 || fb > 50 {
		t.Fatalf("top pixel should be red, got %v", fg)
	}
	if br, _, bb := bg.RGB(); br < 200 || bb > 50 {
		t.Fatalf("bottom pixel of the first row should be red too, got %v", bg)
	}

	_, _, style, _ = screen.GetContent(r.area.Min.X+1, r.area.Max.Y-1)
	_, bg, _ = style.Decompose()
	if br, _, bb := bg.RGB(); br > 50 || bb < 200 {
		t.Fatalf("last row should be blue, got %v", bg)
	}

	r.HideFrame(0)
	r.ShowFrame(1)
	r.Draw(screen, "")
	_, _, style, _ = screen.GetContent(r.area.Min.X+1, r.area.Min.Y)
	fg, _, _ = style.Decompose()
	if fr, _, fb := fg.RGB(); fr > 50 || fb < 200 {
		t.Fatalf("frame 1 should be blue, got %v", fg)
	}
}

func TestTermRendererIgnoresOutOfRange(t *testing.T) {
	r := newTermRenderer(3, nil)
	r.ShowFrame(1)
	r.ShowFrame(-1)
	r.ShowFrame(3)
	if r.visible != 1 {
		t.Fatalf("visible = %d", r.visible)
	}
	r.HideFrame(2)
	if r.visible != 1 {
		t.Fatalf("hiding another frame changed the visible one")
	}
}

func TestClickerDetents(t *testing.T) {
	clicks := 0
	c := newClicker(180, func() { clicks++ })

	for _, i := range []int{0, 5, 14, 15, 16, 29, 30, 178, -1, 178} {
		c.ShowFrame(i)
	}
	// 0..14 | 15..29 | 30.. | 178
	if clicks != 3 {
		t.Fatalf("expected 3 clicks, got %d", clicks)
	}
}
