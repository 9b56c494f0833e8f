package render

import (
	"image"
	"image/color"
	"time"

	"github.com/fogleman/ease"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/threesixty/filmstrip"
	"github.com/milk9111/threesixty/motion"
)

// Screen renders a widget into an ebiten screen area. It doubles as the
// widget container: Width reports the area width in screen pixels.
type Screen struct {
	bounds     image.Rectangle
	background color.Color

	frames  []*ebiten.Image
	visible []bool

	revealed  bool
	fade      int
	fadeTicks int
}

// NewScreen creates a renderer for totalFrames frames drawn into bounds.
// After RevealAll the widget fades in over fadeIn using an ease-out curve.
func NewScreen(totalFrames int, bounds image.Rectangle, fadeIn time.Duration, background color.Color) *Screen {
	if totalFrames < 0 {
		totalFrames = 0
	}
	return &Screen{
		bounds:     bounds,
		background: background,
		frames:     make([]*ebiten.Image, totalFrames),
		visible:    make([]bool, totalFrames),
		fadeTicks:  int(fadeIn / motion.TickInterval),
	}
}

func (s *Screen) CreateFrame(f filmstrip.Frame) {
	if f.Index < 0 || f.Index >= len(s.frames) || f.Image == nil {
		return
	}
	s.frames[f.Index] = ebiten.NewImageFromImage(f.Image)
}

// ShowFrame and HideFrame ignore indices outside the strip.
func (s *Screen) ShowFrame(index int) { s.setVisible(index, true) }
func (s *Screen) HideFrame(index int) { s.setVisible(index, false) }

func (s *Screen) setVisible(index int, v bool) {
	if index < 0 || index >= len(s.visible) {
		return
	}
	s.visible[index] = v
}

func (s *Screen) RevealAll() {
	if s.revealed {
		return
	}
	s.revealed = true
	s.fade = 0
}

// Update advances the fade-in by one tick.
func (s *Screen) Update() {
	if s.revealed && s.fade < s.fadeTicks {
		s.fade++
	}
}

// Alpha is the current widget opacity in [0, 1].
func (s *Screen) Alpha() float64 {
	if !s.revealed {
		return 0
	}
	if s.fadeTicks <= 0 {
		return 1
	}
	return ease.OutQuad(float64(s.fade) / float64(s.fadeTicks))
}

func (s *Screen) Visible(index int) bool {
	if index < 0 || index >= len(s.visible) {
		return false
	}
	return s.visible[index]
}

// VisibleCount reports how many frames are flagged visible. Outside of a
// tick it is at most one.
func (s *Screen) VisibleCount() int {
	n := 0
	for _, v := range s.visible {
		if v {
			n++
		}
	}
	return n
}

func (s *Screen) Width() float64 { return float64(s.bounds.Dx()) }

func (s *Screen) Bounds() image.Rectangle { return s.bounds }

// Contains reports whether a screen point lies inside the widget area.
func (s *Screen) Contains(x, y int) bool {
	return image.Pt(x, y).In(s.bounds)
}

func (s *Screen) Draw(screen *ebiten.Image) {
	x, y := float32(s.bounds.Min.X), float32(s.bounds.Min.Y)
	w, h := float32(s.bounds.Dx()), float32(s.bounds.Dy())
	if s.background != nil {
		vector.FillRect(screen, x, y, w, h, s.background, false)
	}

	alpha := s.Alpha()
	if alpha <= 0 {
		vector.StrokeRect(screen, x, y, w, h, 1, color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}, false)
		return
	}
	for i, img := range s.frames {
		if img == nil || !s.visible[i] {
			continue
		}
		fb := img.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(w)/float64(fb.Dx()), float64(h)/float64(fb.Dy()))
		op.GeoM.Translate(float64(x), float64(y))
		op.ColorScale.ScaleAlpha(float32(alpha))
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(img, op)
	}
}
