package main

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/threesixty/filmstrip"
	xdraw "golang.org/x/image/draw"
)

const maxCols = 96

// termRenderer draws the visible frame with half-block cells: each cell
// shows two vertically stacked pixels. Pointer X and the container width
// are both measured in cells.
type termRenderer struct {
	total   int
	sources []image.Image
	cache   []*image.RGBA
	loaded  int

	visible  int
	revealed bool

	aspect     float64
	cols, rows int
	area       image.Rectangle
	background tcell.Color
}

func newTermRenderer(totalFrames int, background color.Color) *termRenderer {
	return &termRenderer{
		total:      totalFrames,
		sources:    make([]image.Image, totalFrames),
		cache:      make([]*image.RGBA, totalFrames),
		visible:    -1,
		aspect:     1,
		background: tcellColor(background),
	}
}

// Layout centers the widget on a cols x rows screen.
func (r *termRenderer) Layout(cols, rows int) {
	r.cols, r.rows = cols, rows

	w := min(cols-4, maxCols)
	h := int(math.Round(float64(w) * r.aspect / 2))
	if h > rows-2 {
		h = rows - 2
		w = int(float64(h) * 2 / r.aspect)
	}
	w, h = max(w, 1), max(h, 1)

	x := (cols - w) / 2
	y := (rows - h) / 2
	r.area = image.Rect(x, y, x+w, y+h)
	clear(r.cache)
}

func (r *termRenderer) Width() float64 { return float64(r.area.Dx()) }

func (r *termRenderer) Contains(x, y int) bool {
	return image.Pt(x, y).In(r.area)
}

func (r *termRenderer) CreateFrame(f filmstrip.Frame) {
	if f.Index < 0 || f.Index >= r.total || f.Image == nil {
		return
	}
	if r.loaded == 0 && f.Width > 0 {
		r.aspect = float64(f.Height) / f.Width
		r.Layout(r.cols, r.rows)
	}
	if r.sources[f.Index] == nil {
		r.loaded++
	}
	r.sources[f.Index] = f.Image
}

func (r *termRenderer) ShowFrame(index int) {
	if index < 0 || index >= r.total {
		return
	}
	r.visible = index
}

func (r *termRenderer) HideFrame(index int) {
	if r.visible == index {
		r.visible = -1
	}
}

func (r *termRenderer) RevealAll() { r.revealed = true }

// frame returns frame i scaled to the current area, two pixels per cell
// row.
func (r *termRenderer) frame(i int) *image.RGBA {
	if r.cache[i] == nil && r.sources[i] != nil {
		src := r.sources[i]
		dst := image.NewRGBA(image.Rect(0, 0, r.area.Dx(), r.area.Dy()*2))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
		r.cache[i] = dst
	}
	return r.cache[i]
}

func (r *termRenderer) Draw(s tcell.Screen, status string) {
	s.Clear()
	base := tcell.StyleDefault.Background(r.background)
	for y := r.area.Min.Y; y < r.area.Max.Y; y++ {
		for x := r.area.Min.X; x < r.area.Max.X; x++ {
			s.SetContent(x, y, ' ', nil, base)
		}
	}

	if !r.revealed {
		drawText(s, r.area.Min.X+1, r.area.Min.Y, base.Foreground(tcell.ColorGray), fmt.Sprintf("loading %d/%d", r.loaded, r.total))
	} else if r.visible >= 0 {
		if img := r.frame(r.visible); img != nil {
			for y := 0; y < r.area.Dy(); y++ {
				for x := 0; x < r.area.Dx(); x++ {
					top, bottom := img.RGBAAt(x, 2*y), img.RGBAAt(x, 2*y+1)
					style := tcell.StyleDefault.Foreground(tcellColor(top)).Background(tcellColor(bottom))
					s.SetContent(r.area.Min.X+x, r.area.Min.Y+y, '▀', nil, style)
				}
			}
		}
	}

	if status != "" {
		drawText(s, 0, r.rows-1, tcell.StyleDefault.Foreground(tcell.ColorSilver), status)
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, ch := range text {
		s.SetContent(x, y, ch, nil, style)
		x++
	}
}

func tcellColor(c color.Color) tcell.Color {
	if c == nil {
		return tcell.ColorDefault
	}
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return tcell.NewRGBColor(int32(rgba.R), int32(rgba.G), int32(rgba.B))
}
