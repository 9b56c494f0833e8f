// Command mkstrip renders a demo filmstrip: a striped cylinder turning one
// full revolution, one square frame per step, laid out left to right.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"os"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const stripes = 12

func main() {
	frames := flag.Int("frames", 180, "number of frames")
	size := flag.Int("size", 64, "frame width and height in pixels")
	labels := flag.Bool("labels", true, "draw the frame index into each frame")
	out := flag.String("o", "assets/turntable-strip.png", "output PNG")
	flag.Parse()

	if *frames <= 0 || *size < 8 {
		log.Fatalf("mkstrip: need frames > 0 and size >= 8")
	}

	img := Render(*frames, *size, *labels)

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		log.Fatal(err)
	}
	if err := f.Close(); err != nil {
		log.Fatal(err)
	}
	log.Printf("mkstrip: wrote %s (%d frames of %dx%d)", *out, *frames, *size, *size)
}

// Render draws the whole strip.
func Render(frames, size int, labels bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, frames*size, size))
	bg := color.RGBA{R: 0x1e, G: 0x1e, B: 0x24, A: 0xff}

	radius := float64(size) * 0.4
	cx := float64(size) / 2
	top, bottom := size/8, size-size/8

	for i := 0; i < frames; i++ {
		turn := 2 * math.Pi * float64(i) / float64(frames)
		x0 := i * size
		for x := 0; x < size; x++ {
			dx := (float64(x) + 0.5 - cx) / radius
			for y := 0; y < size; y++ {
				img.SetRGBA(x0+x, y, bg)
			}
			if math.Abs(dx) >= 1 {
				continue
			}
			u := math.Asin(dx)
			lon := math.Mod(u+turn+2*math.Pi, 2*math.Pi)
			band := int(lon / (2 * math.Pi) * stripes)
			hue := float64(band) * 360 / stripes
			shade := 0.35 + 0.65*math.Cos(u)
			c := colorful.Hsv(hue, 0.7, shade).Clamped()
			r, g, b := c.RGB255()
			for y := top; y < bottom; y++ {
				img.SetRGBA(x0+x, y, color.RGBA{R: r, G: g, B: b, A: 0xff})
			}
		}
		if labels {
			label(img, x0+2, size-2, strconv.Itoa(i))
		}
	}
	return img
}

func label(dst *image.RGBA, x, y int, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
