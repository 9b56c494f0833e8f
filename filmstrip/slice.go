package filmstrip

import (
	"errors"
	"fmt"
	"image"
	"math"
)

var (
	ErrInvalidFrameCount = errors.New("filmstrip: frame count must be positive")
	ErrEmptySource       = errors.New("filmstrip: source image is empty")
)

// Slice describes one equal-width vertical strip of a horizontal filmstrip.
// Offset and Width are fractional; a sheet whose width is not a multiple of
// the frame count still maps every frame to its exact position.
type Slice struct {
	Index  int
	Offset float64
	Width  float64
	Height int
}

// Partition splits a sourceWidth x sourceHeight filmstrip into totalFrames
// slices of width sourceWidth/totalFrames, slice i starting at Width*i.
func Partition(totalFrames, sourceWidth, sourceHeight int) ([]Slice, error) {
	if totalFrames <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFrameCount, totalFrames)
	}
	if sourceWidth <= 0 || sourceHeight <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptySource, sourceWidth, sourceHeight)
	}

	width := float64(sourceWidth) / float64(totalFrames)
	slices := make([]Slice, totalFrames)
	for i := range slices {
		slices[i] = Slice{
			Index:  i,
			Offset: width * float64(i),
			Width:  width,
			Height: sourceHeight,
		}
	}
	return slices, nil
}

// Rect returns the pixel rectangle covered by the slice, relative to the
// sheet origin. Slices narrower than a pixel still cover one column.
func (s Slice) Rect() image.Rectangle {
	x0 := int(math.Floor(s.Offset))
	x1 := int(math.Floor(s.Offset + s.Width))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	return image.Rect(x0, 0, x1, s.Height)
}
