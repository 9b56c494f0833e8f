package filmstrip

import (
	"context"
	"fmt"
	"image"
	"runtime"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// Frame is one preloaded crop of the filmstrip. Frames are immutable once
// built and are owned by the Store they are added to.
type Frame struct {
	Index  int
	Offset float64
	Width  float64
	Height int
	Image  image.Image
}

// Preload measures sheet, partitions it into totalFrames slices and builds
// the frame crops on a bounded worker group. Every finished frame is sent on
// the returned channel in whatever order the workers complete; the channel
// is closed once all frames were delivered or ctx is done.
func Preload(ctx context.Context, sheet image.Image, totalFrames int) (<-chan Frame, error) {
	if sheet == nil {
		return nil, ErrEmptySource
	}
	bounds := sheet.Bounds()
	slices, err := Partition(totalFrames, bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	out := make(chan Frame, len(slices))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	go func() {
		defer close(out)
		for _, s := range slices {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				f := crop(sheet, s)
				select {
				case out <- f:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
		}
		_ = g.Wait()
	}()

	return out, nil
}

// crop copies the slice's pixels out of sheet so the frame does not pin the
// whole sheet in memory.
func crop(sheet image.Image, s Slice) Frame {
	origin := sheet.Bounds().Min
	r := s.Rect().Add(origin).Intersect(sheet.Bounds())
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	xdraw.Copy(dst, image.Point{}, sheet, r, xdraw.Src, nil)
	return Frame{
		Index:  s.Index,
		Offset: s.Offset,
		Width:  s.Width,
		Height: s.Height,
		Image:  dst,
	}
}

func (f Frame) String() string {
	return fmt.Sprintf("frame %d @%.2fpx", f.Index, f.Offset)
}
