package viewer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/milk9111/threesixty/filmstrip"
	"github.com/milk9111/threesixty/motion"
	"github.com/milk9111/threesixty/pointer"
)

var ErrMissingSource = errors.New("viewer: missing source image")

// Container is the element the widget is attached to.
type Container interface {
	Width() float64
}

// Source yields the decoded filmstrip. Open runs off the host loop.
type Source interface {
	Open(ctx context.Context) (image.Image, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (image.Image, error)

func (f SourceFunc) Open(ctx context.Context) (image.Image, error) { return f(ctx) }

// Renderer is the render adapter driven by the widget.
type Renderer interface {
	motion.Renderer
	CreateFrame(f filmstrip.Frame)
}

// Options configures one widget instance. They are fixed for its lifetime.
type Options struct {
	TotalFrames     int
	SampleInterval  time.Duration
	SpeedMultiplier float64

	Renderer Renderer
	// Ticker drives the easing loop; defaults to a FrameTicker the host
	// advances through Viewer.Advance.
	Ticker motion.Ticker
}

// DefaultOptions returns the stock tuning for totalFrames frames.
func DefaultOptions(totalFrames int) Options {
	return Options{
		TotalFrames:     totalFrames,
		SampleInterval:  pointer.DefaultSampleInterval,
		SpeedMultiplier: pointer.DefaultSpeedMultiplier,
	}
}

// Viewer is one attached widget. All methods must be called from the host
// loop goroutine; only source loading and slicing run elsewhere.
type Viewer struct {
	opts      Options
	container Container
	renderer  Renderer

	store   *filmstrip.Store
	engine  *motion.Engine
	tracker *pointer.Tracker
	ticker  motion.Ticker

	frames chan filmstrip.Frame
	errs   chan error
	cancel context.CancelFunc
}

// Attach creates a widget on container for the filmstrip src and starts
// loading it in the background. Configuration errors are returned right
// away; load errors arrive on Errors and leave the widget waiting.
func Attach(ctx context.Context, container Container, src Source, opts Options) (*Viewer, error) {
	if src == nil {
		return nil, ErrMissingSource
	}
	if container == nil {
		return nil, errors.New("viewer: missing container")
	}
	store, err := filmstrip.NewStore(opts.TotalFrames)
	if err != nil {
		return nil, fmt.Errorf("viewer: attach: %w", err)
	}
	def := DefaultOptions(opts.TotalFrames)
	if opts.SampleInterval == 0 {
		opts.SampleInterval = def.SampleInterval
	}
	if opts.SpeedMultiplier == 0 {
		opts.SpeedMultiplier = def.SpeedMultiplier
	}
	if opts.Renderer == nil {
		opts.Renderer = Fanout{}
	}
	if opts.Ticker == nil {
		opts.Ticker = &motion.FrameTicker{}
	}

	v := &Viewer{
		opts:      opts,
		container: container,
		renderer:  opts.Renderer,
		store:     store,
		ticker:    opts.Ticker,
		frames:    make(chan filmstrip.Frame, opts.TotalFrames),
		errs:      make(chan error, 1),
	}
	v.engine = motion.NewEngine(opts.TotalFrames, opts.Renderer, opts.Ticker)
	v.tracker = pointer.NewTracker(v.engine, container, pointer.Config{
		TotalFrames:     opts.TotalFrames,
		SampleInterval:  opts.SampleInterval,
		SpeedMultiplier: opts.SpeedMultiplier,
	})

	ctx, v.cancel = context.WithCancel(ctx)
	go v.load(ctx, src, v.frames)
	return v, nil
}

func (v *Viewer) load(ctx context.Context, src Source, out chan<- filmstrip.Frame) {
	defer close(out)

	sheet, err := src.Open(ctx)
	if err != nil {
		v.fail(fmt.Errorf("viewer: open source: %w", err))
		return
	}
	loaded, err := filmstrip.Preload(ctx, sheet, v.opts.TotalFrames)
	if err != nil {
		v.fail(fmt.Errorf("viewer: preload: %w", err))
		return
	}
	for f := range loaded {
		select {
		case out <- f:
		case <-ctx.Done():
			return
		}
	}
}

func (v *Viewer) fail(err error) {
	select {
	case v.errs <- err:
	default:
	}
}

// Frames delivers loaded frames to select-based hosts, which pass each one
// to Accept. The channel closes once loading ends.
func (v *Viewer) Frames() <-chan filmstrip.Frame { return v.frames }

// Errors reports source load failures.
func (v *Viewer) Errors() <-chan error { return v.errs }

// Accept hands a loaded frame to the renderer and the store; the frame that
// completes the store makes the widget ready.
func (v *Viewer) Accept(f filmstrip.Frame) {
	v.renderer.CreateFrame(f)
	if v.store.Add(f) {
		v.engine.MarkReady()
	}
}

// Pump drains whatever frames are already loaded without blocking and
// returns a pending load error, if any. Frame-loop hosts call it once per
// update.
func (v *Viewer) Pump() error {
drain:
	for v.frames != nil {
		select {
		case f, ok := <-v.frames:
			if !ok {
				v.frames = nil
				break drain
			}
			v.Accept(f)
		default:
			break drain
		}
	}
	select {
	case err := <-v.errs:
		return err
	default:
		return nil
	}
}

// Advance runs one tick when the widget uses a FrameTicker.
func (v *Viewer) Advance() bool {
	if ft, ok := v.ticker.(*motion.FrameTicker); ok {
		return ft.Advance()
	}
	return false
}

func (v *Viewer) PointerDown(x float64) { v.tracker.Down(x) }
func (v *Viewer) PointerUp() { v.tracker.Up() }

func (v *Viewer) PointerMove(x float64, now time.Time) error {
	return v.tracker.Move(x, now)
}

// Dispatch routes a normalized pointer event.
func (v *Viewer) Dispatch(ev pointer.Event) error {
	return v.tracker.Dispatch(ev)
}

// Recenter eases back to the nearest position that shows frame 0.
func (v *Viewer) Recenter() error {
	cur := v.engine.Current()
	return v.engine.SetTarget(cur - math.Mod(cur, float64(v.opts.TotalFrames)))
}

// Close stops loading and the tick loop. The widget is unusable afterwards.
func (v *Viewer) Close() {
	v.cancel()
	v.engine.Stop()
}

func (v *Viewer) State() motion.State { return v.engine.State() }
func (v *Viewer) Ready() bool { return v.engine.Ready() }
func (v *Viewer) Frame() int { return v.engine.Frame() }
func (v *Viewer) Current() float64 { return v.engine.Current() }
func (v *Viewer) Target() float64 { return v.engine.End() }
func (v *Viewer) Loaded() int { return v.store.Loaded() }
func (v *Viewer) TotalFrames() int { return v.opts.TotalFrames }
func (v *Viewer) Dragging() bool { return v.tracker.Dragging() }

// Visible returns the frame currently shown.
func (v *Viewer) Visible() (filmstrip.Frame, bool) {
	return v.store.Get(v.engine.Current())
}
