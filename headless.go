package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/milk9111/threesixty/config"
	"github.com/milk9111/threesixty/filmstrip"
	"github.com/milk9111/threesixty/mirror"
	"github.com/milk9111/threesixty/motion"
	"github.com/milk9111/threesixty/render"
	"github.com/milk9111/threesixty/replay"
	"github.com/milk9111/threesixty/viewer"
)

type fixedWidth float64

func (w fixedWidth) Width() float64 { return float64(w) }

// frameLog is a render adapter that counts and optionally logs the frames
// shown.
type frameLog struct {
	verbose bool
	shown   int
}

func (l *frameLog) CreateFrame(filmstrip.Frame) {}
func (l *frameLog) HideFrame(int) {}

func (l *frameLog) ShowFrame(index int) {
	l.shown++
	if l.verbose {
		log.Printf("headless: frame %d", index)
	}
}

func (l *frameLog) RevealAll() {
	log.Printf("headless: all frames loaded")
}

// runHeadless attaches a widget without a window, plays the gesture script
// once the widget is ready and returns when the script is done and the
// animation has settled.
func runHeadless(ctx context.Context, cfg config.Config, scriptName string, pub *mirror.Publisher, debug bool) error {
	src, err := replay.LoadScript(scriptName)
	if err != nil {
		return fmt.Errorf("headless: load script %s: %w", scriptName, err)
	}
	width := float64(cfg.Container.Width)
	steps, err := replay.Compile(ctx, src, replay.Params{Width: width, TotalFrames: cfg.TotalFrames})
	if err != nil {
		return fmt.Errorf("headless: %s: %w", scriptName, err)
	}

	post := make(chan func(), 4)
	ticker := motion.NewTimerTicker(motion.TickInterval, post)
	frames := &frameLog{verbose: debug}
	renderers := viewer.Fanout{frames}
	if pub != nil {
		renderers = append(renderers, pub)
	}

	opts := cfg.ViewerOptions()
	opts.Renderer = renderers
	opts.Ticker = ticker
	v, err := viewer.Attach(ctx, fixedWidth(width), render.FileSource{Path: cfg.Sheet}, opts)
	if err != nil {
		return err
	}
	defer v.Close()

	var (
		player *replay.Player
		timer  = time.NewTimer(time.Hour)
		due    <-chan time.Time
	)
	timer.Stop()
	defer timer.Stop()

	schedule := func() {
		next, ok := player.NextAt()
		if !ok {
			due = nil
			return
		}
		timer.Reset(time.Until(next))
		due = timer.C
	}
	settled := func() bool {
		return player != nil && player.Done() && !ticker.Active()
	}

	start := time.Now()
	loaded := v.Frames()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-v.Errors():
			return err
		case f, ok := <-loaded:
			if !ok {
				loaded = nil
				continue
			}
			v.Accept(f)
			if v.Ready() && player == nil {
				log.Printf("headless: ready after %v, playing %s (%d steps)", time.Since(start).Round(time.Millisecond), scriptName, len(steps))
				player = replay.NewPlayer(steps, time.Now())
				schedule()
			}
		case now := <-due:
			for _, ev := range player.Due(now) {
				if err := v.Dispatch(ev); err != nil {
					log.Printf("headless: %v", err)
				}
			}
			schedule()
		case fn := <-post:
			fn()
		}

		if settled() {
			log.Printf("headless: settled at frame %d (current %.0f) after %d frame changes", v.Frame(), v.Current(), frames.shown)
			return nil
		}
	}
}
