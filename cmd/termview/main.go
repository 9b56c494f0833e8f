package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep/speaker"
	"github.com/milk9111/threesixty/config"
	"github.com/milk9111/threesixty/motion"
	"github.com/milk9111/threesixty/pointer"
	"github.com/milk9111/threesixty/render"
	"github.com/milk9111/threesixty/viewer"
)

func main() {
	configPath := flag.String("config", config.DefaultFile, "YAML config file")
	sheet := flag.String("sheet", "", "filmstrip image (overrides the config)")
	frames := flag.Int("frames", 0, "number of frames in the filmstrip (overrides the config)")
	click := flag.Bool("click", false, "play a click at every twelfth of a turn")
	logPath := flag.String("log", "", "write logs to this file instead of discarding them")
	flag.Parse()

	// the terminal is busy drawing; logs go to a file or nowhere
	log.SetOutput(discard{})
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "termview: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	cfg, err := config.Load(*configPath)
	if err == nil {
		if *sheet != "" {
			cfg.Sheet = *sheet
		}
		if *frames != 0 {
			cfg.TotalFrames = *frames
		}
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "termview: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *click); err != nil {
		fmt.Fprintf(os.Stderr, "termview: %v\n", err)
		os.Exit(1)
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func run(cfg config.Config, click bool) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	rend := newTermRenderer(cfg.TotalFrames, cfg.BackgroundColor())
	rend.Layout(screen.Size())

	renderers := viewer.Fanout{rend}
	if click {
		play, err := initSpeaker()
		if err != nil {
			log.Printf("termview: click disabled: %v", err)
		} else {
			defer speaker.Close()
			renderers = append(renderers, newClicker(cfg.TotalFrames, play))
		}
	}

	post := make(chan func(), 4)
	opts := cfg.ViewerOptions()
	opts.Renderer = renderers
	opts.Ticker = motion.NewTimerTicker(motion.TickInterval, post)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	v, err := viewer.Attach(ctx, rend, render.FileSource{Path: cfg.Sheet}, opts)
	if err != nil {
		return err
	}
	defer v.Close()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	redraw := time.NewTicker(motion.TickInterval)
	defer redraw.Stop()

	var (
		button pointer.Button
		status = "drag to spin · r recenter · q quit"
		dirty  = true
	)
	loaded := v.Frames()
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return nil
				}
				if ev.Rune() == 'r' {
					if err := v.Recenter(); err != nil {
						log.Printf("termview: recenter: %v", err)
					}
				}
			case *tcell.EventResize:
				screen.Sync()
				rend.Layout(screen.Size())
			case *tcell.EventMouse:
				x, y := ev.Position()
				pressed := ev.Buttons()&tcell.Button1 != 0
				if pe, ok := button.Sample(pressed, rend.Contains(x, y), float64(x), ev.When()); ok {
					if err := v.Dispatch(pe); err != nil {
						log.Printf("termview: %v", err)
					}
				}
			}
			dirty = true
		case f, ok := <-loaded:
			if !ok {
				loaded = nil
				continue
			}
			v.Accept(f)
			dirty = true
		case err := <-v.Errors():
			log.Printf("termview: %v", err)
			status = err.Error()
			dirty = true
		case fn := <-post:
			fn()
			dirty = true
		case <-redraw.C:
			if !dirty {
				continue
			}
			rend.Draw(screen, status)
			screen.Show()
			dirty = false
		}
	}
}
