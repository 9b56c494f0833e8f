package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/threesixty/config"
	"github.com/milk9111/threesixty/input"
	"github.com/milk9111/threesixty/mirror"
	"github.com/milk9111/threesixty/render"
	"github.com/milk9111/threesixty/viewer"
	"golang.org/x/image/colornames"
)

type Game struct {
	frames int
	debug  bool

	cfg        config.Config
	configPath string
	override   func(config.Config) (config.Config, error)
	watcher    *config.Watcher

	viewer *viewer.Viewer
	screen *render.Screen
	poller *input.Poller
	mirror *mirror.Publisher

	ui      *ebitenui.UI
	paused  bool
	loadErr error
}

func NewGame(cfg config.Config, configPath string, override func(config.Config) (config.Config, error), pub *mirror.Publisher, debug bool) (*Game, error) {
	g := &Game{
		debug:      debug,
		cfg:        cfg,
		configPath: configPath,
		override:   override,
		mirror:     pub,
	}
	if err := g.attach(); err != nil {
		return nil, err
	}

	w, err := config.NewWatcher(configPath)
	if err != nil {
		log.Printf("config: hot reload disabled: %v", err)
	} else {
		g.watcher = w
	}
	return g, nil
}

// attach replaces the widget with a fresh instance built from g.cfg.
func (g *Game) attach() error {
	screen := render.NewScreen(g.cfg.TotalFrames, g.cfg.Container.Rect(), g.cfg.FadeIn, g.cfg.BackgroundColor())
	renderers := viewer.Fanout{screen}
	if g.mirror != nil {
		g.mirror.Reset(g.cfg.TotalFrames)
		renderers = append(renderers, g.mirror)
	}

	opts := g.cfg.ViewerOptions()
	opts.Renderer = renderers
	v, err := viewer.Attach(context.Background(), screen, render.FileSource{Path: g.cfg.Sheet}, opts)
	if err != nil {
		return err
	}

	if g.viewer != nil {
		g.viewer.Close()
	}
	g.viewer = v
	g.screen = screen
	g.poller = input.NewPoller(screen)
	g.ui = NewPauseUI(g)
	g.loadErr = nil
	return nil
}

func (g *Game) reload() {
	cfg, err := loadConfig(g.configPath, g.override)
	if err != nil {
		log.Printf("config: reload %s: %v", g.configPath, err)
		return
	}
	prev := g.cfg
	g.cfg = cfg
	if err := g.attach(); err != nil {
		log.Printf("config: reload %s: %v", g.configPath, err)
		g.cfg = prev
		return
	}
	if cfg.Window != prev.Window {
		ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
		ebiten.SetWindowTitle(cfg.Window.Title)
	}
	log.Printf("config: reloaded %s", g.configPath)
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	select {
	case _, ok := <-g.watcher.Events:
		if ok {
			g.reload()
		}
	case err, ok := <-g.watcher.Errors:
		if ok {
			log.Printf("config: watch: %v", err)
		}
	default:
	}
}

func (g *Game) Update() error {
	g.frames++
	g.pollWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if g.paused {
		g.ui.Update()
		return nil
	}

	if err := g.viewer.Pump(); err != nil {
		log.Printf("viewer: %v", err)
		g.loadErr = err
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.recenter()
	}
	for _, ev := range g.poller.Update(time.Now()) {
		if err := g.viewer.Dispatch(ev); err != nil {
			log.Printf("viewer: %v", err)
		}
	}
	g.viewer.Advance()
	g.screen.Update()
	return nil
}

func (g *Game) recenter() {
	if err := g.viewer.Recenter(); err != nil {
		log.Printf("viewer: recenter: %v", err)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Darkslategray)
	g.screen.Draw(screen)

	if g.loadErr != nil {
		ebitenutil.DebugPrintAt(screen, g.loadErr.Error(), 4, g.cfg.Window.Height-16)
	} else if !g.viewer.Ready() {
		b := g.screen.Bounds()
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("loading %d/%d", g.viewer.Loaded(), g.viewer.TotalFrames()), b.Min.X+4, b.Min.Y+4)
	}

	if g.debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.2f  updates: %d  state: %s  frame: %d  current: %.1f  target: %.1f  drag: %v",
			ebiten.ActualFPS(), g.frames, g.viewer.State(), g.viewer.Frame(), g.viewer.Current(), g.viewer.Target(), g.poller.Dragging()))
	}

	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.viewer.Close()
}
