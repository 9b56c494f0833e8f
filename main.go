package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/threesixty/config"
	"github.com/milk9111/threesixty/mirror"
)

func main() {
	configPath := flag.String("config", config.DefaultFile, "YAML config file")
	sheet := flag.String("sheet", "", "filmstrip image (overrides the config)")
	frames := flag.Int("frames", 0, "number of frames in the filmstrip (overrides the config)")
	debug := flag.Bool("debug", false, "enable debug mode")
	headless := flag.Bool("headless", false, "play a gesture script without opening a window")
	script := flag.String("replay", "spin", "gesture script played by -headless (embedded name or path)")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	mqtt.ERROR = log.New(os.Stderr, "mqtt: ", 0)

	override := func(cfg config.Config) (config.Config, error) {
		if *sheet != "" {
			cfg.Sheet = *sheet
		}
		if *frames != 0 {
			cfg.TotalFrames = *frames
		}
		return cfg, cfg.Validate()
	}

	cfg, err := loadConfig(*configPath, override)
	if err != nil {
		log.Fatal(err)
	}
	if *debug {
		log.Printf("config: %+v", cfg)
	}

	var pub *mirror.Publisher
	if cfg.Mirror.Enabled() {
		pub, err = mirror.Connect(cfg.Mirror, cfg.TotalFrames)
		if err != nil {
			log.Printf("mirror disabled: %v", err)
		} else {
			defer pub.Close()
		}
	}

	if *headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		err := runHeadless(ctx, cfg, *script, pub, *debug)
		stop()
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)

	game, err := NewGame(cfg, *configPath, override, pub, *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(path string, override func(config.Config) (config.Config, error)) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	return override(cfg)
}
