package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/milk9111/threesixty/viewer"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file name looked up by the hosts.
const DefaultFile = "threesixty.yaml"

//go:embed threesixty.yaml
var defaultYAML []byte

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Sheet           string        `yaml:"sheet"`
	TotalFrames     int           `yaml:"total_frames"`
	SampleInterval  time.Duration `yaml:"sample_interval"`
	SpeedMultiplier float64       `yaml:"speed_multiplier"`
	FadeIn          time.Duration `yaml:"fade_in"`
	Background      YAMLColor     `yaml:"background"`
	Window          WindowSpec    `yaml:"window"`
	Container       RectSpec      `yaml:"container"`
	Mirror          MirrorSpec    `yaml:"mirror"`
}

type WindowSpec struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type RectSpec struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func (r RectSpec) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// MirrorSpec configures the MQTT frame mirror. An empty URL disables it.
type MirrorSpec struct {
	URL      string `yaml:"url"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Topic    string `yaml:"topic"`
	QoS      byte   `yaml:"qos"`
}

func (m MirrorSpec) Enabled() bool { return m.URL != "" }

// YAMLColor accepts "#rrggbb" or a CSS color name.
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	s := strings.TrimSpace(value.Value)
	if strings.HasPrefix(s, "#") {
		col, err := colorful.Hex(s)
		if err != nil {
			return fmt.Errorf("invalid color %q: %w", s, err)
		}
		c.Color = col
		return nil
	}
	named, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return fmt.Errorf("unknown color name %q", s)
	}
	c.Color = named
	return nil
}

func (c YAMLColor) MarshalYAML() (any, error) {
	if c.Color == nil {
		return "", nil
	}
	col, ok := colorful.MakeColor(c.Color)
	if !ok {
		return "", nil
	}
	return col.Hex(), nil
}

// Default returns the embedded default configuration.
func Default() Config {
	cfg, err := Parse(defaultYAML)
	if err != nil {
		log.Fatalf("config: embedded default: %v", err)
	}
	return cfg
}

// Parse decodes data over the built-in defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Config{
		TotalFrames:     180,
		SampleInterval:  10 * time.Millisecond,
		SpeedMultiplier: -10,
		FadeIn:          600 * time.Millisecond,
		Background:      YAMLColor{Color: colornames.Black},
		Window:          WindowSpec{Width: 640, Height: 360, Title: "threesixty"},
		Container:       RectSpec{Width: 256, Height: 256},
		Mirror:          MirrorSpec{ClientID: "threesixty", Topic: "threesixty/frame"},
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads path from disk. A missing file named DefaultFile falls back
// to the embedded default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && filepath.Base(path) == DefaultFile {
		data, err = defaultYAML, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Sheet == "":
		return fmt.Errorf("%w: sheet is empty", ErrInvalid)
	case c.TotalFrames <= 0:
		return fmt.Errorf("%w: total_frames must be positive, got %d", ErrInvalid, c.TotalFrames)
	case c.SampleInterval < 0:
		return fmt.Errorf("%w: sample_interval must not be negative, got %v", ErrInvalid, c.SampleInterval)
	case c.SpeedMultiplier == 0 || math.IsNaN(c.SpeedMultiplier) || math.IsInf(c.SpeedMultiplier, 0):
		return fmt.Errorf("%w: speed_multiplier must be a non-zero number, got %v", ErrInvalid, c.SpeedMultiplier)
	case c.FadeIn < 0:
		return fmt.Errorf("%w: fade_in must not be negative, got %v", ErrInvalid, c.FadeIn)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Container.Width <= 0 || c.Container.Height <= 0:
		return fmt.Errorf("%w: container size %dx%d", ErrInvalid, c.Container.Width, c.Container.Height)
	case c.Mirror.QoS > 2:
		return fmt.Errorf("%w: mirror qos must be 0, 1 or 2, got %d", ErrInvalid, c.Mirror.QoS)
	case c.Mirror.Enabled() && c.TotalFrames > math.MaxUint16:
		return fmt.Errorf("%w: mirror carries at most %d frames, got %d", ErrInvalid, math.MaxUint16, c.TotalFrames)
	case c.Mirror.Enabled() && c.Mirror.Topic == "":
		return fmt.Errorf("%w: mirror topic is empty", ErrInvalid)
	}
	return nil
}

// ViewerOptions maps the config onto widget options. Renderer and ticker
// are left to the host.
func (c Config) ViewerOptions() viewer.Options {
	opts := viewer.DefaultOptions(c.TotalFrames)
	opts.SampleInterval = c.SampleInterval
	opts.SpeedMultiplier = c.SpeedMultiplier
	return opts
}

// BackgroundColor returns the widget background, black when unset.
func (c Config) BackgroundColor() color.Color {
	if c.Background.Color == nil {
		return colornames.Black
	}
	return c.Background.Color
}
