package main

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/milk9111/threesixty/filmstrip"
)

const (
	sampleRate = beep.SampleRate(44100)
	detents    = 12
)

// clicker plays a short tick whenever the visible frame crosses one of
// twelve detents around the turn.
type clicker struct {
	step int
	last int
	play func()
}

func newClicker(totalFrames int, play func()) *clicker {
	return &clicker{step: max(totalFrames/detents, 1), last: -1, play: play}
}

// initSpeaker opens the audio device and returns the tick player.
func initSpeaker() (func(), error) {
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("termview: audio: %w", err)
	}
	return func() {
		tone, err := generators.SineTone(sampleRate, 1800)
		if err != nil {
			return
		}
		speaker.Play(&effects.Gain{Streamer: beep.Take(sampleRate.N(6*time.Millisecond), tone), Gain: -0.8})
	}, nil
}

func (c *clicker) CreateFrame(filmstrip.Frame) {}
func (c *clicker) HideFrame(int) {}
func (c *clicker) RevealAll() {}

func (c *clicker) ShowFrame(index int) {
	if index < 0 {
		return
	}
	d := index / c.step
	if c.last >= 0 && d != c.last {
		c.play()
	}
	c.last = d
}
