package config

import (
	"errors"
	"flag"
	"fmt"
	"math"
)

const (
	WindowWidth  = 1024
	WindowHeight = 640
	WindowTitle  = "Particle Network - H: HUD, Space: pause, M: music, Esc/Q: quit"

	// Simulation parameters
	ParticleCount     = 60
	RepulsionRadius   = 150.0
	RepulsionStrength = 2.0
	RelaxRate         = 0.05
	MinRadius         = 1.0
	MaxRadius         = 3.0
	MaxDrift          = 0.25

	// Connection parameters
	LinkDistance        = 120.0
	LinkOpacity         = 0.5
	LinkWidth           = 1.0
	PointerLinkDistance = 100.0
	PointerLinkOpacity  = 0.8
	PointerLinkWidth    = 2.0
	PointerMarkerRadius = 4.0
	PointerMarkerAlpha  = 0.8

	// Terminal cell size in surface units
	CellWidth  = 8
	CellHeight = 16

	// Ambient track
	VisualRingSize  = 8192
	SmoothingFactor = 0.6
	LevelWindow     = 2048
)

// Backends
const (
	BackendWindow   = "window"
	BackendTerminal = "terminal"
)

var ErrInvalid = errors.New("invalid config")

// Config holds the runtime options parsed from the command line.
type Config struct {
	Backend   string
	Particles int
	Width     int
	Height    int
	AccentHue float64
	Music     string
	Seed      int64
	HUD       bool
	LogFile   string
}

func Default() Config {
	return Config{
		Backend:   BackendWindow,
		Particles: ParticleCount,
		Width:     WindowWidth,
		Height:    WindowHeight,
	}
}

// RegisterFlags binds c to fs, using the current values of c as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Backend, "backend", c.Backend, "renderer: window or terminal")
	fs.IntVar(&c.Particles, "particles", c.Particles, "number of particles")
	fs.IntVar(&c.Width, "width", c.Width, "initial window width")
	fs.IntVar(&c.Height, "height", c.Height, "initial window height")
	fs.Float64Var(&c.AccentHue, "accent-hue", c.AccentHue, "accent hue in degrees [0,360)")
	fs.StringVar(&c.Music, "music", c.Music, "ambient track to loop (wav, mp3, flac)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed, 0 for time based")
	fs.BoolVar(&c.HUD, "hud", c.HUD, "show the HUD on start")
	fs.StringVar(&c.LogFile, "log", c.LogFile, "log file (terminal backend discards logs when empty)")
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendWindow, BackendTerminal:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalid, c.Backend)
	}
	if c.Particles < 0 {
		return fmt.Errorf("%w: particles must be >= 0, got %d", ErrInvalid, c.Particles)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Width, c.Height)
	}
	if math.IsNaN(c.AccentHue) || c.AccentHue < 0 || c.AccentHue >= 360 {
		return fmt.Errorf("%w: accent hue %v out of [0,360)", ErrInvalid, c.AccentHue)
	}
	return nil
}
