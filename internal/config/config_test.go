package config

import (
	"errors"
	"flag"
	"io"
	"math"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if c.Particles != 60 || c.Backend != BackendWindow {
		t.Errorf("Default() = %+v", c)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"terminal backend", func(c *Config) { c.Backend = BackendTerminal }, true},
		{"zero particles", func(c *Config) { c.Particles = 0 }, true},
		{"unknown backend", func(c *Config) { c.Backend = "svg" }, false},
		{"negative particles", func(c *Config) { c.Particles = -1 }, false},
		{"zero width", func(c *Config) { c.Width = 0 }, false},
		{"negative height", func(c *Config) { c.Height = -10 }, false},
		{"hue 360", func(c *Config) { c.AccentHue = 360 }, false},
		{"hue NaN", func(c *Config) { c.AccentHue = math.NaN() }, false},
		{"hue 359.5", func(c *Config) { c.AccentHue = 359.5 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(&c)
			err := c.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestRegisterFlags(t *testing.T) {
	c := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c.RegisterFlags(fs)

	args := []string{"-backend", "terminal", "-particles", "120", "-accent-hue", "200", "-music", "a.mp3", "-seed", "42", "-hud"}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if c.Backend != BackendTerminal || c.Particles != 120 || c.AccentHue != 200 ||
		c.Music != "a.mp3" || c.Seed != 42 || !c.HUD {
		t.Errorf("parsed config = %+v", c)
	}
	if c.Width != WindowWidth || c.Height != WindowHeight {
		t.Errorf("unset flags changed size to %dx%d", c.Width, c.Height)
	}
}
