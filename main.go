package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/particle-network/internal/ambient"
	"github.com/iburimskiy/particle-network/internal/config"
	"github.com/iburimskiy/particle-network/internal/field"
	"github.com/iburimskiy/particle-network/internal/game"
	"github.com/iburimskiy/particle-network/internal/terminal"
)

func main() {
	cfg := config.Default()
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	log.SetPrefix("particle-network: ")
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	closeLog, err := setupLog(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	var runErr error
	switch cfg.Backend {
	case config.BackendTerminal:
		runErr = runTerminal(cfg, rng)
	default:
		runErr = runWindow(cfg, rng)
	}
	if runErr != nil {
		log.Printf("surface unavailable: %v", runErr)
		if cfg.Backend == config.BackendWindow {
			game.ReportFatal(runErr)
		}
		closeLog()
		os.Exit(1)
	}
}

// setupLog routes the standard logger. The terminal backend owns the screen,
// so it only logs to a file.
func setupLog(cfg config.Config) (func(), error) {
	if cfg.LogFile == "" {
		if cfg.Backend == config.BackendTerminal {
			log.SetOutput(io.Discard)
		}
		return func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return func() { _ = f.Close() }, nil
}

// openMusic starts the optional ambient track; failures only cost the music.
func openMusic(cfg config.Config) *ambient.Track {
	if cfg.Music == "" {
		return nil
	}
	t, err := ambient.Open(cfg.Music)
	if err != nil {
		log.Printf("music disabled: %v", err)
		return nil
	}
	return t
}

func runWindow(cfg config.Config, rng *rand.Rand) error {
	f := field.Create(float64(cfg.Width), float64(cfg.Height), cfg.Particles, rng)
	g := game.New(f, cfg)
	defer g.Close()
	if t := openMusic(cfg); t != nil {
		g.SetTrack(t)
	}
	return game.Run(g, cfg)
}

func runTerminal(cfg config.Config, rng *rand.Rand) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	w, h := terminal.NewSurface(screen).Bounds()
	f := field.Create(w, h, cfg.Particles, rng)
	f.SetAccent(field.HSV(cfg.AccentHue, 1, 1))
	host := terminal.New(screen, f)
	if t := openMusic(cfg); t != nil {
		defer func() {
			if err := t.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
				log.Printf("close track: %v", err)
			}
		}()
		host.SetTrack(t, cfg.AccentHue)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return host.Run(ctx)
}
