// Package game hosts the particle field in a desktop window using ebiten.
package game

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/ncruces/zenity"
	"golang.org/x/image/font/basicfont"

	"github.com/iburimskiy/particle-network/internal/ambient"
	"github.com/iburimskiy/particle-network/internal/config"
	"github.com/iburimskiy/particle-network/internal/field"
)

// Track is the ambient soundtrack the game pulses the accent with.
type Track interface {
	Level() float64
	Pause(paused bool)
	Position() time.Duration
	Duration() time.Duration
	Close() error
}

// Game implements ebiten.Game around a particle field.
type Game struct {
	field   *field.Field
	pointer field.Pointer
	width   int
	height  int
	hue     float64

	track      Track
	selectFile func() (string, error)
	openTrack  func(string) (Track, error)

	// input edge detection
	prevKey map[ebiten.Key]bool

	showHUD bool
	paused  bool
	lastErr error
}

func New(f *field.Field, cfg config.Config) *Game {
	w, h := f.Size()
	g := &Game{
		field:      f,
		width:      int(w),
		height:     int(h),
		hue:        cfg.AccentHue,
		selectFile: selectTrackDialog,
		openTrack:  openAmbient,
		prevKey:    map[ebiten.Key]bool{},
		showHUD:    cfg.HUD,
	}
	f.SetAccent(field.HSV(cfg.AccentHue, 1, 1))
	return g
}

func openAmbient(path string) (Track, error) {
	t, err := ambient.Open(path)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// SetTrack replaces the ambient track, closing the previous one.
func (g *Game) SetTrack(t Track) {
	if g.track != nil {
		if err := g.track.Close(); err != nil {
			log.Printf("close track: %v", err)
		}
	}
	g.track = t
	if t == nil {
		g.field.SetAccent(field.HSV(g.hue, 1, 1))
	}
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if justPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if justPressed(ebiten.KeySpace) {
		g.togglePause()
	}
	// The file dialog is modal: frames stop until it closes.
	if justPressed(ebiten.KeyM) {
		if err := g.openMusic(); err != nil {
			log.Printf("open music: %v", err)
			g.lastErr = err
		}
	}

	x, y := ebiten.CursorPosition()
	if touches := ebiten.AppendTouchIDs(nil); len(touches) > 0 {
		x, y = ebiten.TouchPosition(touches[0])
	}
	g.pointer = pointerAt(x, y, g.width, g.height, ebiten.IsFocused())

	if g.track != nil {
		g.field.SetAccent(field.Pulse(g.hue, g.track.Level()))
	}
	if !g.paused {
		g.field.Advance(g.pointer)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.field.Render(screenSurface{dst: screen}, g.pointer)

	y := 18
	for _, line := range g.statusLines() {
		text.Draw(screen, line, basicfont.Face7x13, 12, y, color.White)
		y += 16
	}
}

// Layout reports the window size as the logical size and forwards changes to
// the field.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.field.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return g.width, g.height
}

// Close releases the ambient track.
func (g *Game) Close() {
	g.SetTrack(nil)
}

// pointerAt builds the pointer snapshot for a cursor position.
func pointerAt(x, y, width, height int, focused bool) field.Pointer {
	over := focused && x >= 0 && y >= 0 && x < width && y < height
	return field.Pointer{X: float64(x), Y: float64(y), Over: over}
}

func (g *Game) togglePause() {
	g.paused = !g.paused
	if g.track != nil {
		g.track.Pause(g.paused)
	}
}

func (g *Game) openMusic() error {
	path, err := g.selectFile()
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	t, err := g.openTrack(path)
	if err != nil {
		if errors.Is(err, ambient.ErrSpeaker) {
			// the speaker re-open already dropped the old stream
			g.SetTrack(nil)
		}
		return err
	}
	log.Printf("playing %s", path)
	g.SetTrack(t)
	g.lastErr = nil
	if g.paused {
		t.Pause(true)
	}
	return nil
}

func (g *Game) statusLines() []string {
	var lines []string
	if g.showHUD {
		lines = append(lines, fmt.Sprintf("particles: %d  edges: %d  tps: %.1f",
			g.field.Len(), len(g.field.Connections()), ebiten.ActualTPS()))
		if g.paused {
			lines = append(lines, "paused - Space to resume")
		}
		if g.track != nil {
			lines = append(lines, fmt.Sprintf("music: %s / %s",
				formatDuration(g.track.Position()), formatDuration(g.track.Duration())))
		} else {
			lines = append(lines, "M to open an ambient track")
		}
	}
	if g.lastErr != nil {
		lines = append(lines, "Error: "+g.lastErr.Error())
	}
	return lines
}

func selectTrackDialog() (string, error) {
	return zenity.SelectFile(
		zenity.Title("Open Ambient Track"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: ambient.Patterns,
		}},
	)
}

// Run opens the window and blocks until it is closed.
func Run(g *Game, cfg config.Config) error {
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(config.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}

// ReportFatal shows err in a native dialog; used when no surface could be
// created.
func ReportFatal(err error) {
	if derr := zenity.Error(err.Error(), zenity.Title("Particle Network"), zenity.ErrorIcon); derr != nil {
		log.Printf("error dialog: %v", derr)
	}
}
