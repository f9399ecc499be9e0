// Package terminal runs the particle field inside a terminal using tcell.
package terminal

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/particle-network/internal/ambient"
	"github.com/iburimskiy/particle-network/internal/field"
)

const frameInterval = 16 * time.Millisecond // ~60 FPS

// Host drives a field from a tcell screen: mouse and resize events update
// the pointer and size, a ticker advances and renders frames.
type Host struct {
	screen  tcell.Screen
	surface *Surface
	field   *field.Field

	pointer field.Pointer
	paused  bool

	track *ambient.Track
	hue   float64
}

func New(screen tcell.Screen, f *field.Field) *Host {
	return &Host{
		screen:  screen,
		surface: NewSurface(screen),
		field:   f,
	}
}

// SetTrack attaches an ambient track whose loudness pulses the accent hue.
func (h *Host) SetTrack(t *ambient.Track, hue float64) {
	h.track = t
	h.hue = hue
}

func (h *Host) Pointer() field.Pointer { return h.pointer }

func (h *Host) Paused() bool { return h.paused }

// Run processes events and draws frames until ctx is done or a quit key is
// pressed. The screen must already be initialised.
func (h *Host) Run(ctx context.Context) error {
	h.screen.EnableMouse(tcell.MouseMotionEvents)
	h.screen.EnableFocus()
	h.resize()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !h.handle(ev) {
				return nil
			}
		case <-ticker.C:
			h.frame()
		}
	}
}

// handle applies one event; it returns false when the host should stop.
func (h *Host) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
			h.paused = !h.paused
			if h.track != nil {
				h.track.Pause(h.paused)
			}
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		c := CellCenter(x, y)
		h.pointer = field.Pointer{X: c.X, Y: c.Y, Over: true}

	case *tcell.EventFocus:
		if !ev.Focused {
			h.pointer.Over = false
		}

	case *tcell.EventResize:
		h.screen.Sync()
		h.resize()
	}
	return true
}

func (h *Host) resize() {
	h.field.Resize(h.surface.Bounds())
}

func (h *Host) frame() {
	if h.track != nil {
		h.field.SetAccent(field.Pulse(h.hue, h.track.Level()))
	}
	if h.paused {
		h.field.Render(h.surface, h.pointer)
	} else {
		h.field.Frame(h.surface, h.pointer)
	}
	h.screen.Show()
}
