package game

import (
	"errors"
	"testing"
	"time"

	"github.com/ncruces/zenity"

	"github.com/iburimskiy/particle-network/internal/ambient"
	"github.com/iburimskiy/particle-network/internal/config"
	"github.com/iburimskiy/particle-network/internal/field"
)

func newTestGame(t *testing.T) (*Game, *field.Field) {
	t.Helper()
	f := field.FromParticles(800, 600, []field.Particle{{Pos: field.Vec{X: 10, Y: 10}, Radius: 1}})
	cfg := config.Default()
	cfg.AccentHue = 120
	return New(f, cfg), f
}

func TestPointerAt(t *testing.T) {
	tests := []struct {
		name    string
		x, y    int
		focused bool
		over    bool
	}{
		{"inside", 100, 100, true, true},
		{"origin", 0, 0, true, true},
		{"unfocused", 100, 100, false, false},
		{"right of window", 800, 100, true, false},
		{"below window", 100, 600, true, false},
		{"negative", -1, 10, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pointerAt(tt.x, tt.y, 800, 600, tt.focused)
			if p.Over != tt.over {
				t.Errorf("Over = %v, want %v", p.Over, tt.over)
			}
			if p.X != float64(tt.x) || p.Y != float64(tt.y) {
				t.Errorf("position = (%v,%v), want (%d,%d)", p.X, p.Y, tt.x, tt.y)
			}
		})
	}
}

func TestNewAppliesAccent(t *testing.T) {
	_, f := newTestGame(t)
	if got := f.Accent(); got != field.HSV(120, 1, 1) {
		t.Errorf("accent = %v, want green", got)
	}
}

func TestLayoutResizesField(t *testing.T) {
	g, f := newTestGame(t)

	w, h := g.Layout(1280, 720)
	if w != 1280 || h != 720 {
		t.Fatalf("Layout() = %dx%d, want 1280x720", w, h)
	}
	if fw, fh := f.Size(); fw != 1280 || fh != 720 {
		t.Errorf("field size = %vx%v, want 1280x720", fw, fh)
	}
	if got := f.Particles()[0].Pos; got != (field.Vec{X: 10, Y: 10}) {
		t.Errorf("resize moved particle to %v", got)
	}
}

func TestOpenMusic(t *testing.T) {
	errBoom := errors.New("boom")
	tests := []struct {
		name    string
		selErr  error
		openErr error
		wantErr error
	}{
		{"cancelled", zenity.ErrCanceled, nil, nil},
		{"dialog failure", errBoom, nil, errBoom},
		{"decode failure", nil, ambient.ErrUnsupported, ambient.ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGame(t)
			opened := false
			g.selectFile = func() (string, error) { return "track.ogg", tt.selErr }
			g.openTrack = func(string) (Track, error) {
				opened = true
				return nil, tt.openErr
			}

			err := g.openMusic()
			if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
				t.Errorf("openMusic() error = %v, want %v", err, tt.wantErr)
			}
			if opened != (tt.selErr == nil) {
				t.Errorf("openTrack called = %v", opened)
			}
			if g.track != nil {
				t.Error("track set after failure")
			}
		})
	}
}

type fakeTrack struct {
	name   string
	closed bool
	paused bool
}

func (f *fakeTrack) Level() float64 { return 1 }
func (f *fakeTrack) Pause(paused bool) { f.paused = paused }
func (f *fakeTrack) Position() time.Duration { return 5 * time.Second }
func (f *fakeTrack) Duration() time.Duration { return time.Minute }
func (f *fakeTrack) Close() error {
	f.closed = true
	return nil
}

func TestOpenMusicReplacesTrack(t *testing.T) {
	g, _ := newTestGame(t)
	first := &fakeTrack{name: "first"}
	g.SetTrack(first)

	second := &fakeTrack{name: "second"}
	g.selectFile = func() (string, error) { return "second.mp3", nil }
	g.openTrack = func(path string) (Track, error) {
		if first.closed {
			t.Error("old track closed before the new one opened")
		}
		return second, nil
	}
	g.lastErr = errors.New("stale")

	if err := g.openMusic(); err != nil {
		t.Fatalf("openMusic() error = %v", err)
	}
	if !first.closed {
		t.Error("previous track not closed")
	}
	if second.closed {
		t.Error("new track closed by the swap")
	}
	if g.track != second {
		t.Errorf("current track = %v, want second", g.track)
	}
	if g.lastErr != nil {
		t.Errorf("lastErr = %v, want cleared", g.lastErr)
	}

	g.Close()
	if !second.closed {
		t.Error("Close() left the track open")
	}
}

func TestOpenMusicWhilePaused(t *testing.T) {
	g, _ := newTestGame(t)
	g.togglePause()

	tr := &fakeTrack{}
	g.selectFile = func() (string, error) { return "a.wav", nil }
	g.openTrack = func(string) (Track, error) { return tr, nil }
	if err := g.openMusic(); err != nil {
		t.Fatalf("openMusic() error = %v", err)
	}
	if !tr.paused {
		t.Error("track opened while paused is playing")
	}

	g.togglePause()
	if tr.paused {
		t.Error("resume did not unpause the track")
	}
}

func TestOpenMusicSpeakerFailure(t *testing.T) {
	g, f := newTestGame(t)
	old := &fakeTrack{}
	g.SetTrack(old)
	f.SetAccent(field.DefaultAccent)

	g.selectFile = func() (string, error) { return "a.flac", nil }
	g.openTrack = func(string) (Track, error) { return nil, ambient.ErrSpeaker }

	if err := g.openMusic(); !errors.Is(err, ambient.ErrSpeaker) {
		t.Fatalf("openMusic() error = %v, want ErrSpeaker", err)
	}
	if g.track != nil || !old.closed {
		t.Errorf("track = %v closed = %v, want dropped", g.track, old.closed)
	}
	if got := f.Accent(); got != field.HSV(120, 1, 1) {
		t.Errorf("accent = %v, want resting hue", got)
	}
}

func TestStatusLines(t *testing.T) {
	g, _ := newTestGame(t)
	if got := g.statusLines(); len(got) != 0 {
		t.Errorf("statusLines() = %q, want none with HUD hidden", got)
	}
	g.lastErr = ambient.ErrUnsupported
	got := g.statusLines()
	if len(got) != 1 || got[0] != "Error: unsupported file type" {
		t.Errorf("statusLines() = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{59 * time.Second, "00:59"},
		{3*time.Minute + 5*time.Second, "03:05"},
		{-time.Second, "00:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
