// Package ambient plays an optional looping soundtrack and exposes its
// loudness so hosts can pulse the particle accent colour with it.
package ambient

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/iburimskiy/particle-network/internal/config"
)

var (
	ErrUnsupported = errors.New("unsupported file type")
	// ErrSpeaker means the audio device could not be opened. Any track that
	// was playing has been dropped.
	ErrSpeaker = errors.New("init speaker")
)

// Patterns lists the file patterns Open understands.
var Patterns = []string{"*.wav", "*.mp3", "*.flac"}

// The speaker is process-global; remember the rate it was opened with.
var (
	speakerMu   sync.Mutex
	speakerRate beep.SampleRate
)

// Track is a decoded file looping on the speaker.
type Track struct {
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	tap      *Tap
}

// Decode picks a decoder from the file extension.
func Decode(rc io.ReadCloser, ext string) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(ext) {
	case ".wav":
		return wav.Decode(rc)
	case ".mp3":
		return mp3.Decode(rc)
	case ".flac":
		return flac.Decode(rc)
	}
	return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupported, ext)
}

// Open decodes path and starts it looping alongside whatever else the
// speaker is playing; callers close the track it replaces.
func Open(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open track: %w", err)
	}

	streamer, format, err := Decode(f, filepath.Ext(path))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	if err := initSpeaker(format.SampleRate); err != nil {
		_ = streamer.Close()
		_ = f.Close()
		return nil, fmt.Errorf("%w: %v", ErrSpeaker, err)
	}

	t := newTrack(f, streamer, format)
	speaker.Play(t.ctrl)
	return t, nil
}

func newTrack(f *os.File, streamer beep.StreamSeekCloser, format beep.Format) *Track {
	t := &Track{
		file:     f,
		streamer: streamer,
		format:   format,
		tap:      NewTap(beep.Loop(-1, streamer), config.VisualRingSize),
	}
	t.ctrl = &beep.Ctrl{Streamer: t.tap}
	return t
}

// initSpeaker opens the speaker on first use and re-opens it when the sample
// rate changes. Re-opening drops every stream already playing.
func initSpeaker(rate beep.SampleRate) error {
	speakerMu.Lock()
	defer speakerMu.Unlock()

	if speakerRate == rate {
		return nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/20)); err != nil {
		speakerRate = 0
		return err
	}
	speakerRate = rate
	return nil
}

// Level returns the smoothed loudness in [0,1].
func (t *Track) Level() float64 { return t.tap.Level() }

func (t *Track) Pause(paused bool) {
	speaker.Lock()
	t.ctrl.Paused = paused
	speaker.Unlock()
}

// Position returns the playback position within the current loop.
func (t *Track) Position() time.Duration {
	speaker.Lock()
	n := t.streamer.Position()
	speaker.Unlock()
	return t.format.SampleRate.D(n)
}

func (t *Track) Duration() time.Duration {
	return t.format.SampleRate.D(t.streamer.Len())
}

// Close stops this track and releases its file. Other streams on the
// speaker keep playing.
func (t *Track) Close() error {
	speaker.Lock()
	t.ctrl.Streamer = nil
	speaker.Unlock()
	err := t.streamer.Close()
	if t.file != nil {
		_ = t.file.Close()
	}
	return err
}
