package transport

import (
	"log/slog"
)

// DurationFunc reports the current project duration in seconds. The
// transport re-reads it on every tick so edits made during playback
// move the loop point immediately.
type DurationFunc func() float64

// FrameFunc receives the playhead position after each tick. The
// compositor hangs off this callback.
type FrameFunc func(time float64)

// AudioFunc receives the playhead position after each tick while
// playing. The audio synchronizer reconciles its handles here.
type AudioFunc func(time float64)

// TeardownFunc is invoked when playback stops or pauses, so the audio
// layer can release every live handle.
type TeardownFunc func()

// Transport owns the playhead. All methods must be called from a
// single goroutine; the Loop driver satisfies this by construction, and
// the export path never touches a Transport at all.
type Transport struct {
	position float64
	playing  bool

	duration DurationFunc
	onFrame  FrameFunc
	onAudio  AudioFunc
	onPause  TeardownFunc
}

// Option configures a Transport.
type Option func(*Transport)

// WithFrameCallback sets the per-tick frame callback.
func WithFrameCallback(fn FrameFunc) Option {
	return func(t *Transport) { t.onFrame = fn }
}

// WithAudioCallback sets the per-tick audio reconciliation callback.
func WithAudioCallback(fn AudioFunc) Option {
	return func(t *Transport) { t.onAudio = fn }
}

// WithTeardown sets the callback fired on Pause and Stop.
func WithTeardown(fn TeardownFunc) Option {
	return func(t *Transport) { t.onPause = fn }
}

// New creates a stopped Transport at position zero. duration must not
// be nil.
func New(duration DurationFunc, opts ...Option) *Transport {
	t := &Transport{duration: duration}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Position returns the current playhead position in seconds.
func (t *Transport) Position() float64 { return t.position }

// Playing reports whether the playhead is advancing.
func (t *Transport) Playing() bool { return t.playing }

// Play starts advancing the playhead from its current position.
func (t *Transport) Play() {
	if t.playing {
		return
	}
	t.playing = true
	slog.Debug("transport playing", "position", t.position)
}

// Pause halts the playhead in place and tears down live audio.
func (t *Transport) Pause() {
	if !t.playing {
		return
	}
	t.playing = false
	slog.Debug("transport paused", "position", t.position)
	if t.onPause != nil {
		t.onPause()
	}
}

// Stop halts playback and rewinds to zero.
func (t *Transport) Stop() {
	wasPlaying := t.playing
	t.playing = false
	t.position = 0
	slog.Debug("transport stopped")
	if wasPlaying && t.onPause != nil {
		t.onPause()
	}
}

// Seek moves the playhead to time, clamped to [0, duration]. Playback
// state is preserved; the next tick reconciles audio at the new
// position.
func (t *Transport) Seek(time float64) {
	if time < 0 {
		time = 0
	}
	if d := t.duration(); d > 0 && time > d {
		time = d
	}
	t.position = time
}

// Tick advances the playhead by elapsed seconds and notifies the
// frame and audio callbacks. While paused the position holds still but
// the frame callback still fires, so seeks repaint without a state
// change. Reaching the end of the project wraps the playhead to zero
// and playback continues.
func (t *Transport) Tick(elapsed float64) {
	if t.playing && elapsed > 0 {
		t.position += elapsed
		if d := t.duration(); d > 0 && t.position >= d {
			t.position = 0
		}
	}
	if t.onFrame != nil {
		t.onFrame(t.position)
	}
	if t.playing && t.onAudio != nil {
		t.onAudio(t.position)
	}
}
