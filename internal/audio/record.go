package audio

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"github.com/elloloop/auteur.one/internal/timeline"
)

// SessionState tracks where a recording session is in its lifecycle.
type SessionState string

const (
	SessionIdle      SessionState = "idle"
	SessionActive    SessionState = "active"
	SessionFinalized SessionState = "finalized"
)

// CaptureDevice is an exclusive audio input. Start begins capture and
// delivers encoded chunks on the returned channel until Close, which
// also closes the channel.
type CaptureDevice interface {
	Start(ctx context.Context) (<-chan []byte, error)
	Close() error
}

// Recorder hands out recording sessions over a single capture device.
// Only one session may be active at a time; starting a second one
// returns the session already running instead of failing.
type Recorder struct {
	device CaptureDevice

	mu     sync.Mutex
	active *RecordingSession
}

// NewRecorder creates a Recorder capturing from device.
func NewRecorder(device CaptureDevice) *Recorder {
	return &Recorder{device: device}
}

// Start opens the capture device and returns an active session. If a
// session is already running it is returned unchanged; this is a warn
// rather than an error so a double-tap on the record control cannot
// fail a recording that is going fine.
func (r *Recorder) Start(ctx context.Context) (*RecordingSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		slog.Warn("recording already in progress; reusing active session")
		return r.active, nil
	}

	chunks, err := r.device.Start(ctx)
	if err != nil {
		return nil, timeline.NewAudioError(timeline.ErrCodeDeviceUnavailable,
			"capture device failed to start", nil).WithCause(err)
	}

	session := &RecordingSession{
		state:   SessionActive,
		device:  r.device,
		done:    make(chan struct{}),
		release: r.releaseSession,
	}
	go session.drain(chunks)
	r.active = session

	slog.Info("recording started")
	return session, nil
}

// Active returns the running session, or nil.
func (r *Recorder) Active() *RecordingSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func (r *Recorder) releaseSession() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = nil
}

// RecordingSession is one exclusive capture in progress. It moves from
// active to finalized exactly once; the finalized blob is the
// concatenation of every chunk the device delivered.
type RecordingSession struct {
	device  CaptureDevice
	done    chan struct{}
	release func()

	mu     sync.Mutex
	state  SessionState
	chunks [][]byte
}

// State returns the session's lifecycle state.
func (s *RecordingSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *RecordingSession) drain(chunks <-chan []byte) {
	defer close(s.done)
	for chunk := range chunks {
		if len(chunk) == 0 {
			continue
		}
		s.mu.Lock()
		s.chunks = append(s.chunks, chunk)
		s.mu.Unlock()
	}
}

// Stop finalizes the session: it closes the capture device, waits for
// the last chunks to land, and returns the encoded recording as one
// blob. The caller derives a duration and waveform from the blob and
// wraps it into a take. Stopping a finalized session is an error.
func (s *RecordingSession) Stop() ([]byte, error) {
	s.mu.Lock()
	if s.state != SessionActive {
		state := s.state
		s.mu.Unlock()
		return nil, timeline.NewAudioError(timeline.ErrCodeCaptureFailed,
			"recording session is not active", map[string]string{
				"state": string(state),
			})
	}
	s.state = SessionFinalized
	s.mu.Unlock()

	if err := s.device.Close(); err != nil {
		slog.Warn("capture device close failed", "error", err)
	}
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()
	blob := bytes.Join(s.chunks, nil)
	s.chunks = nil
	s.release()

	slog.Info("recording finalized", "bytes", len(blob))
	return blob, nil
}
