package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"os/exec"
	"sync"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/elloloop/auteur.one/internal/audio"
	"github.com/elloloop/auteur.one/internal/export"
	"github.com/elloloop/auteur.one/internal/timeline"
)

// Encoder implements export.Encoder by piping raw frames into an
// ffmpeg process. One session at a time.
type Encoder struct {
	mu      sync.Mutex
	session *encodeSession
}

// NewEncoder creates an idle Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Available reports whether the ffmpeg binary can be found.
func (e *Encoder) Available() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return timeline.NewExportError(timeline.ErrCodeEncoderUnavailable,
			"ffmpeg binary not found", false, nil).WithCause(err)
	}
	return nil
}

type encodeSession struct {
	spec     export.VideoSpec
	tmpVideo string
	frameLen int

	pw   *io.PipeWriter
	done chan error
}

// Begin opens an encoding session. Frames written to the returned sink
// stream into ffmpeg as rawvideo rgba; the intermediate video-only
// file is muxed with audio in Finish.
func (e *Encoder) Begin(ctx context.Context, spec export.VideoSpec) (export.FrameSink, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		return nil, timeline.NewExportError(timeline.ErrCodeExportInProgress,
			"encoding session already open", true, nil)
	}
	if spec.Width <= 0 || spec.Height <= 0 || spec.FPS <= 0 {
		return nil, timeline.NewValidationError(timeline.ErrCodeValueOutOfRange,
			"encode spec needs positive dimensions and frame rate", map[string]string{
				"path": spec.Path,
			})
	}
	if err := ctx.Err(); err != nil {
		return nil, timeline.NewExportError(timeline.ErrCodeExportCancelled,
			"export cancelled", true, nil)
	}

	pr, pw := io.Pipe()
	session := &encodeSession{
		spec:     spec,
		tmpVideo: spec.Path + ".video.tmp.mp4",
		frameLen: spec.Width * spec.Height * 4,
		pw:       pw,
		done:     make(chan error, 1),
	}

	go func() {
		err := ffmpeg.Input("pipe:", ffmpeg.KwArgs{
			"format":    "rawvideo",
			"pix_fmt":   "rgba",
			"s":         fmt.Sprintf("%dx%d", spec.Width, spec.Height),
			"framerate": spec.FPS,
		}).
			Output(session.tmpVideo, ffmpeg.KwArgs{
				"c:v":     "libx264",
				"pix_fmt": "yuv420p",
				"r":       spec.FPS,
				"preset":  "medium",
				"crf":     18,
			}).
			OverWriteOutput().
			WithInput(pr).
			Silent(true).
			Run()
		pr.Close()
		session.done <- err
	}()

	e.session = session
	return session, nil
}

// WriteFrame streams one frame into the encoder.
func (s *encodeSession) WriteFrame(frame *image.RGBA) error {
	if frame == nil || len(frame.Pix) != s.frameLen {
		got := 0
		if frame != nil {
			got = len(frame.Pix)
		}
		return timeline.NewExportError(timeline.ErrCodeFrameRenderFailed,
			"frame does not match encode dimensions", false, map[string]string{
				"want_bytes": fmt.Sprintf("%d", s.frameLen),
				"got_bytes":  fmt.Sprintf("%d", got),
			})
	}
	if _, err := s.pw.Write(frame.Pix); err != nil {
		return timeline.NewExportError(timeline.ErrCodeMuxFailed,
			"frame pipe write failed", false, nil).
			WithCause(errors.Wrap(err, "rawvideo pipe"))
	}
	return nil
}

// Finish closes the frame stream, waits for the video encode, then
// muxes it with the mixed audio into the session's output path.
func (e *Encoder) Finish(ctx context.Context, mix *audio.Buffer) (string, error) {
	e.mu.Lock()
	session := e.session
	e.session = nil
	e.mu.Unlock()
	if session == nil {
		return "", timeline.NewExportError(timeline.ErrCodeMuxFailed,
			"no encoding session open", false, nil)
	}
	defer os.Remove(session.tmpVideo)

	session.pw.Close()
	var encodeErr error
	select {
	case encodeErr = <-session.done:
	case <-ctx.Done():
		<-session.done
		return "", timeline.NewExportError(timeline.ErrCodeExportCancelled,
			"export cancelled", true, nil)
	}
	if encodeErr != nil {
		return "", timeline.NewExportError(timeline.ErrCodeMuxFailed,
			"video encode failed", false, nil).
			WithCause(errors.Wrap(encodeErr, "rawvideo encode"))
	}

	tmpAudio := session.spec.Path + ".audio.tmp.wav"
	if _, err := e.EncodeAudio(ctx, mix, tmpAudio); err != nil {
		return "", err
	}
	defer os.Remove(tmpAudio)

	video := ffmpeg.Input(session.tmpVideo)
	sound := ffmpeg.Input(tmpAudio)
	err := ffmpeg.Output([]*ffmpeg.Stream{video, sound}, session.spec.Path, ffmpeg.KwArgs{
		"c:v":      "copy",
		"c:a":      "aac",
		"b:a":      "192k",
		"movflags": "+faststart",
	}).
		OverWriteOutput().
		Silent(true).
		Run()
	if err != nil {
		os.Remove(session.spec.Path)
		return "", timeline.NewExportError(timeline.ErrCodeMuxFailed,
			"mux failed", false, nil).
			WithCause(errors.Wrap(err, "mux"))
	}
	return session.spec.Path, nil
}

// EncodeAudio writes mixed PCM as a standalone s16le WAV file.
func (e *Encoder) EncodeAudio(ctx context.Context, mix *audio.Buffer, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", timeline.NewExportError(timeline.ErrCodeExportCancelled,
			"export cancelled", true, nil)
	}
	if mix == nil || mix.Channels <= 0 || mix.SampleRate <= 0 {
		return "", timeline.NewExportError(timeline.ErrCodeMuxFailed,
			"mix buffer is empty", false, nil)
	}

	pcm := pcm16Bytes(mix.Samples)
	err := ffmpeg.Input("pipe:", ffmpeg.KwArgs{
		"format": "s16le",
		"ar":     mix.SampleRate,
		"ac":     mix.Channels,
	}).
		Output(path, ffmpeg.KwArgs{"c:a": "pcm_s16le"}).
		OverWriteOutput().
		WithInput(bytes.NewReader(pcm)).
		Silent(true).
		Run()
	if err != nil {
		os.Remove(path)
		return "", timeline.NewExportError(timeline.ErrCodeMuxFailed,
			"audio encode failed", false, nil).
			WithCause(errors.Wrap(err, "s16le encode"))
	}
	return path, nil
}

// pcm16Bytes converts float64 samples in [-1, 1] to little-endian
// signed 16-bit PCM. Out-of-range samples clip at the rails.
func pcm16Bytes(samples []float64) []byte {
	out := make([]byte, len(samples)*2)
	for i, sample := range samples {
		v := int16(math.Round(math.Max(-1, math.Min(1, sample)) * 32767))
		out[i*2] = byte(v)
		out[i*2+1] = byte(v >> 8)
	}
	return out
}
