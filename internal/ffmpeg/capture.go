package ffmpeg

import (
	"context"
	"log/slog"
	"os/exec"
	"runtime"
	"sync"

	"github.com/elloloop/auteur.one/internal/timeline"
)

// Device implements audio.CaptureDevice by recording the default
// microphone with ffmpeg and streaming encoded chunks from its stdout.
type Device struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewCaptureDevice creates an idle capture device.
func NewCaptureDevice() *Device {
	return &Device{}
}

// Start begins capturing. Chunks arrive on the returned channel until
// Close, which also closes the channel.
func (d *Device) Start(ctx context.Context) (<-chan []byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return nil, timeline.NewAudioError(timeline.ErrCodeDeviceUnavailable,
			"capture already running", nil)
	}

	captureCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(captureCtx, "ffmpeg", captureArgs(runtime.GOOS)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, timeline.NewAudioError(timeline.ErrCodeDeviceUnavailable,
			"capture pipe failed", nil).WithCause(err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, timeline.NewAudioError(timeline.ErrCodeDeviceUnavailable,
			"capture start failed", nil).WithCause(err)
	}

	chunks := make(chan []byte, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(chunks)
		buf := make([]byte, 32*1024)
		for {
			n, readErr := stdout.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				chunks <- chunk
			}
			if readErr != nil {
				break
			}
		}
		if err := cmd.Wait(); err != nil && captureCtx.Err() == nil {
			slog.Warn("capture process exited with error", "error", err)
		}
	}()

	d.cancel = cancel
	d.done = done
	slog.Info("microphone capture started", "os", runtime.GOOS)
	return chunks, nil
}

// Close stops the capture process and waits for the chunk stream to
// drain.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel == nil {
		return nil
	}
	d.cancel()
	<-d.done
	d.cancel = nil
	d.done = nil
	return nil
}

// captureArgs selects the ffmpeg input device per platform and
// streams webm/opus to stdout.
func captureArgs(goos string) []string {
	args := []string{"-loglevel", "quiet"}
	switch goos {
	case "darwin":
		args = append(args, "-f", "avfoundation", "-i", ":0")
	case "windows":
		args = append(args, "-f", "dshow", "-i", "audio=default")
	default:
		args = append(args, "-f", "alsa", "-i", "default")
	}
	return append(args,
		"-c:a", "libopus",
		"-b:a", "96k",
		"-f", "webm",
		"pipe:1",
	)
}
