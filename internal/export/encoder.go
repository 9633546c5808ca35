package export

import (
	"context"
	"image"

	"github.com/elloloop/auteur.one/internal/audio"
)

// VideoSpec describes the container an encoder session produces.
type VideoSpec struct {
	Width  int
	Height int
	FPS    float64

	// Path is where the finished container lands.
	Path string
}

// FrameSink receives rasterized frames in presentation order.
type FrameSink interface {
	WriteFrame(frame *image.RGBA) error
}

// Encoder turns frames and mixed audio into media files. One Begin
// opens one encoding session; Finish muxes the written frames with the
// mixed audio into the spec's container and returns its path.
// EncodeAudio writes a standalone stem outside any session.
type Encoder interface {
	// Available reports whether the encoder can run at all. An
	// unavailable encoder is a non-recoverable condition.
	Available() error

	Begin(ctx context.Context, spec VideoSpec) (FrameSink, error)
	Finish(ctx context.Context, mix *audio.Buffer) (string, error)

	EncodeAudio(ctx context.Context, mix *audio.Buffer, path string) (string, error)
}
