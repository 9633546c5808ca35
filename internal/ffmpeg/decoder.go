package ffmpeg

import (
	"bytes"
	"context"
	"io"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/elloloop/auteur.one/internal/audio"
	"github.com/elloloop/auteur.one/internal/timeline"
)

// Decoder implements audio.Decoder by piping sources through ffmpeg
// into raw s16le PCM at the offline mix rate. Stateless; safe for
// concurrent use.
type Decoder struct{}

// NewDecoder creates a Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode renders src to interleaved stereo PCM at audio.SampleRate.
// Blob sources stream through stdin; URI sources are read directly.
func (d *Decoder) Decode(ctx context.Context, src audio.Source) (*audio.Buffer, error) {
	if src.Empty() {
		return nil, timeline.NewAudioError(timeline.ErrCodeDecodeFailed,
			"source locates no audio", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, timeline.NewAudioError(timeline.ErrCodeDecodeFailed,
			"decode cancelled", nil).WithCause(err)
	}

	input := src.URI
	var reader io.Reader
	if len(src.Data) > 0 {
		input = "pipe:"
		reader = bytes.NewReader(src.Data)
	}

	var pcm bytes.Buffer
	stream := ffmpeg.Input(input).
		Output("pipe:", ffmpeg.KwArgs{
			"format": "s16le",
			"ar":     audio.SampleRate,
			"ac":     2,
		}).
		WithOutput(&pcm).
		Silent(true)
	if reader != nil {
		stream = stream.WithInput(reader)
	}
	if err := stream.Run(); err != nil {
		return nil, timeline.NewAudioError(timeline.ErrCodeDecodeFailed,
			"ffmpeg decode failed", map[string]string{
				"path": src.URI,
			}).WithCause(errors.Wrap(err, "s16le decode"))
	}

	return &audio.Buffer{
		SampleRate: audio.SampleRate,
		Channels:   2,
		Samples:    pcmFloat64(pcm.Bytes()),
	}, nil
}

// pcmFloat64 converts little-endian signed 16-bit PCM to float64
// samples in [-1, 1). The inverse of pcm16Bytes up to quantization.
func pcmFloat64(data []byte) []float64 {
	out := make([]float64, len(data)/2)
	for i := range out {
		v := int16(uint16(data[i*2]) | uint16(data[i*2+1])<<8)
		out[i] = float64(v) / 32768
	}
	return out
}
