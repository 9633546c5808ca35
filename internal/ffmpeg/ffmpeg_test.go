package ffmpeg

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elloloop/auteur.one/internal/audio"
	"github.com/elloloop/auteur.one/internal/timeline"
)

func TestBuildPlayArgsPlain(t *testing.T) {
	req := audio.PlayRequest{ClipID: "c1", Rate: 1, Gain: 1}

	args := buildPlayArgs(req, "media/music.wav")

	assert.Equal(t, []string{
		"-autoexit", "-nodisp", "-loglevel", "quiet",
		"media/music.wav",
	}, args)
}

func TestBuildPlayArgsOffsetAndFilters(t *testing.T) {
	req := audio.PlayRequest{ClipID: "c1", Offset: 1.25, Rate: 1.5, Gain: 0.5}

	args := buildPlayArgs(req, "media/music.wav")

	assert.Equal(t, []string{
		"-autoexit", "-nodisp", "-loglevel", "quiet",
		"-ss", "1.250",
		"-af", "atempo=1.500000,volume=0.500000",
		"media/music.wav",
	}, args)
}

func TestPlayFilterIdentityIsEmpty(t *testing.T) {
	assert.Empty(t, playFilter(1, 1))
}

func TestAtempoChainStaysInSupportedRange(t *testing.T) {
	tests := []struct {
		rate float64
		want []float64
	}{
		{1.5, []float64{1.5}},
		{2, []float64{2}},
		{3, []float64{2, 1.5}},
		{4, []float64{2, 2}},
		{0.5, []float64{0.5}},
		{0.25, []float64{0.5, 0.5}},
	}
	for _, tc := range tests {
		got := atempoChain(tc.rate)
		require.Equal(t, tc.want, got, "rate %v", tc.rate)
		for _, f := range got {
			assert.GreaterOrEqual(t, f, 0.5)
			assert.LessOrEqual(t, f, 2.0)
		}
	}
}

func TestPCM16BytesEncoding(t *testing.T) {
	pcm := pcm16Bytes([]float64{0, 1, -1, 0.5})

	require.Len(t, pcm, 8)
	assert.Equal(t, []byte{0x00, 0x00}, pcm[0:2], "silence")
	assert.Equal(t, []byte{0xff, 0x7f}, pcm[2:4], "full scale positive is 32767")
	assert.Equal(t, []byte{0x01, 0x80}, pcm[4:6], "full scale negative is -32767")
	assert.Equal(t, []byte{0x00, 0x40}, pcm[6:8], "half scale")
}

func TestPCM16BytesClipsOutOfRange(t *testing.T) {
	pcm := pcm16Bytes([]float64{2.0, -5.0})

	assert.Equal(t, []byte{0xff, 0x7f}, pcm[0:2])
	assert.Equal(t, []byte{0x01, 0x80}, pcm[2:4])
}

func TestPCMFloat64RoundTrip(t *testing.T) {
	samples := []float64{0, 0.5, -0.5, 0.25}

	got := pcmFloat64(pcm16Bytes(samples))

	require.Len(t, got, len(samples))
	for i, want := range samples {
		assert.InDelta(t, want, got[i], 1.0/32768, "sample %d", i)
	}
}

func TestPCMFloat64IgnoresTrailingByte(t *testing.T) {
	got := pcmFloat64([]byte{0x00, 0x40, 0xff})

	require.Len(t, got, 1)
	assert.InDelta(t, 0.5, got[0], 0.001)
}

func TestDecoderRejectsEmptySource(t *testing.T) {
	d := NewDecoder()

	_, err := d.Decode(context.Background(), audio.Source{})
	require.Error(t, err)
	assert.Equal(t, timeline.ErrCodeDecodeFailed, timeline.CodeOf(err))
}

func TestFrameSourceResolvesAndCachesStills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 8, 6))))
	require.NoError(t, f.Close())

	src := NewFrameSource()
	got, err := src.Resolve(path, 0)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Bounds().Dx())
	assert.Equal(t, 6, got.Bounds().Dy())

	// The second resolve is served from cache even after the file is
	// gone.
	require.NoError(t, os.Remove(path))
	again, err := src.Resolve(path, 1.5)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestFrameSourceMissingStill(t *testing.T) {
	src := NewFrameSource()

	_, err := src.Resolve(filepath.Join(t.TempDir(), "gone.png"), 0)
	require.Error(t, err)
	assert.Equal(t, timeline.ErrCodeFileRead, timeline.CodeOf(err))
}

const sampleProbeJSON = `{
  "streams": [
    {
      "codec_type": "video",
      "codec_name": "h264",
      "width": 1920,
      "height": 1080,
      "duration": "12.500000",
      "nb_frames": "375",
      "r_frame_rate": "30/1"
    },
    {
      "codec_type": "audio",
      "codec_name": "aac",
      "duration": "12.480000"
    }
  ],
  "format": {"duration": "12.520000"}
}`

func TestParseProbeVideoFile(t *testing.T) {
	meta, err := parseProbe(sampleProbeJSON)
	require.NoError(t, err)

	assert.Equal(t, 12.5, meta.Duration, "stream duration wins over container duration")
	assert.Equal(t, 1920, meta.Width)
	assert.Equal(t, 1080, meta.Height)
	assert.Equal(t, "h264", meta.Codec)
	assert.True(t, meta.HasAudio)
}

func TestParseProbeFallsBackToFormatDuration(t *testing.T) {
	raw := `{
  "streams": [{"codec_type": "audio", "codec_name": "mp3"}],
  "format": {"duration": "200.5"}
}`

	meta, err := parseProbe(raw)
	require.NoError(t, err)

	assert.Equal(t, 200.5, meta.Duration)
	assert.Equal(t, "mp3", meta.Codec)
	assert.True(t, meta.HasAudio)
	assert.Zero(t, meta.Width)
}

func TestParseProbeFallsBackToFrameCount(t *testing.T) {
	raw := `{
  "streams": [{
    "codec_type": "video",
    "codec_name": "vp9",
    "width": 640,
    "height": 360,
    "nb_frames": "120",
    "r_frame_rate": "24/1"
  }],
  "format": {}
}`

	meta, err := parseProbe(raw)
	require.NoError(t, err)

	assert.Equal(t, 5.0, meta.Duration)
	assert.False(t, meta.HasAudio)
}

func TestParseProbeRejectsStreamlessFile(t *testing.T) {
	_, err := parseProbe(`{"streams": [], "format": {}}`)
	require.Error(t, err)

	_, err = parseProbe(`not json`)
	require.Error(t, err)
}

func TestCaptureArgsPerPlatform(t *testing.T) {
	linux := captureArgs("linux")
	assert.Contains(t, linux, "alsa")
	assert.Contains(t, linux, "pipe:1")

	darwin := captureArgs("darwin")
	assert.Contains(t, darwin, "avfoundation")

	windows := captureArgs("windows")
	assert.Contains(t, windows, "dshow")

	other := captureArgs("freebsd")
	assert.Contains(t, other, "alsa")
}

func TestFrameRateParsing(t *testing.T) {
	assert.Equal(t, 30.0, parseFrameRate("30/1"))
	assert.InDelta(t, 29.97, parseFrameRate("30000/1001"), 0.001)
	assert.Zero(t, parseFrameRate("bogus"))
	assert.Zero(t, parseFrameRate("30/0"))
}
