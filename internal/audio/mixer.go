package audio

import (
	"context"
	"log/slog"
	"math"

	"github.com/elloloop/auteur.one/internal/timeline"
)

// SampleRate is the offline render rate in Hz.
const SampleRate = 44100

// mixChannels is the offline render channel count. Output is always
// interleaved stereo.
const mixChannels = 2

// Mixer renders all project audio into one buffer for export. Unlike
// live playback it is offline and deterministic: the same clips always
// sum to the same samples.
type Mixer struct {
	decoder Decoder
}

// NewMixer creates a Mixer decoding through decoder.
func NewMixer(decoder Decoder) *Mixer {
	return &Mixer{decoder: decoder}
}

// Mix sums every audio-bearing clip on an unmuted track into a stereo
// buffer spanning duration seconds. Each clip is placed at its start
// time, gain-scaled by clip volume times track volume, and rate-scaled
// by reading the source with a stride of Speed. Overlapping clips sum
// additively; clipping is not managed. A clip whose source fails to
// decode is logged and skipped.
func (m *Mixer) Mix(ctx context.Context, duration float64, clips []*timeline.Clip, tracks []*timeline.Track) (*Buffer, error) {
	frames := int(math.Ceil(duration * SampleRate))
	if frames < 0 {
		frames = 0
	}
	out := &Buffer{
		SampleRate: SampleRate,
		Channels:   mixChannels,
		Samples:    make([]float64, frames*mixChannels),
	}

	byTrack := make(map[string]*timeline.Track, len(tracks))
	for _, track := range tracks {
		byTrack[track.ID] = track
	}

	for _, clip := range clips {
		if err := ctx.Err(); err != nil {
			return nil, timeline.NewExportError(timeline.ErrCodeExportCancelled,
				"mix cancelled", true, nil)
		}
		if !clip.HasAudio() {
			continue
		}
		track := byTrack[clip.TrackID]
		if track == nil || track.Mute {
			continue
		}
		source, err := SourceForClip(clip)
		if err != nil {
			slog.Warn("mix skipping clip", "clip_id", clip.ID, "error", err)
			continue
		}
		buf, err := m.decoder.Decode(ctx, source)
		if err != nil {
			slog.Warn("mix skipping clip", "clip_id", clip.ID, "error", err)
			continue
		}
		m.placeClip(out, clip, track, buf)
	}
	return out, nil
}

// placeClip sums one decoded clip into the output buffer.
func (m *Mixer) placeClip(out *Buffer, clip *timeline.Clip, track *timeline.Track, buf *Buffer) {
	gain := clip.Params.Audio.Volume * track.EffectiveVolume()
	speed := clip.Params.Audio.Speed
	if speed <= 0 {
		speed = 1
	}
	// Source frames advance by stride per output frame, which covers
	// both the clip speed and any sample-rate mismatch.
	stride := speed * float64(buf.SampleRate) / float64(out.SampleRate)

	startFrame := int(math.Round(clip.Start * float64(out.SampleRate)))
	clipFrames := int(math.Round(clip.Duration * float64(out.SampleRate)))
	outFrames := out.Frames()
	srcFrames := buf.Frames()

	for i := 0; i < clipFrames; i++ {
		dst := startFrame + i
		if dst < 0 {
			continue
		}
		if dst >= outFrames {
			break
		}
		src := int(float64(i) * stride)
		if src >= srcFrames {
			break
		}
		left := buf.Samples[src*buf.Channels]
		right := left
		if buf.Channels > 1 {
			right = buf.Samples[src*buf.Channels+1]
		}
		out.Samples[dst*mixChannels] += left * gain
		out.Samples[dst*mixChannels+1] += right * gain
	}
}
