package audio

import (
	"context"

	"github.com/elloloop/auteur.one/internal/timeline"
)

// Source locates encoded audio material. Exactly one of URI or Data is
// set, mirroring the take contract.
type Source struct {
	URI  string
	Data []byte
}

// Key returns the cache key for this source. Blob sources have no
// stable identity and return "", which callers must treat as
// uncacheable.
func (s Source) Key() string { return s.URI }

// Empty reports whether the source locates nothing at all.
func (s Source) Empty() bool { return s.URI == "" && len(s.Data) == 0 }

// PlayRequest describes one playback start.
type PlayRequest struct {
	ClipID string
	Source Source
	// Offset is seconds into the source to begin from.
	Offset float64
	// Rate is the playback speed multiplier.
	Rate float64
	// Gain is the linear volume multiplier.
	Gain float64
}

// Handle identifies one live playback. It is opaque to everything but
// the Player that issued it.
type Handle interface{}

// Player starts and stops individual audio playbacks. Implementations
// must tolerate Stop with a handle they no longer track.
type Player interface {
	Play(ctx context.Context, req PlayRequest) (Handle, error)
	Stop(h Handle)
}

// SourceForClip resolves the audio material a clip should play.
// Dialogue clips play their active take; audio clips play the media
// reference in their params.
func SourceForClip(clip *timeline.Clip) (Source, error) {
	switch clip.Kind {
	case timeline.ClipDialogue:
		take := clip.ActiveTake()
		if take == nil {
			return Source{}, timeline.NewAudioError(timeline.ErrCodeDecodeFailed,
				"dialogue clip has no active take", map[string]string{
					"clip_id": clip.ID,
				})
		}
		return Source{URI: take.URI, Data: take.Data}, nil
	case timeline.ClipAudio:
		if clip.Params.Media == nil || clip.Params.Media.URI == "" {
			return Source{}, timeline.NewAudioError(timeline.ErrCodeDecodeFailed,
				"audio clip has no media source", map[string]string{
					"clip_id": clip.ID,
				})
		}
		return Source{URI: clip.Params.Media.URI}, nil
	default:
		return Source{}, timeline.NewAudioError(timeline.ErrCodeDecodeFailed,
			"clip kind produces no audio", map[string]string{
				"clip_id": clip.ID,
				"kind":    string(clip.Kind),
			})
	}
}
