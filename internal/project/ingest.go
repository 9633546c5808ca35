package project

import (
	"log/slog"
	"strings"

	"github.com/elloloop/auteur.one/internal/timeline"
)

// DefaultIngestDuration is the clip length assigned to ingested media
// whose intrinsic duration is unknown, in seconds.
const DefaultIngestDuration = 4.0

// KindForMIME maps a MIME type onto the clip kind it produces.
// Unrecognized types fall back to video.
func KindForMIME(mime string) timeline.ClipKind {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return timeline.ClipPicture
	case strings.HasPrefix(mime, "audio/"):
		return timeline.ClipAudio
	case strings.HasPrefix(mime, "video/"):
		return timeline.ClipVideo
	}
	return timeline.ClipVideo
}

// IngestFile creates a clip from an external media file.
//
// The clip kind follows the MIME type prefix, the duration follows the
// probed duration when positive and DefaultIngestDuration otherwise,
// and the clip is appended after the last clip on the target track.
func (p *Project) IngestFile(trackID, name, mime, uri string, probedDuration float64) (*timeline.Clip, error) {
	if _, err := p.TrackByID(trackID); err != nil {
		return nil, err
	}
	if uri == "" {
		return nil, timeline.NewFileError(timeline.ErrCodeFileRead, "ingest requires a source location", map[string]string{
			"name": name,
		})
	}

	duration := probedDuration
	if duration <= 0 {
		duration = DefaultIngestDuration
	}

	start := 0.0
	for _, c := range p.ClipsOnTrack(trackID) {
		if end := c.End(); end > start {
			start = end
		}
	}

	params := timeline.DefaultParams()
	params.Media = &timeline.MediaRef{URI: uri, MIME: mime}

	kind := KindForMIME(mime)
	clip, err := p.AddClip(trackID, kind, name, start, duration, params)
	if err != nil {
		return nil, err
	}

	slog.Info("file ingested", "clip_id", clip.ID, "kind", kind, "mime", mime, "duration", duration)
	return clip, nil
}
