package audio

import (
	"context"
	"log/slog"

	"github.com/elloloop/auteur.one/internal/timeline"
)

// StartWindow is the leading-edge tolerance in seconds. A handle is
// only started while the playhead is within this window of the clip
// start, which keeps an already-sounding clip from being restarted on
// every subsequent tick.
const StartWindow = 0.1

// Synchronizer keeps live playback aligned with the playhead. At most
// one handle exists per clip; reconciliation starts handles at clip
// leading edges and tears them down once the playhead leaves the
// interval. Not safe for concurrent use; the transport drives it from
// a single goroutine.
type Synchronizer struct {
	player  Player
	handles map[string]Handle
}

// NewSynchronizer creates a Synchronizer playing through player.
func NewSynchronizer(player Player) *Synchronizer {
	return &Synchronizer{
		player:  player,
		handles: make(map[string]Handle),
	}
}

// ActiveHandles returns the number of clips currently sounding.
func (s *Synchronizer) ActiveHandles() int { return len(s.handles) }

// Playing reports whether a handle exists for the clip.
func (s *Synchronizer) Playing(clipID string) bool {
	_, ok := s.handles[clipID]
	return ok
}

// Reconcile aligns playback with the playhead at time. Clips on
// unmuted tracks whose interval contains time keep or gain a handle;
// everything else is torn down. A clip that fails to start is logged
// and skipped without disturbing the clips that did start.
func (s *Synchronizer) Reconcile(ctx context.Context, time float64, clips []*timeline.Clip, tracks []*timeline.Track) {
	byTrack := make(map[string]*timeline.Track, len(tracks))
	for _, track := range tracks {
		byTrack[track.ID] = track
	}

	sounding := make(map[string]*timeline.Clip)
	for _, clip := range clips {
		if !clip.HasAudio() || !clip.Contains(time) {
			continue
		}
		track := byTrack[clip.TrackID]
		if track == nil || track.Mute {
			continue
		}
		sounding[clip.ID] = clip
	}

	for clipID, handle := range s.handles {
		if _, ok := sounding[clipID]; ok {
			continue
		}
		s.player.Stop(handle)
		delete(s.handles, clipID)
		slog.Debug("audio handle stopped", "clip_id", clipID, "time", time)
	}

	for _, clip := range clips {
		if _, ok := sounding[clip.ID]; !ok {
			continue
		}
		if _, live := s.handles[clip.ID]; live {
			continue
		}
		offset := time - clip.Start
		if offset >= StartWindow {
			continue
		}
		s.start(ctx, clip, offset)
	}
}

func (s *Synchronizer) start(ctx context.Context, clip *timeline.Clip, offset float64) {
	source, err := SourceForClip(clip)
	if err != nil {
		slog.Warn("audio source unresolved",
			"clip_id", clip.ID,
			"error", err,
		)
		return
	}

	handle, err := s.player.Play(ctx, PlayRequest{
		ClipID: clip.ID,
		Source: source,
		Offset: offset,
		Rate:   clip.Params.Audio.Speed,
		Gain:   clip.Params.Audio.Volume,
	})
	if err != nil {
		slog.Warn("audio playback failed",
			"clip_id", clip.ID,
			"offset", offset,
			"error", err,
		)
		return
	}

	s.handles[clip.ID] = handle
	slog.Debug("audio handle started", "clip_id", clip.ID, "offset", offset)
}

// StopAll tears down every live handle. The transport calls this on
// pause and stop.
func (s *Synchronizer) StopAll() {
	for clipID, handle := range s.handles {
		s.player.Stop(handle)
		delete(s.handles, clipID)
	}
}
