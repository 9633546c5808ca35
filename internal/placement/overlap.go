package placement

import "github.com/elloloop/auteur.one/internal/timeline"

// Overlaps reports whether placing clip at [newStart, newStart+newDuration)
// would conflict with another clip on its track.
//
// The check is advisory: it never mutates anything, callers decide what
// to do with a conflict. Tracks without rules, and tracks with the
// allow policy, never report conflicts. The push and trim policies have
// no resolution strategy and are treated as disallow.
//
// Intervals are half-open, so clips that merely touch at an endpoint
// do not conflict.
func Overlaps(clip *timeline.Clip, newStart, newDuration float64, clips []*timeline.Clip, tracks []*timeline.Track) bool {
	var track *timeline.Track
	for _, t := range tracks {
		if t.ID == clip.TrackID {
			track = t
			break
		}
	}
	if track == nil || track.OverlapRule() == timeline.OverlapAllow {
		return false
	}

	newEnd := newStart + newDuration
	for _, other := range clips {
		if other.ID == clip.ID || other.TrackID != clip.TrackID {
			continue
		}
		if newEnd <= other.Start || newStart >= other.End() {
			continue
		}
		return true
	}
	return false
}
