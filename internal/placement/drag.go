package placement

import (
	"strconv"

	"github.com/elloloop/auteur.one/internal/timeline"
)

// DragKind selects which geometry a drag session manipulates.
type DragKind string

const (
	// DragMove adjusts the clip start, preserving duration.
	DragMove DragKind = "move"

	// DragResize adjusts the clip duration from its right edge,
	// preserving start.
	DragResize DragKind = "resize"
)

// Geometry is a clip's placement on the timeline.
type Geometry struct {
	Start    float64
	Duration float64
}

// Session is an interactive drag over a single clip.
//
// The session converts pointer pixel positions into candidate geometry
// and validates each candidate against the track's overlap rules. An
// invalid candidate is dropped without feedback and the last valid
// geometry stands, so the dragged clip sticks at the edge of the
// nearest legal position instead of jumping over a neighbor.
type Session struct {
	clip        *timeline.Clip
	kind        DragKind
	originPx    float64
	pxPerSecond float64
	initial     Geometry
	current     Geometry
	closed      bool
}

// NewSession opens a drag session for clip.
//
// originPx is the pointer position at drag start. basePixelWidth is the
// timeline's pixel width of one second at zoom 1; pixel deltas convert
// to seconds by dividing by basePixelWidth*zoom.
func NewSession(clip *timeline.Clip, kind DragKind, originPx, basePixelWidth, zoom float64) (*Session, error) {
	if kind != DragMove && kind != DragResize {
		return nil, timeline.NewValidationError(timeline.ErrCodeInvalidEnum, "unknown drag kind", map[string]string{
			"kind": string(kind),
		})
	}
	if basePixelWidth <= 0 || zoom <= 0 {
		return nil, timeline.NewValidationError(timeline.ErrCodeValueOutOfRange, "pixel scale must be positive", map[string]string{
			"base_pixel_width": formatScale(basePixelWidth),
			"zoom":             formatScale(zoom),
		})
	}
	g := Geometry{Start: clip.Start, Duration: clip.Duration}
	return &Session{
		clip:        clip,
		kind:        kind,
		originPx:    originPx,
		pxPerSecond: basePixelWidth * zoom,
		initial:     g,
		current:     g,
	}, nil
}

// Update feeds a new pointer position into the session and returns the
// geometry after validation. clips and tracks are the current timeline
// contents used for overlap checking.
func (s *Session) Update(pointerPx float64, clips []*timeline.Clip, tracks []*timeline.Track) Geometry {
	if s.closed {
		return s.current
	}

	deltaSeconds := (pointerPx - s.originPx) / s.pxPerSecond

	candidate := s.current
	switch s.kind {
	case DragMove:
		candidate.Start = s.initial.Start + deltaSeconds
		if candidate.Start < 0 {
			candidate.Start = 0
		}
	case DragResize:
		candidate.Duration = s.initial.Duration + deltaSeconds
		if candidate.Duration < timeline.MinClipDuration {
			candidate.Duration = timeline.MinClipDuration
		}
	}

	if candidate == s.current {
		return s.current
	}
	if Overlaps(s.clip, candidate.Start, candidate.Duration, clips, tracks) {
		// Silent rejection: keep the last valid geometry.
		return s.current
	}
	s.current = candidate
	return s.current
}

// Geometry returns the session's current valid geometry.
func (s *Session) Geometry() Geometry {
	return s.current
}

// Close ends the session and returns the final geometry along with
// whether it differs from the pre-drag geometry. Further updates are
// ignored.
func (s *Session) Close() (Geometry, bool) {
	s.closed = true
	return s.current, s.current != s.initial
}

func formatScale(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
