package placement

import "github.com/elloloop/auteur.one/internal/timeline"

// Shift describes a single clip start adjustment produced by a ripple.
type Shift struct {
	ClipID   string
	OldStart float64
	NewStart float64
}

// RippleShift computes the downstream start adjustments for every clip
// on the given track at or after afterTime, moved by delta seconds.
//
// Shifted starts are clamped at zero, so a large negative delta can
// compress early clips against the timeline origin. The result is not
// re-validated against overlap rules; ripple is a bulk adjustment and
// any overlaps it introduces are left standing. Clips on other tracks
// are never touched.
func RippleShift(trackID string, afterTime, delta float64, clips []*timeline.Clip) []Shift {
	var shifts []Shift
	for _, c := range clips {
		if c.TrackID != trackID || c.Start < afterTime {
			continue
		}
		newStart := c.Start + delta
		if newStart < 0 {
			newStart = 0
		}
		if newStart == c.Start {
			continue
		}
		shifts = append(shifts, Shift{ClipID: c.ID, OldStart: c.Start, NewStart: newStart})
	}
	return shifts
}
