package project

import (
	"log/slog"
	"strconv"

	"github.com/elloloop/auteur.one/internal/placement"
	"github.com/elloloop/auteur.one/internal/timeline"
)

func formatSeconds(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (p *Project) checkPlacement(clip *timeline.Clip, start, duration float64) error {
	if start < 0 {
		return timeline.NewValidationError(timeline.ErrCodeValueOutOfRange, "clip start must not be negative", map[string]string{
			"clip_id": clip.ID,
		})
	}
	if duration <= 0 {
		return timeline.NewValidationError(timeline.ErrCodeValueOutOfRange, "clip duration must be positive", map[string]string{
			"clip_id": clip.ID,
		})
	}
	if placement.Overlaps(clip, start, duration, p.clips, p.tracks) {
		return timeline.NewValidationError(timeline.ErrCodeClipOverlap, "placement conflicts with another clip", map[string]string{
			"clip_id":  clip.ID,
			"track_id": clip.TrackID,
		})
	}
	return nil
}

// AddClip places a new clip on a track.
func (p *Project) AddClip(trackID string, kind timeline.ClipKind, name string, start, duration float64, params timeline.Params) (*timeline.Clip, error) {
	if _, err := p.TrackByID(trackID); err != nil {
		return nil, err
	}
	if !timeline.ValidClipKind(kind) {
		return nil, timeline.NewValidationError(timeline.ErrCodeInvalidEnum, "unknown clip kind", map[string]string{
			"kind": string(kind),
		})
	}
	if err := timeline.ValidateName(name); err != nil {
		return nil, err
	}
	if err := timeline.ValidateParams(params); err != nil {
		return nil, err
	}

	clip := &timeline.Clip{
		ID:      p.ids.NewID(),
		TrackID: trackID,
		Kind:    kind,
		Name:    name,
		Params:  params,
	}
	if err := p.checkPlacement(clip, start, duration); err != nil {
		return nil, err
	}
	clip.Start = start
	clip.Duration = duration
	p.clips = append(p.clips, clip)

	slog.Debug("clip added", "clip_id", clip.ID, "track_id", trackID, "kind", kind, "start", start, "duration", duration)
	return clip, nil
}

// MoveClip repositions a clip after overlap validation.
func (p *Project) MoveClip(id string, newStart float64) error {
	clip, err := p.ClipByID(id)
	if err != nil {
		return err
	}
	if err := p.checkPlacement(clip, newStart, clip.Duration); err != nil {
		return err
	}
	clip.Start = newStart
	return nil
}

// ResizeClip changes a clip's duration after overlap validation.
func (p *Project) ResizeClip(id string, newDuration float64) error {
	clip, err := p.ClipByID(id)
	if err != nil {
		return err
	}
	if err := p.checkPlacement(clip, clip.Start, newDuration); err != nil {
		return err
	}
	clip.Duration = newDuration
	return nil
}

// UpdateClipParams replaces a clip's parameter set after validation.
func (p *Project) UpdateClipParams(id string, params timeline.Params) error {
	clip, err := p.ClipByID(id)
	if err != nil {
		return err
	}
	if err := timeline.ValidateParams(params); err != nil {
		return err
	}
	clip.Params = params
	return nil
}

// RenameClip sets a clip's display name.
func (p *Project) RenameClip(id, name string) error {
	clip, err := p.ClipByID(id)
	if err != nil {
		return err
	}
	if err := timeline.ValidateName(name); err != nil {
		return err
	}
	clip.Name = name
	return nil
}

// SplitClip cuts a clip at timeline position t, truncating the original
// and creating a new clip for the remainder. The two resulting clips
// exactly cover the original interval and touch at t. Takes are deep
// copied onto the new clip so ownership stays exclusive.
func (p *Project) SplitClip(id string, t float64) (*timeline.Clip, error) {
	clip, err := p.ClipByID(id)
	if err != nil {
		return nil, err
	}
	if t <= clip.Start || t >= clip.End() {
		return nil, timeline.NewValidationError(timeline.ErrCodeInvalidSplit, "split point must fall strictly inside the clip", map[string]string{
			"clip_id": clip.ID,
			"t":       formatSeconds(t),
		})
	}

	right := clip.Clone()
	right.ID = p.ids.NewID()
	right.Start = t
	right.Duration = clip.End() - t

	clip.Duration = t - clip.Start
	p.clips = append(p.clips, right)

	slog.Debug("clip split", "clip_id", clip.ID, "new_clip_id", right.ID, "at", t)
	return right, nil
}

// RemoveClip deletes a clip.
func (p *Project) RemoveClip(id string) error {
	for i, c := range p.clips {
		if c.ID == id {
			p.clips = append(p.clips[:i], p.clips[i+1:]...)
			slog.Debug("clip removed", "clip_id", id)
			return nil
		}
	}
	return timeline.NewNotFoundError("clip", id)
}

// ApplyShifts applies ripple results directly. Per ripple semantics the
// shifts are not re-validated against overlap rules.
func (p *Project) ApplyShifts(shifts []placement.Shift) {
	for _, s := range shifts {
		for _, c := range p.clips {
			if c.ID == s.ClipID {
				c.Start = s.NewStart
				break
			}
		}
	}
}

// Ripple shifts every clip on the track at or after afterTime by delta
// seconds and applies the result.
func (p *Project) Ripple(trackID string, afterTime, delta float64) []placement.Shift {
	shifts := placement.RippleShift(trackID, afterTime, delta, p.clips)
	p.ApplyShifts(shifts)
	if len(shifts) > 0 {
		slog.Debug("ripple applied", "track_id", trackID, "after", afterTime, "delta", delta, "clips_shifted", len(shifts))
	}
	return shifts
}
