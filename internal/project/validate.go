package project

import (
	"fmt"

	"github.com/elloloop/auteur.one/internal/timeline"
)

// Validate checks the full aggregate for structural consistency. It is
// used after loading a project document, where field-level YAML
// validation cannot see cross-entity invariants.
func (p *Project) Validate() error {
	if p.Settings.Width <= 0 || p.Settings.Height <= 0 {
		return timeline.NewValidationError(timeline.ErrCodeValueOutOfRange, "frame dimensions must be positive", map[string]string{
			"width":  fmt.Sprintf("%d", p.Settings.Width),
			"height": fmt.Sprintf("%d", p.Settings.Height),
		})
	}
	if p.Settings.FPS <= 0 {
		return timeline.NewValidationError(timeline.ErrCodeValueOutOfRange, "frame rate must be positive", nil)
	}
	if p.Settings.Background != "" {
		if _, err := timeline.NormalizeColor(p.Settings.Background); err != nil {
			return err
		}
	}

	seenOrder := make(map[int]string, len(p.tracks))
	for _, t := range p.tracks {
		if !timeline.ValidTrackKind(t.Kind) {
			return timeline.NewValidationError(timeline.ErrCodeInvalidEnum, "unknown track kind", map[string]string{
				"track_id": t.ID,
				"kind":     string(t.Kind),
			})
		}
		if other, dup := seenOrder[t.Order]; dup {
			return timeline.NewValidationError(timeline.ErrCodeValueOutOfRange, "track order values must be unique", map[string]string{
				"track_id": t.ID,
				"conflict": other,
			})
		}
		seenOrder[t.Order] = t.ID
		if t.Volume != nil {
			if err := timeline.ValidateVolume(*t.Volume); err != nil {
				return err
			}
		}
		if t.Rules != nil && t.Rules.Overlap != "" && !timeline.ValidOverlapPolicy(t.Rules.Overlap) {
			return timeline.NewValidationError(timeline.ErrCodeInvalidEnum, "unknown overlap policy", map[string]string{
				"track_id": t.ID,
				"overlap":  string(t.Rules.Overlap),
			})
		}
	}

	for _, s := range p.speakers {
		if _, err := timeline.NormalizeColor(s.Color); err != nil {
			return err
		}
		if s.Voice != nil {
			if err := timeline.ValidateVoice(*s.Voice); err != nil {
				return err
			}
		}
	}

	for _, c := range p.clips {
		if _, err := p.TrackByID(c.TrackID); err != nil {
			return timeline.NewValidationError(timeline.ErrCodeNotFound, "clip references a missing track", map[string]string{
				"clip_id":  c.ID,
				"track_id": c.TrackID,
			})
		}
		if !timeline.ValidClipKind(c.Kind) {
			return timeline.NewValidationError(timeline.ErrCodeInvalidEnum, "unknown clip kind", map[string]string{
				"clip_id": c.ID,
				"kind":    string(c.Kind),
			})
		}
		if c.Start < 0 || c.Duration <= 0 {
			return timeline.NewValidationError(timeline.ErrCodeValueOutOfRange, "clip interval is invalid", map[string]string{
				"clip_id": c.ID,
			})
		}
		if err := timeline.ValidateName(c.Name); err != nil {
			return err
		}
		if err := timeline.ValidateParams(c.Params); err != nil {
			return err
		}
		for i := range c.Takes {
			if err := c.Takes[i].Validate(); err != nil {
				return err
			}
		}
		if c.ActiveTakeID != "" && c.TakeByID(c.ActiveTakeID) == nil {
			return timeline.NewValidationError(timeline.ErrCodeInvalidTake, "active take is not owned by the clip", map[string]string{
				"clip_id": c.ID,
				"take_id": c.ActiveTakeID,
			})
		}
	}

	return nil
}
