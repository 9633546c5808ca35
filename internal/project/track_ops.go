package project

import (
	"log/slog"
	"sort"

	"github.com/elloloop/auteur.one/internal/timeline"
)

// AddTrack appends a new track above all existing ones.
func (p *Project) AddTrack(name string, kind timeline.TrackKind) (*timeline.Track, error) {
	if !timeline.ValidTrackKind(kind) {
		return nil, timeline.NewValidationError(timeline.ErrCodeInvalidEnum, "unknown track kind", map[string]string{
			"kind": string(kind),
		})
	}
	if err := timeline.ValidateName(name); err != nil {
		return nil, err
	}

	order := 0
	for _, t := range p.tracks {
		if t.Order >= order {
			order = t.Order + 1
		}
	}

	track := &timeline.Track{
		ID:    p.ids.NewID(),
		Name:  name,
		Kind:  kind,
		Order: order,
	}
	p.tracks = append(p.tracks, track)

	slog.Debug("track added", "track_id", track.ID, "kind", kind, "order", order)
	return track, nil
}

// RemoveTrack deletes a track and every clip placed on it.
func (p *Project) RemoveTrack(id string) error {
	idx := -1
	for i, t := range p.tracks {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return timeline.NewNotFoundError("track", id)
	}

	p.tracks = append(p.tracks[:idx], p.tracks[idx+1:]...)

	kept := p.clips[:0]
	removed := 0
	for _, c := range p.clips {
		if c.TrackID == id {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	p.clips = kept

	slog.Debug("track removed", "track_id", id, "clips_removed", removed)
	return nil
}

// SetTrackMute toggles a track's mute flag.
func (p *Project) SetTrackMute(id string, mute bool) error {
	track, err := p.TrackByID(id)
	if err != nil {
		return err
	}
	track.Mute = mute
	return nil
}

// SetTrackVolume sets the track gain after range validation.
func (p *Project) SetTrackVolume(id string, volume float64) error {
	track, err := p.TrackByID(id)
	if err != nil {
		return err
	}
	if err := timeline.ValidateVolume(volume); err != nil {
		return err
	}
	track.Volume = &volume
	return nil
}

// SetTrackRules replaces a track's placement rules. A nil rules value
// clears them.
func (p *Project) SetTrackRules(id string, rules *timeline.PlacementRules) error {
	track, err := p.TrackByID(id)
	if err != nil {
		return err
	}
	if rules != nil && rules.Overlap != "" && !timeline.ValidOverlapPolicy(rules.Overlap) {
		return timeline.NewValidationError(timeline.ErrCodeInvalidEnum, "unknown overlap policy", map[string]string{
			"overlap": string(rules.Overlap),
		})
	}
	track.Rules = rules
	return nil
}

// ReorderTrack moves a track to the given position in the z-order and
// renumbers all tracks contiguously, preserving uniqueness.
func (p *Project) ReorderTrack(id string, position int) error {
	if _, err := p.TrackByID(id); err != nil {
		return err
	}

	ordered := p.Tracks()
	idx := 0
	for i, t := range ordered {
		if t.ID == id {
			idx = i
			break
		}
	}

	if position < 0 {
		position = 0
	}
	if position > len(ordered)-1 {
		position = len(ordered) - 1
	}

	moved := ordered[idx]
	ordered = append(ordered[:idx], ordered[idx+1:]...)
	ordered = append(ordered[:position], append([]*timeline.Track{moved}, ordered[position:]...)...)

	for i, t := range ordered {
		t.Order = i
	}

	sort.SliceStable(p.tracks, func(i, j int) bool { return p.tracks[i].Order < p.tracks[j].Order })
	return nil
}
