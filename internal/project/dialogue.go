package project

import (
	"log/slog"

	"github.com/elloloop/auteur.one/internal/timeline"
)

// AddSpeaker registers a new speaker.
func (p *Project) AddSpeaker(name, color string) (*timeline.Speaker, error) {
	if err := timeline.ValidateName(name); err != nil {
		return nil, err
	}
	normalized, err := timeline.NormalizeColor(color)
	if err != nil {
		return nil, err
	}

	speaker := &timeline.Speaker{
		ID:    p.ids.NewID(),
		Name:  name,
		Color: normalized,
	}
	p.speakers = append(p.speakers, speaker)
	return speaker, nil
}

// UpdateSpeaker changes a speaker's name, color, or voice profile.
// Empty name and color leave the current values in place.
func (p *Project) UpdateSpeaker(id, name, color string, voice *timeline.VoiceProfile) error {
	speaker, err := p.SpeakerByID(id)
	if err != nil {
		return err
	}
	if name != "" {
		if err := timeline.ValidateName(name); err != nil {
			return err
		}
	}
	normalized := ""
	if color != "" {
		normalized, err = timeline.NormalizeColor(color)
		if err != nil {
			return err
		}
	}
	if voice != nil {
		if err := timeline.ValidateVoice(*voice); err != nil {
			return err
		}
	}

	if name != "" {
		speaker.Name = name
	}
	if normalized != "" {
		speaker.Color = normalized
	}
	if voice != nil {
		speaker.Voice = voice
	}
	return nil
}

// RemoveSpeaker deletes a speaker. Clip references to the speaker are
// weak and left dangling; rendering resolves them to the unknown
// speaker fallback.
func (p *Project) RemoveSpeaker(id string) error {
	for i, s := range p.speakers {
		if s.ID == id {
			p.speakers = append(p.speakers[:i], p.speakers[i+1:]...)
			slog.Debug("speaker removed", "speaker_id", id)
			return nil
		}
	}
	return timeline.NewNotFoundError("speaker", id)
}

// SetClipSpeaker assigns a speaker reference to a dialogue clip. The
// speaker must exist at assignment time; it may be deleted later.
func (p *Project) SetClipSpeaker(clipID, speakerID string) error {
	clip, err := p.ClipByID(clipID)
	if err != nil {
		return err
	}
	if clip.Kind != timeline.ClipDialogue {
		return timeline.NewValidationError(timeline.ErrCodeInvalidEnum, "speaker assignment requires a dialogue clip", map[string]string{
			"clip_id": clipID,
			"kind":    string(clip.Kind),
		})
	}
	if speakerID != "" {
		if _, err := p.SpeakerByID(speakerID); err != nil {
			return err
		}
	}
	clip.SpeakerID = speakerID
	return nil
}

// SetClipContent updates a dialogue clip's text. Existing takes keep
// their captured hashes, so an active take becomes stale when the text
// diverges.
func (p *Project) SetClipContent(clipID, content string) error {
	clip, err := p.ClipByID(clipID)
	if err != nil {
		return err
	}
	if clip.Kind != timeline.ClipDialogue {
		return timeline.NewValidationError(timeline.ErrCodeInvalidEnum, "content requires a dialogue clip", map[string]string{
			"clip_id": clipID,
			"kind":    string(clip.Kind),
		})
	}
	clip.Content = content
	return nil
}

// AddTake appends a take to a dialogue clip. The take is validated but
// not activated; use SetActiveTake to select it for playback.
func (p *Project) AddTake(clipID string, take timeline.Take) (*timeline.Take, error) {
	clip, err := p.ClipByID(clipID)
	if err != nil {
		return nil, err
	}
	if clip.Kind != timeline.ClipDialogue {
		return nil, timeline.NewValidationError(timeline.ErrCodeInvalidTake, "takes belong to dialogue clips", map[string]string{
			"clip_id": clipID,
			"kind":    string(clip.Kind),
		})
	}
	if take.ID == "" {
		take.ID = p.ids.NewID()
	}
	if err := take.Validate(); err != nil {
		return nil, err
	}

	clip.Takes = append(clip.Takes, take)
	slog.Debug("take added", "clip_id", clipID, "take_id", take.ID, "source", take.Source, "duration", take.Duration)
	return &clip.Takes[len(clip.Takes)-1], nil
}

// SetActiveTake selects a take for playback. Activation resizes the
// clip to the take's duration and captures the current content hash so
// later text edits can be detected as stale. An empty takeID clears the
// active selection.
func (p *Project) SetActiveTake(clipID, takeID string) error {
	clip, err := p.ClipByID(clipID)
	if err != nil {
		return err
	}
	if takeID == "" {
		clip.ActiveTakeID = ""
		return nil
	}
	take := clip.TakeByID(takeID)
	if take == nil {
		return timeline.NewNotFoundError("take", takeID)
	}

	clip.ActiveTakeID = take.ID
	clip.Duration = take.Duration
	clip.TextHash = timeline.TextVersionHash(clip.Content)

	slog.Debug("take activated", "clip_id", clipID, "take_id", takeID, "duration", take.Duration)
	return nil
}

// DeleteTake removes a take from a dialogue clip. Deleting the active
// take reassigns the selection to the first remaining take in array
// order, or clears it when none remain. The clip's duration is left as
// is; only activation rewrites duration.
func (p *Project) DeleteTake(clipID, takeID string) error {
	clip, err := p.ClipByID(clipID)
	if err != nil {
		return err
	}
	idx := -1
	for i := range clip.Takes {
		if clip.Takes[i].ID == takeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return timeline.NewNotFoundError("take", takeID)
	}

	clip.Takes = append(clip.Takes[:idx], clip.Takes[idx+1:]...)

	if clip.ActiveTakeID == takeID {
		if len(clip.Takes) > 0 {
			clip.ActiveTakeID = clip.Takes[0].ID
		} else {
			clip.ActiveTakeID = ""
		}
	}

	slog.Debug("take deleted", "clip_id", clipID, "take_id", takeID, "active_take_id", clip.ActiveTakeID)
	return nil
}
