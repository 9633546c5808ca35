package harness

import (
	"fmt"

	"github.com/elloloop/auteur.one/internal/timeline"
)

func (h *Harness) addTrack(args map[string]interface{}) error {
	name, err := stringArg(args, "name")
	if err != nil {
		return err
	}
	kind, err := stringArg(args, "kind")
	if err != nil {
		return err
	}

	track, err := h.project.AddTrack(name, timeline.TrackKind(kind))
	if err != nil {
		return err
	}

	rules := &timeline.PlacementRules{}
	configured := false
	if overlap, ok := optStringArg(args, "overlap"); ok {
		rules.Overlap = timeline.OverlapPolicy(overlap)
		configured = true
	}
	if snap, ok := optBoolArg(args, "snap"); ok {
		rules.Snap = snap
		configured = true
	}
	if ripple, ok := optBoolArg(args, "ripple"); ok {
		rules.Ripple = ripple
		configured = true
	}
	if !configured {
		return nil
	}
	return h.project.SetTrackRules(track.ID, rules)
}

func (h *Harness) removeTrack(args map[string]interface{}) error {
	name, err := stringArg(args, "track")
	if err != nil {
		return err
	}
	return h.project.RemoveTrack(h.trackID(name))
}

func (h *Harness) setMute(args map[string]interface{}) error {
	name, err := stringArg(args, "track")
	if err != nil {
		return err
	}
	mute, err := boolArg(args, "mute")
	if err != nil {
		return err
	}
	return h.project.SetTrackMute(h.trackID(name), mute)
}

func (h *Harness) setVolume(args map[string]interface{}) error {
	name, err := stringArg(args, "track")
	if err != nil {
		return err
	}
	volume, err := floatArg(args, "volume")
	if err != nil {
		return err
	}
	return h.project.SetTrackVolume(h.trackID(name), volume)
}

func (h *Harness) reorderTrack(args map[string]interface{}) error {
	name, err := stringArg(args, "track")
	if err != nil {
		return err
	}
	position, err := intArg(args, "position")
	if err != nil {
		return err
	}
	return h.project.ReorderTrack(h.trackID(name), position)
}

func (h *Harness) addClip(args map[string]interface{}) error {
	trackName, err := stringArg(args, "track")
	if err != nil {
		return err
	}
	kind, err := stringArg(args, "kind")
	if err != nil {
		return err
	}
	name, err := stringArg(args, "name")
	if err != nil {
		return err
	}
	start, err := floatArg(args, "start")
	if err != nil {
		return err
	}
	duration, err := floatArg(args, "duration")
	if err != nil {
		return err
	}

	params := timeline.DefaultParams()
	if uri, ok := optStringArg(args, "uri"); ok {
		mime, _ := optStringArg(args, "mime")
		params.Media = &timeline.MediaRef{URI: uri, MIME: mime}
	}

	clip, err := h.project.AddClip(h.trackID(trackName), timeline.ClipKind(kind), name, start, duration, params)
	if err != nil {
		return err
	}
	if content, ok := optStringArg(args, "content"); ok {
		return h.project.SetClipContent(clip.ID, content)
	}
	return nil
}

func (h *Harness) moveClip(args map[string]interface{}) error {
	name, err := stringArg(args, "clip")
	if err != nil {
		return err
	}
	start, err := floatArg(args, "start")
	if err != nil {
		return err
	}
	return h.project.MoveClip(h.clipID(name), start)
}

func (h *Harness) resizeClip(args map[string]interface{}) error {
	name, err := stringArg(args, "clip")
	if err != nil {
		return err
	}
	duration, err := floatArg(args, "duration")
	if err != nil {
		return err
	}
	return h.project.ResizeClip(h.clipID(name), duration)
}

func (h *Harness) splitClip(args map[string]interface{}) error {
	name, err := stringArg(args, "clip")
	if err != nil {
		return err
	}
	at, err := floatArg(args, "at")
	if err != nil {
		return err
	}
	_, err = h.project.SplitClip(h.clipID(name), at)
	return err
}

func (h *Harness) removeClip(args map[string]interface{}) error {
	name, err := stringArg(args, "clip")
	if err != nil {
		return err
	}
	return h.project.RemoveClip(h.clipID(name))
}

func (h *Harness) ripple(args map[string]interface{}) error {
	trackName, err := stringArg(args, "track")
	if err != nil {
		return err
	}
	after, err := floatArg(args, "after")
	if err != nil {
		return err
	}
	delta, err := floatArg(args, "delta")
	if err != nil {
		return err
	}
	h.project.Ripple(h.trackID(trackName), after, delta)
	return nil
}

func (h *Harness) addSpeaker(args map[string]interface{}) error {
	name, err := stringArg(args, "name")
	if err != nil {
		return err
	}
	color, err := stringArg(args, "color")
	if err != nil {
		return err
	}
	_, err = h.project.AddSpeaker(name, color)
	return err
}

func (h *Harness) setSpeaker(args map[string]interface{}) error {
	clipName, err := stringArg(args, "clip")
	if err != nil {
		return err
	}
	speakerName, err := stringArg(args, "speaker")
	if err != nil {
		return err
	}
	return h.project.SetClipSpeaker(h.clipID(clipName), h.speakerID(speakerName))
}

func (h *Harness) setContent(args map[string]interface{}) error {
	clipName, err := stringArg(args, "clip")
	if err != nil {
		return err
	}
	content, err := stringArg(args, "content")
	if err != nil {
		return err
	}
	return h.project.SetClipContent(h.clipID(clipName), content)
}

func (h *Harness) addTake(args map[string]interface{}) error {
	clipName, err := stringArg(args, "clip")
	if err != nil {
		return err
	}
	uri, err := stringArg(args, "uri")
	if err != nil {
		return err
	}
	duration, err := floatArg(args, "duration")
	if err != nil {
		return err
	}
	source := string(timeline.TakeUpload)
	if s, ok := optStringArg(args, "source"); ok {
		source = s
	}

	_, err = h.project.AddTake(h.clipID(clipName), timeline.Take{
		Source:   timeline.TakeSource(source),
		URI:      uri,
		Duration: duration,
	})
	return err
}

func (h *Harness) setActiveTake(args map[string]interface{}) error {
	clipName, err := stringArg(args, "clip")
	if err != nil {
		return err
	}
	position, err := intArg(args, "take")
	if err != nil {
		return err
	}
	clip, err := h.project.ClipByID(h.clipID(clipName))
	if err != nil {
		return err
	}
	return h.project.SetActiveTake(clip.ID, takeIDAt(clip, position))
}

func (h *Harness) deleteTake(args map[string]interface{}) error {
	clipName, err := stringArg(args, "clip")
	if err != nil {
		return err
	}
	position, err := intArg(args, "take")
	if err != nil {
		return err
	}
	clip, err := h.project.ClipByID(h.clipID(clipName))
	if err != nil {
		return err
	}
	return h.project.DeleteTake(clip.ID, takeIDAt(clip, position))
}

// takeIDAt maps a 1-based take position to its ID. Out-of-range
// positions map to an ID no take can carry, so the engine reports the
// miss; an empty string would clear the active selection instead.
func takeIDAt(clip *timeline.Clip, position int) string {
	if position < 1 || position > len(clip.Takes) {
		return fmt.Sprintf("take-%d-missing", position)
	}
	return clip.Takes[position-1].ID
}

// stringArg extracts a required string argument.
func stringArg(args map[string]interface{}, key string) (string, error) {
	val, ok := args[key]
	if !ok {
		return "", fmt.Errorf("arg %q is required", key)
	}
	s, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("arg %q must be a string, got %T", key, val)
	}
	return s, nil
}

// optStringArg extracts an optional string argument.
func optStringArg(args map[string]interface{}, key string) (string, bool) {
	s, ok := args[key].(string)
	return s, ok
}

// floatArg extracts a required numeric argument.
// YAML parses whole numbers as int, so both forms are accepted.
func floatArg(args map[string]interface{}, key string) (float64, error) {
	val, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("arg %q is required", key)
	}
	switch v := val.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	}
	return 0, fmt.Errorf("arg %q must be a number, got %T", key, val)
}

// intArg extracts a required integer argument.
func intArg(args map[string]interface{}, key string) (int, error) {
	val, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("arg %q is required", key)
	}
	i, ok := val.(int)
	if !ok {
		return 0, fmt.Errorf("arg %q must be an integer, got %T", key, val)
	}
	return i, nil
}

// boolArg extracts a required boolean argument.
func boolArg(args map[string]interface{}, key string) (bool, error) {
	val, ok := args[key]
	if !ok {
		return false, fmt.Errorf("arg %q is required", key)
	}
	b, ok := val.(bool)
	if !ok {
		return false, fmt.Errorf("arg %q must be a boolean, got %T", key, val)
	}
	return b, nil
}

// optBoolArg extracts an optional boolean argument.
func optBoolArg(args map[string]interface{}, key string) (bool, bool) {
	b, ok := args[key].(bool)
	return b, ok
}
