package template

import (
	"fmt"

	"cuelang.org/go/cue"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/elloloop/auteur.one/internal/project"
	"github.com/elloloop/auteur.one/internal/timeline"
)

// CompileError is a preset definition problem with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CompilePreset parses a CUE value into a Preset. The value should be
// the preset struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`template: dialogue: { ... }`)
//	preset, err := CompilePreset(v.LookupPath(cue.ParsePath("template.dialogue")))
//
// Missing settings fields fall back to the project defaults.
func CompilePreset(v cue.Value) (*Preset, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	preset := &Preset{Settings: project.DefaultSettings()}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		preset.Name = labels[len(labels)-1].String()
	}

	descVal := v.LookupPath(cue.ParsePath("description"))
	if descVal.Exists() {
		desc, err := descVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		preset.Description = desc
	}

	if err := parseSettings(v, &preset.Settings); err != nil {
		return nil, err
	}

	tracks, err := parseTracks(v)
	if err != nil {
		return nil, err
	}
	preset.Tracks = tracks

	speakers, err := parseSpeakers(v)
	if err != nil {
		return nil, err
	}
	preset.Speakers = speakers

	return preset, nil
}

func parseSettings(v cue.Value, out *project.Settings) error {
	sv := v.LookupPath(cue.ParsePath("settings"))
	if !sv.Exists() {
		return nil
	}

	if wv := sv.LookupPath(cue.ParsePath("width")); wv.Exists() {
		w, err := wv.Int64()
		if err != nil {
			return formatCUEError(err)
		}
		out.Width = int(w)
	}
	if hv := sv.LookupPath(cue.ParsePath("height")); hv.Exists() {
		h, err := hv.Int64()
		if err != nil {
			return formatCUEError(err)
		}
		out.Height = int(h)
	}
	if fv := sv.LookupPath(cue.ParsePath("fps")); fv.Exists() {
		f, err := fv.Float64()
		if err != nil {
			return formatCUEError(err)
		}
		out.FPS = f
	}
	if dv := sv.LookupPath(cue.ParsePath("duration")); dv.Exists() {
		d, err := dv.Float64()
		if err != nil {
			return formatCUEError(err)
		}
		out.Duration = d
	}
	if bv := sv.LookupPath(cue.ParsePath("background")); bv.Exists() {
		bg, err := bv.String()
		if err != nil {
			return formatCUEError(err)
		}
		out.Background = bg
	}

	if out.Width <= 0 || out.Height <= 0 {
		return &CompileError{
			Field:   "settings",
			Message: "frame dimensions must be positive",
			Pos:     sv.Pos(),
		}
	}
	if out.FPS <= 0 {
		return &CompileError{
			Field:   "settings.fps",
			Message: "fps must be positive",
			Pos:     sv.Pos(),
		}
	}
	if out.Duration < 0 {
		return &CompileError{
			Field:   "settings.duration",
			Message: "duration cannot be negative",
			Pos:     sv.Pos(),
		}
	}
	normalized, err := timeline.NormalizeColor(out.Background)
	if err != nil {
		return &CompileError{
			Field:   "settings.background",
			Message: fmt.Sprintf("background must be 6 hex digits, got %q", out.Background),
			Pos:     sv.Pos(),
		}
	}
	out.Background = normalized
	return nil
}

func parseTracks(v cue.Value) ([]TrackPreset, error) {
	tv := v.LookupPath(cue.ParsePath("track"))
	if !tv.Exists() {
		return nil, nil
	}
	iter, err := tv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var tracks []TrackPreset
	for iter.Next() {
		entry := iter.Value()

		nameVal := entry.LookupPath(cue.ParsePath("name"))
		if !nameVal.Exists() {
			return nil, &CompileError{
				Field:   "track.name",
				Message: "track name is required",
				Pos:     entry.Pos(),
			}
		}
		name, err := nameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}

		kindVal := entry.LookupPath(cue.ParsePath("kind"))
		if !kindVal.Exists() {
			return nil, &CompileError{
				Field:   "track.kind",
				Message: "track kind is required",
				Pos:     entry.Pos(),
			}
		}
		kindStr, err := kindVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		kind := timeline.TrackKind(kindStr)
		if !timeline.ValidTrackKind(kind) {
			return nil, &CompileError{
				Field:   "track.kind",
				Message: fmt.Sprintf("unknown track kind %q", kindStr),
				Pos:     kindVal.Pos(),
			}
		}

		tp := TrackPreset{Name: name, Kind: kind}

		rulesVal := entry.LookupPath(cue.ParsePath("rules"))
		if rulesVal.Exists() {
			rules, err := parseRules(rulesVal)
			if err != nil {
				return nil, err
			}
			tp.Rules = rules
		}
		tracks = append(tracks, tp)
	}
	return tracks, nil
}

func parseRules(v cue.Value) (*timeline.PlacementRules, error) {
	rules := &timeline.PlacementRules{}

	if ov := v.LookupPath(cue.ParsePath("overlap")); ov.Exists() {
		s, err := ov.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		policy := timeline.OverlapPolicy(s)
		if !timeline.ValidOverlapPolicy(policy) {
			return nil, &CompileError{
				Field:   "track.rules.overlap",
				Message: fmt.Sprintf("unknown overlap policy %q", s),
				Pos:     ov.Pos(),
			}
		}
		rules.Overlap = policy
	}
	if gv := v.LookupPath(cue.ParsePath("default_gap_ms")); gv.Exists() {
		gap, err := gv.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		rules.DefaultGapMs = int(gap)
	}
	if sv := v.LookupPath(cue.ParsePath("snap")); sv.Exists() {
		snap, err := sv.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		rules.Snap = snap
	}
	if rv := v.LookupPath(cue.ParsePath("ripple")); rv.Exists() {
		ripple, err := rv.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		rules.Ripple = ripple
	}
	return rules, nil
}

func parseSpeakers(v cue.Value) ([]SpeakerPreset, error) {
	sv := v.LookupPath(cue.ParsePath("speaker"))
	if !sv.Exists() {
		return nil, nil
	}
	iter, err := sv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var speakers []SpeakerPreset
	for iter.Next() {
		entry := iter.Value()

		nameVal := entry.LookupPath(cue.ParsePath("name"))
		if !nameVal.Exists() {
			return nil, &CompileError{
				Field:   "speaker.name",
				Message: "speaker name is required",
				Pos:     entry.Pos(),
			}
		}
		name, err := nameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}

		colorVal := entry.LookupPath(cue.ParsePath("color"))
		if !colorVal.Exists() {
			return nil, &CompileError{
				Field:   "speaker.color",
				Message: "speaker color is required",
				Pos:     entry.Pos(),
			}
		}
		color, err := colorVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if _, err := timeline.NormalizeColor(color); err != nil {
			return nil, &CompileError{
				Field:   "speaker.color",
				Message: fmt.Sprintf("color must be 6 hex digits, got %q", color),
				Pos:     colorVal.Pos(),
			}
		}

		speakers = append(speakers, SpeakerPreset{Name: name, Color: color})
	}
	return speakers, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
