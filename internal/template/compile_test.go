package template

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elloloop/auteur.one/internal/project"
	"github.com/elloloop/auteur.one/internal/timeline"
)

func compileFixture(t *testing.T, src, path string) cue.Value {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return v.LookupPath(cue.ParsePath(path))
}

func TestCompilePresetBasic(t *testing.T) {
	v := compileFixture(t, `
		template: interview: {
			description: "Two speaker interview"
			settings: {
				width:      1280
				height:     720
				fps:        25
				duration:   120
				background: "222230"
			}
			track: [
				{name: "Dialogue", kind: "dialogue", rules: {overlap: "disallow", ripple: true, snap: true, default_gap_ms: 150}},
				{name: "Music", kind: "audio"},
			]
			speaker: [
				{name: "Interviewer", color: "AA00FF"},
				{name: "Guest", color: "00CCAA"},
			]
		}
	`, "template.interview")

	preset, err := CompilePreset(v)
	require.NoError(t, err)

	assert.Equal(t, "interview", preset.Name)
	assert.Equal(t, "Two speaker interview", preset.Description)
	assert.Equal(t, 1280, preset.Settings.Width)
	assert.Equal(t, 720, preset.Settings.Height)
	assert.Equal(t, 25.0, preset.Settings.FPS)
	assert.Equal(t, 120.0, preset.Settings.Duration)
	assert.Equal(t, "222230", preset.Settings.Background)

	require.Len(t, preset.Tracks, 2)
	assert.Equal(t, "Dialogue", preset.Tracks[0].Name)
	assert.Equal(t, timeline.TrackDialogue, preset.Tracks[0].Kind)
	require.NotNil(t, preset.Tracks[0].Rules)
	assert.Equal(t, timeline.OverlapDisallow, preset.Tracks[0].Rules.Overlap)
	assert.True(t, preset.Tracks[0].Rules.Ripple)
	assert.True(t, preset.Tracks[0].Rules.Snap)
	assert.Equal(t, 150, preset.Tracks[0].Rules.DefaultGapMs)
	assert.Nil(t, preset.Tracks[1].Rules)

	require.Len(t, preset.Speakers, 2)
	assert.Equal(t, "Interviewer", preset.Speakers[0].Name)
	assert.Equal(t, "AA00FF", preset.Speakers[0].Color)
}

func TestCompilePresetDefaults(t *testing.T) {
	v := compileFixture(t, `
		template: blank: {
			description: "Nothing yet"
		}
	`, "template.blank")

	preset, err := CompilePreset(v)
	require.NoError(t, err)

	assert.Equal(t, "blank", preset.Name)
	assert.Equal(t, project.DefaultSettings(), preset.Settings)
	assert.Empty(t, preset.Tracks)
	assert.Empty(t, preset.Speakers)
}

func TestCompilePresetPartialSettingsKeepDefaults(t *testing.T) {
	v := compileFixture(t, `
		template: small: {
			settings: {
				width:  640
				height: 360
			}
		}
	`, "template.small")

	preset, err := CompilePreset(v)
	require.NoError(t, err)

	assert.Equal(t, 640, preset.Settings.Width)
	assert.Equal(t, 360, preset.Settings.Height)
	assert.Equal(t, 30.0, preset.Settings.FPS)
	assert.Equal(t, "000000", preset.Settings.Background)
}

func TestCompilePresetUnknownTrackKind(t *testing.T) {
	v := compileFixture(t, `
		template: bad: {
			track: [{name: "Weird", kind: "hologram"}]
		}
	`, "template.bad")

	_, err := CompilePreset(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "track.kind")
	assert.Contains(t, err.Error(), "hologram")
}

func TestCompilePresetMissingTrackName(t *testing.T) {
	v := compileFixture(t, `
		template: bad: {
			track: [{kind: "video"}]
		}
	`, "template.bad")

	_, err := CompilePreset(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "track.name")
	assert.Contains(t, err.Error(), "required")
}

func TestCompilePresetUnknownOverlapPolicy(t *testing.T) {
	v := compileFixture(t, `
		template: bad: {
			track: [{name: "Clips", kind: "video", rules: {overlap: "merge"}}]
		}
	`, "template.bad")

	_, err := CompilePreset(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlap")
	assert.Contains(t, err.Error(), "merge")
}

func TestCompilePresetRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings string
		want     string
	}{
		{"zero fps", `{fps: 0}`, "fps"},
		{"negative duration", `{duration: -5}`, "duration"},
		{"bad background", `{background: "red"}`, "background"},
		{"zero width", `{width: 0}`, "dimensions"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := compileFixture(t, `
				template: bad: {
					settings: `+tc.settings+`
				}
			`, "template.bad")

			_, err := CompilePreset(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestCompilePresetSpeakerColorRequired(t *testing.T) {
	v := compileFixture(t, `
		template: bad: {
			speaker: [{name: "Narrator"}]
		}
	`, "template.bad")

	_, err := CompilePreset(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "speaker.color")
}

func TestCompilePresetRejectsBadSpeakerColor(t *testing.T) {
	v := compileFixture(t, `
		template: bad: {
			speaker: [{name: "Narrator", color: "blue"}]
		}
	`, "template.bad")

	_, err := CompilePreset(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "speaker.color")
	assert.Contains(t, err.Error(), "blue")
}

func TestCompileErrorCarriesPosition(t *testing.T) {
	v := compileFixture(t, `
		template: bad: {
			track: [{name: "Weird", kind: "hologram"}]
		}
	`, "template.bad")

	_, err := CompilePreset(v)
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "track.kind", compileErr.Field)
	assert.NotEmpty(t, compileErr.Message)
}
