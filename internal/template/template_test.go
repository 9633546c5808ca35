package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elloloop/auteur.one/internal/testutil"
	"github.com/elloloop/auteur.one/internal/timeline"
)

func TestBuiltinCatalog(t *testing.T) {
	catalog, err := Builtin()
	require.NoError(t, err)

	assert.Equal(t, []string{"basic", "blank", "dialogue", "podcast"}, catalog.Names())

	preset, err := catalog.Get("dialogue")
	require.NoError(t, err)
	assert.Equal(t, "dialogue", preset.Name)
	require.Len(t, preset.Tracks, 5)
	assert.Equal(t, timeline.TrackDialogue, preset.Tracks[3].Kind)
	require.NotNil(t, preset.Tracks[3].Rules)
	assert.Equal(t, timeline.OverlapDisallow, preset.Tracks[3].Rules.Overlap)
	assert.True(t, preset.Tracks[3].Rules.Ripple)
	assert.Len(t, preset.Speakers, 2)

	blank, err := catalog.Get("blank")
	require.NoError(t, err)
	assert.Empty(t, blank.Tracks)
	assert.Empty(t, blank.Speakers)
	assert.Equal(t, 1920, blank.Settings.Width)
}

func TestCatalogGetUnknown(t *testing.T) {
	catalog, err := Builtin()
	require.NoError(t, err)

	_, err = catalog.Get("nonexistent")
	require.Error(t, err)
	assert.True(t, timeline.IsNotFound(err))
}

func TestApplyBuildsProject(t *testing.T) {
	catalog, err := Builtin()
	require.NoError(t, err)
	preset, err := catalog.Get("dialogue")
	require.NoError(t, err)

	p, err := Apply(preset, "My Film", testutil.NewSequentialIDs("id"))
	require.NoError(t, err)

	assert.Equal(t, "My Film", p.Name)
	assert.Equal(t, preset.Settings, p.Settings)

	tracks := p.Tracks()
	require.Len(t, tracks, 5)
	assert.Equal(t, "Video", tracks[0].Name)
	assert.Equal(t, "Music", tracks[4].Name)
	for i, track := range tracks {
		assert.Equal(t, i, track.Order)
	}

	dialogue := tracks[3]
	require.NotNil(t, dialogue.Rules)
	assert.Equal(t, timeline.OverlapDisallow, dialogue.Rules.Overlap)
	assert.NotSame(t, preset.Tracks[3].Rules, dialogue.Rules)

	speakers := p.Speakers()
	require.Len(t, speakers, 2)
	assert.Equal(t, "Speaker 1", speakers[0].Name)
	assert.Equal(t, "4ecdc4", speakers[0].Color)
}

func TestApplyBlankPreset(t *testing.T) {
	catalog, err := Builtin()
	require.NoError(t, err)
	blank, err := catalog.Get("blank")
	require.NoError(t, err)

	p, err := Apply(blank, "Empty", testutil.NewSequentialIDs("id"))
	require.NoError(t, err)

	assert.Empty(t, p.Tracks())
	assert.Empty(t, p.Speakers())
	assert.Equal(t, 0.0, p.Duration())
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	src := `
package studio

template: {
	interview: {
		description: "Two speaker interview"
		settings: {
			width:      1280
			height:     720
			fps:        25
			background: "222222"
		}
		track: [
			{name: "Dialogue", kind: "dialogue", rules: {overlap: "disallow"}},
			{name: "Music", kind: "audio"},
		]
		speaker: [
			{name: "Interviewer", color: "AA00FF"},
		]
	}
	broken: {
		track: [{name: "Weird", kind: "hologram"}]
	}
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "studio.cue"), []byte(src), 0o644))

	catalog, errs := Load(dir)
	require.NotNil(t, catalog)

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "hologram")

	assert.Equal(t, 1, catalog.Len())
	preset, err := catalog.Get("interview")
	require.NoError(t, err)
	assert.Equal(t, 25.0, preset.Settings.FPS)
	require.Len(t, preset.Tracks, 2)
}

func TestLoadMissingDirectory(t *testing.T) {
	catalog, errs := Load(filepath.Join(t.TempDir(), "nope"))
	assert.Nil(t, catalog)
	require.Len(t, errs, 1)
	assert.Equal(t, timeline.ErrCodeFileRead, timeline.CodeOf(errs[0]))
}

func TestLoadEmptyDirectory(t *testing.T) {
	catalog, errs := Load(t.TempDir())
	assert.Nil(t, catalog)
	require.Len(t, errs, 1)
	assert.Equal(t, timeline.ErrCodeUnsupportedFile, timeline.CodeOf(errs[0]))
}
