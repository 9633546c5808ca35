package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elloloop/auteur.one/internal/project"
	"github.com/elloloop/auteur.one/internal/testutil"
	"github.com/elloloop/auteur.one/internal/timeline"
)

func demoProject(t *testing.T) *project.Project {
	t.Helper()

	settings := project.Settings{Width: 1280, Height: 720, FPS: 30, Duration: 10, Background: "101014"}
	p := project.New("Demo", settings, testutil.NewSequentialIDs("id"))

	video, err := p.AddTrack("Main", timeline.TrackVideo)
	require.NoError(t, err)
	words, err := p.AddTrack("Words", timeline.TrackDialogue)
	require.NoError(t, err)
	words.Rules = &timeline.PlacementRules{Overlap: timeline.OverlapDisallow, Ripple: true}

	speaker, err := p.AddSpeaker("Alice", "4ECDC4")
	require.NoError(t, err)

	clipParams := timeline.DefaultParams()
	clipParams.Media = &timeline.MediaRef{URI: "media/intro.mp4", MIME: "video/mp4"}
	_, err = p.AddClip(video.ID, timeline.ClipVideo, "Intro", 0, 4, clipParams)
	require.NoError(t, err)

	line, err := p.AddClip(words.ID, timeline.ClipDialogue, "Line", 1, 2, timeline.DefaultParams())
	require.NoError(t, err)
	require.NoError(t, p.SetClipContent(line.ID, "Hello there"))
	require.NoError(t, p.SetClipSpeaker(line.ID, speaker.ID))

	take, err := p.AddTake(line.ID, timeline.Take{
		Source:    timeline.TakeUpload,
		URI:       "takes/line1.webm",
		Duration:  2.5,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, p.SetActiveTake(line.ID, take.ID))

	return p
}

func TestRoundTrip(t *testing.T) {
	p := demoProject(t)

	data, err := Marshal(p)
	require.NoError(t, err)

	loaded, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, p.ID, loaded.ID)
	assert.Equal(t, "Demo", loaded.Name)
	assert.Equal(t, p.Settings, loaded.Settings)
	assert.Equal(t, p.Stats(), loaded.Stats())

	tracks := loaded.Tracks()
	require.Len(t, tracks, 2)
	assert.Equal(t, "Words", tracks[1].Name)
	require.NotNil(t, tracks[1].Rules)
	assert.Equal(t, timeline.OverlapDisallow, tracks[1].Rules.Overlap)
	assert.True(t, tracks[1].Rules.Ripple)

	clips := loaded.Clips()
	require.Len(t, clips, 2)
	line := clips[1]
	assert.Equal(t, "Hello there", line.Content)
	assert.NotEmpty(t, line.SpeakerID)
	require.Len(t, line.Takes, 1)
	assert.Equal(t, "takes/line1.webm", line.Takes[0].URI)
	assert.Equal(t, line.Takes[0].ID, line.ActiveTakeID)
	assert.Equal(t, 2.5, line.Duration, "activation resized the clip")

	// A second marshal of the reloaded project reproduces the bytes.
	again, err := Marshal(loaded)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestRoundTripEmptyProject(t *testing.T) {
	p := project.New("Empty", project.DefaultSettings(), testutil.NewSequentialIDs("id"))

	data, err := Marshal(p)
	require.NoError(t, err)

	loaded, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, project.Stats{}, loaded.Stats())
	assert.Equal(t, "Empty", loaded.Name)
}

func TestSaveAndLoad(t *testing.T) {
	p := demoProject(t)
	path := filepath.Join(t.TempDir(), "demo.yaml")

	require.NoError(t, Save(p, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "version: 1\n"))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, p.Stats(), loaded.Stats())
}

func TestFromProjectDropsBlobTakes(t *testing.T) {
	p := demoProject(t)
	line := p.Clips()[1]

	blob, err := p.AddTake(line.ID, timeline.Take{
		Source:   timeline.TakeRecording,
		Data:     []byte("opus bytes"),
		Duration: 1.5,
	})
	require.NoError(t, err)
	require.NoError(t, p.SetActiveTake(line.ID, blob.ID))

	doc := FromProject(p)

	saved := doc.Clips[1]
	require.Len(t, saved.Takes, 1)
	assert.Equal(t, "takes/line1.webm", saved.Takes[0].URI)
	assert.Empty(t, saved.ActiveTakeID, "active selection pointed at the dropped blob")

	// The live project keeps the blob take untouched.
	require.Len(t, line.Takes, 2)
	assert.Equal(t, blob.ID, line.ActiveTakeID)

	// The filtered document still parses and validates.
	data, err := Marshal(p)
	require.NoError(t, err)
	_, err = Parse(data)
	require.NoError(t, err)
}

func TestParseHandwrittenDocument(t *testing.T) {
	src := `
version: 1
name: Scripted
settings:
  width: 640
  height: 360
  fps: 24
  duration: 8
  background: "000000"
tracks:
  - id: t1
    name: Picture
    kind: picture
    order: 0
  - id: t2
    name: Dialogue
    kind: dialogue
    order: 1
    mute: true
    rules:
      overlap: disallow
clips:
  - id: c1
    track_id: t2
    kind: dialogue
    name: Opening
    start: 0.5
    duration: 3
    content: Good evening
    params:
      transform:
        scale_x: 1
        scale_y: 1
        opacity: 1
      audio:
        volume: 1
        speed: 1
    takes:
      - id: take1
        source: tts
        uri: takes/opening.mp3
        duration: 3
        created_at: 2026-02-01T09:00:00Z
    active_take_id: take1
`
	p, err := Parse([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, "Scripted", p.Name)
	assert.Equal(t, 24.0, p.Settings.FPS)

	tracks := p.Tracks()
	require.Len(t, tracks, 2)
	assert.True(t, tracks[1].Mute)

	clip, err := p.ClipByID("c1")
	require.NoError(t, err)
	assert.Equal(t, "Good evening", clip.Content)
	assert.Equal(t, "take1", clip.ActiveTakeID)
	require.Len(t, clip.Takes, 1)
	assert.Equal(t, timeline.TakeTTS, clip.Takes[0].Source)
}

func TestParseRejectsUnknownField(t *testing.T) {
	src := `
version: 1
name: Bad
settings: {width: 640, height: 360, fps: 24, duration: 0, background: "000000"}
render_farm: true
`
	_, err := Parse([]byte(src))
	require.Error(t, err)
	assert.Equal(t, timeline.ErrCodeUnsupportedFile, timeline.CodeOf(err))
}

func TestParseRejectsNewerVersion(t *testing.T) {
	src := `
version: 99
name: Future
settings: {width: 640, height: 360, fps: 24, duration: 0, background: "000000"}
`
	_, err := Parse([]byte(src))
	require.Error(t, err)
	assert.Equal(t, timeline.ErrCodeUnsupportedFile, timeline.CodeOf(err))
	assert.Contains(t, err.Error(), "version")
}

func TestParseValidatesAggregate(t *testing.T) {
	src := `
version: 1
name: Dangling
settings: {width: 640, height: 360, fps: 24, duration: 0, background: "000000"}
clips:
  - id: c1
    track_id: missing
    kind: video
    name: Orphan
    start: 0
    duration: 2
    params:
      transform: {scale_x: 1, scale_y: 1, opacity: 1}
      audio: {volume: 1, speed: 1}
`
	_, err := Parse([]byte(src))
	require.Error(t, err)
	assert.Equal(t, timeline.ErrCodeNotFound, timeline.CodeOf(err))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, timeline.ErrCodeFileRead, timeline.CodeOf(err))
}
