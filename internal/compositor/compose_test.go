package compositor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elloloop/auteur.one/internal/timeline"
)

func testScene() Scene {
	video := &timeline.Track{ID: "t-video", Kind: timeline.TrackVideo, Order: 0}
	overlay := &timeline.Track{ID: "t-text", Kind: timeline.TrackText, Order: 1}

	params := timeline.DefaultParams()
	params.Media = &timeline.MediaRef{URI: "media/main.mp4"}

	textParams := timeline.DefaultParams()
	textParams.Transform.X = 16
	textParams.Transform.Y = 20
	textParams.Text = &timeline.TextStyle{Size: 32, Color: "ffcc00"}

	return Scene{
		Width:      320,
		Height:     180,
		Background: "101010",
		Tracks:     []*timeline.Track{video, overlay},
		Clips: []*timeline.Clip{
			{ID: "c-video", TrackID: "t-video", Kind: timeline.ClipVideo, Name: "main", Start: 0, Duration: 10, Params: params},
			{ID: "c-title", TrackID: "t-text", Kind: timeline.ClipText, Name: "title", Start: 2, Duration: 4, Content: "Chapter One", Params: textParams},
		},
	}
}

func TestComposeIsPure(t *testing.T) {
	r := NewRegistry()
	scene := testScene()

	first := r.Compose(3, scene)
	second := r.Compose(3, scene)

	assert.True(t, first.Equal(second), "identical inputs must produce identical lists")

	a, err := first.MarshalIndentJSON()
	require.NoError(t, err)
	b, err := second.MarshalIndentJSON()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestComposeStartsWithClear(t *testing.T) {
	r := NewRegistry()
	list := r.Compose(0, Scene{Width: 64, Height: 64, Background: "224466"})

	require.Equal(t, 1, list.Len())
	clear, ok := list.Ops[0].(ClearOp)
	require.True(t, ok)
	assert.Equal(t, "224466", clear.Color)
}

func TestComposeDefaultsBackgroundToBlack(t *testing.T) {
	r := NewRegistry()
	list := r.Compose(0, Scene{Width: 64, Height: 64})

	clear := list.Ops[0].(ClearOp)
	assert.Equal(t, "000000", clear.Color)
}

func TestComposeRespectsClipIntervals(t *testing.T) {
	r := NewRegistry()
	scene := testScene()

	// At t=1 only the video clip is active.
	list := r.Compose(1, scene)
	require.Equal(t, 2, list.Len())
	_, ok := list.Ops[1].(ImageOp)
	assert.True(t, ok)

	// At t=3 the title is active too.
	list = r.Compose(3, scene)
	require.Equal(t, 3, list.Len())
	text, ok := list.Ops[2].(TextOp)
	require.True(t, ok)
	assert.Equal(t, "Chapter One", text.Text)

	// The title interval is half-open: gone at its end.
	list = r.Compose(6, scene)
	assert.Equal(t, 2, list.Len())
}

func TestComposeSkipsMutedTracks(t *testing.T) {
	r := NewRegistry()
	scene := testScene()
	scene.Tracks[0].Mute = true

	list := r.Compose(3, scene)

	require.Equal(t, 2, list.Len(), "muted track contributes nothing")
	_, ok := list.Ops[1].(TextOp)
	assert.True(t, ok)
}

func TestComposeOrdersTracksByZOrder(t *testing.T) {
	r := NewRegistry()
	scene := testScene()
	// Swap z-orders: title behind video.
	scene.Tracks[0].Order = 5
	scene.Tracks[1].Order = 2

	list := r.Compose(3, scene)

	require.Equal(t, 3, list.Len())
	_, textFirst := list.Ops[1].(TextOp)
	_, imageSecond := list.Ops[2].(ImageOp)
	assert.True(t, textFirst, "lower order draws first")
	assert.True(t, imageSecond)
}

func TestComposeSkipsUnregisteredKinds(t *testing.T) {
	r := &Registry{renderers: map[timeline.ClipKind]Renderer{}}
	scene := testScene()

	list := r.Compose(3, scene)

	assert.Equal(t, 1, list.Len(), "no renderer, no ops, no failure")
}

func TestComposeAppliesSpeedToSourceTime(t *testing.T) {
	r := NewRegistry()
	scene := testScene()
	scene.Clips[0].Params.Audio.Speed = 2

	list := r.Compose(3, scene)

	img := list.Ops[1].(ImageOp)
	assert.Equal(t, 6.0, img.SourceTime, "speed scales the sampled source position")
}

func TestVideoRendererWithoutMediaDrawsPlaceholder(t *testing.T) {
	r := NewRegistry()
	scene := testScene()
	scene.Clips[0].Params.Media = nil

	list := r.Compose(1, scene)

	_, ok := list.Ops[1].(RectOp)
	assert.True(t, ok)
}

func TestDialogueRendererResolvesSpeaker(t *testing.T) {
	ctx := RenderContext{
		Width:  320,
		Height: 180,
		Speakers: []timeline.Speaker{
			{ID: "s1", Name: "Alice", Color: "ff0000"},
		},
	}
	clip := &timeline.Clip{
		Kind:      timeline.ClipDialogue,
		SpeakerID: "s1",
		Content:   "Hi there.",
		Params:    timeline.DefaultParams(),
	}

	ops := DialogueRenderer{}.Render(ctx, clip)

	require.Len(t, ops, 2, "label plus caption")
	label := ops[0].(TextOp)
	caption := ops[1].(TextOp)
	assert.Equal(t, "Alice", label.Text)
	assert.Equal(t, "ff0000", label.Color)
	assert.Equal(t, "Hi there.", caption.Text)
}

func TestDialogueRendererUnknownSpeakerFallback(t *testing.T) {
	ctx := RenderContext{Width: 320, Height: 180}
	clip := &timeline.Clip{
		Kind:      timeline.ClipDialogue,
		SpeakerID: "deleted-speaker",
		Content:   "Who said that?",
		Params:    timeline.DefaultParams(),
	}

	ops := DialogueRenderer{}.Render(ctx, clip)

	require.Len(t, ops, 2)
	label := ops[0].(TextOp)
	assert.Equal(t, timeline.UnknownSpeakerName, label.Text)
}

func TestDialogueRendererEmptyContentDrawsNothing(t *testing.T) {
	ops := DialogueRenderer{}.Render(RenderContext{Width: 320, Height: 180}, &timeline.Clip{
		Kind:   timeline.ClipDialogue,
		Params: timeline.DefaultParams(),
	})
	assert.Empty(t, ops)
}

func TestAudioRendererIsSilent(t *testing.T) {
	ops := AudioRenderer{}.Render(RenderContext{}, &timeline.Clip{Kind: timeline.ClipAudio})
	assert.Empty(t, ops)
}

func TestRegistryCustomRenderer(t *testing.T) {
	r := NewRegistry()
	r.Register(timeline.ClipVideo, AudioRenderer{})

	scene := testScene()
	list := r.Compose(1, scene)

	assert.Equal(t, 1, list.Len(), "replacement renderer is consulted")
}
