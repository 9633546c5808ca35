package compositor

import (
	"sort"

	"github.com/elloloop/auteur.one/internal/timeline"
)

// RenderContext carries everything a renderer may read. Renderers must
// not mutate it.
type RenderContext struct {
	// Time is the timeline position being composed, in seconds.
	Time float64

	// Local is the clip-local source time, already scaled by the
	// clip's playback speed.
	Local float64

	// Width and Height are the canvas dimensions in pixels.
	Width  int
	Height int

	// Speakers resolves dialogue speaker references.
	Speakers []timeline.Speaker
}

// Renderer produces draw ops for one clip kind.
//
// Implementations must be pure: no I/O, no clock reads, no mutation of
// the clip or context. The same inputs must yield the same ops.
type Renderer interface {
	Render(ctx RenderContext, clip *timeline.Clip) []Op
}

// Registry maps clip kinds to renderers.
type Registry struct {
	renderers map[timeline.ClipKind]Renderer
}

// NewRegistry returns a registry with the builtin renderers installed:
// video, picture, dialogue, text, and the silent audio renderer.
func NewRegistry() *Registry {
	r := &Registry{renderers: make(map[timeline.ClipKind]Renderer)}
	r.Register(timeline.ClipVideo, VideoRenderer{})
	r.Register(timeline.ClipPicture, PictureRenderer{})
	r.Register(timeline.ClipDialogue, DialogueRenderer{})
	r.Register(timeline.ClipText, TextRenderer{})
	r.Register(timeline.ClipAudio, AudioRenderer{})
	return r
}

// Register installs or replaces the renderer for a clip kind.
func (r *Registry) Register(kind timeline.ClipKind, renderer Renderer) {
	r.renderers[kind] = renderer
}

// Renderer returns the installed renderer for a kind, or nil.
func (r *Registry) Renderer(kind timeline.ClipKind) Renderer {
	return r.renderers[kind]
}

// Scene is the immutable input to composition.
type Scene struct {
	Width      int
	Height     int
	Background string
	Tracks     []*timeline.Track
	Clips      []*timeline.Clip
	Speakers   []timeline.Speaker
}

// Compose builds the display list for one timeline position.
//
// Tracks are visited in ascending z-order (ties broken by input
// position), muted tracks are skipped, and every clip whose half-open
// interval contains the time contributes ops through its kind's
// renderer. Clip kinds without a registered renderer draw nothing.
// Compose never fails; it is a total, pure function.
func (r *Registry) Compose(time float64, scene Scene) *DisplayList {
	list := &DisplayList{Time: time, Width: scene.Width, Height: scene.Height}

	background := scene.Background
	if background == "" {
		background = "000000"
	}
	list.Append(ClearOp{Color: background})

	type orderedTrack struct {
		track *timeline.Track
		pos   int
	}
	tracks := make([]orderedTrack, len(scene.Tracks))
	for i, t := range scene.Tracks {
		tracks[i] = orderedTrack{track: t, pos: i}
	}
	sort.SliceStable(tracks, func(i, j int) bool {
		if tracks[i].track.Order != tracks[j].track.Order {
			return tracks[i].track.Order < tracks[j].track.Order
		}
		return tracks[i].pos < tracks[j].pos
	})

	ctx := RenderContext{
		Time:     time,
		Width:    scene.Width,
		Height:   scene.Height,
		Speakers: scene.Speakers,
	}

	for _, ot := range tracks {
		if ot.track.Mute {
			continue
		}
		for _, clip := range clipsAt(time, ot.track.ID, scene.Clips) {
			renderer := r.renderers[clip.Kind]
			if renderer == nil {
				continue
			}
			clipCtx := ctx
			clipCtx.Local = clip.LocalTime(time)
			list.Append(renderer.Render(clipCtx, clip)...)
		}
	}

	return list
}

// clipsAt returns the track's clips containing time, sorted by start
// then ID for deterministic op order.
func clipsAt(time float64, trackID string, clips []*timeline.Clip) []*timeline.Clip {
	var out []*timeline.Clip
	for _, c := range clips {
		if c.TrackID == trackID && c.Contains(time) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].ID < out[j].ID
	})
	return out
}
