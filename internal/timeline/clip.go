package timeline

// ClipKind categorizes a clip for rendering and audio dispatch.
//
// Clip kind is stored on the clip itself, independent of the owning
// track's kind. Rendering dispatches on clip kind.
type ClipKind string

const (
	ClipVideo    ClipKind = "video"
	ClipAudio    ClipKind = "audio"
	ClipPicture  ClipKind = "picture"
	ClipDialogue ClipKind = "dialogue"
	ClipText     ClipKind = "text"
)

// ValidClipKind reports whether k is one of the defined clip kinds.
func ValidClipKind(k ClipKind) bool {
	switch k {
	case ClipVideo, ClipAudio, ClipPicture, ClipDialogue, ClipText:
		return true
	}
	return false
}

// MaxClipNameLen is the longest accepted clip name, in runes.
const MaxClipNameLen = 100

// MinClipDuration is the shortest clip duration reachable through
// interactive resizing, in seconds.
const MinClipDuration = 0.5

// Clip is a placed interval of content on a track.
//
// The occupied interval is half-open: [Start, Start+Duration). Two clips
// whose intervals merely touch at an endpoint do not overlap.
type Clip struct {
	ID      string   `json:"id" yaml:"id"`
	TrackID string   `json:"track_id" yaml:"track_id"`
	Kind    ClipKind `json:"kind" yaml:"kind"`
	Name    string   `json:"name" yaml:"name"`

	// Start is the timeline position in seconds, never negative.
	Start float64 `json:"start" yaml:"start"`

	// Duration is the interval length in seconds, always positive.
	Duration float64 `json:"duration" yaml:"duration"`

	Params Params `json:"params" yaml:"params"`

	// Dialogue-only fields. Zero-valued for other kinds.

	// SpeakerID is a weak reference to a Speaker. It may dangle after
	// speaker deletion; consumers treat an unresolvable ID as no speaker.
	SpeakerID string `json:"speaker_id,omitempty" yaml:"speaker_id,omitempty"`

	// Content is the dialogue text.
	Content string `json:"content,omitempty" yaml:"content,omitempty"`

	// Takes are the recorded or imported renditions of Content, in
	// capture order. Owned exclusively by this clip.
	Takes []Take `json:"takes,omitempty" yaml:"takes,omitempty"`

	// ActiveTakeID selects which take plays back. Empty means none.
	// When non-empty it always references an element of Takes.
	ActiveTakeID string `json:"active_take_id,omitempty" yaml:"active_take_id,omitempty"`

	// TextHash is the content version hash captured when the active
	// take was produced. Compared against the current Content hash to
	// detect stale audio.
	TextHash string `json:"text_hash,omitempty" yaml:"text_hash,omitempty"`
}

// End returns the exclusive end of the clip's interval in seconds.
func (c *Clip) End() float64 {
	return c.Start + c.Duration
}

// Contains reports whether t falls inside the clip's half-open interval.
func (c *Clip) Contains(t float64) bool {
	return t >= c.Start && t < c.End()
}

// LocalTime converts a timeline position to clip-local time, scaled by
// the clip's playback speed. Callers must ensure Contains(t) first.
func (c *Clip) LocalTime(t float64) float64 {
	speed := c.Params.Audio.Speed
	if speed <= 0 {
		speed = 1
	}
	return (t - c.Start) * speed
}

// ActiveTake returns the take referenced by ActiveTakeID, or nil when
// no take is active.
func (c *Clip) ActiveTake() *Take {
	if c.ActiveTakeID == "" {
		return nil
	}
	for i := range c.Takes {
		if c.Takes[i].ID == c.ActiveTakeID {
			return &c.Takes[i]
		}
	}
	return nil
}

// TakeByID returns the owned take with the given ID, or nil.
func (c *Clip) TakeByID(id string) *Take {
	for i := range c.Takes {
		if c.Takes[i].ID == id {
			return &c.Takes[i]
		}
	}
	return nil
}

// Stale reports whether the dialogue content changed since the active
// take was captured. Clips without an active take are never stale.
func (c *Clip) Stale() bool {
	if c.ActiveTakeID == "" || c.TextHash == "" {
		return false
	}
	return c.TextHash != TextVersionHash(c.Content)
}

// HasAudio reports whether the clip contributes to the audio mix.
// Dialogue clips contribute only once a take is active.
func (c *Clip) HasAudio() bool {
	switch c.Kind {
	case ClipAudio:
		return true
	case ClipDialogue:
		return c.ActiveTakeID != ""
	}
	return false
}

// Clone returns a deep copy of the clip, including owned takes.
func (c *Clip) Clone() *Clip {
	out := *c
	out.Params = c.Params.Clone()
	if c.Takes != nil {
		out.Takes = make([]Take, len(c.Takes))
		for i := range c.Takes {
			out.Takes[i] = c.Takes[i].Clone()
		}
	}
	return &out
}
