package timeline

// TrackKind categorizes what a track carries.
type TrackKind string

const (
	TrackVideo    TrackKind = "video"
	TrackAudio    TrackKind = "audio"
	TrackPicture  TrackKind = "picture"
	TrackDialogue TrackKind = "dialogue"
	TrackText     TrackKind = "text"
)

// ValidTrackKind reports whether k is one of the defined track kinds.
func ValidTrackKind(k TrackKind) bool {
	switch k {
	case TrackVideo, TrackAudio, TrackPicture, TrackDialogue, TrackText:
		return true
	}
	return false
}

// OverlapPolicy controls how clip placement conflicts on a track are treated.
type OverlapPolicy string

const (
	// OverlapAllow permits clips to occupy intersecting intervals.
	OverlapAllow OverlapPolicy = "allow"

	// OverlapDisallow rejects any placement that would intersect another clip.
	OverlapDisallow OverlapPolicy = "disallow"

	// OverlapPush and OverlapTrim are recognized and stored but their
	// resolution strategies are not implemented. Placement on tracks
	// carrying them behaves as OverlapDisallow.
	OverlapPush OverlapPolicy = "push"
	OverlapTrim OverlapPolicy = "trim"
)

// ValidOverlapPolicy reports whether p is a recognized policy value.
func ValidOverlapPolicy(p OverlapPolicy) bool {
	switch p {
	case OverlapAllow, OverlapDisallow, OverlapPush, OverlapTrim:
		return true
	}
	return false
}

// PlacementRules configures placement behavior for a single track.
type PlacementRules struct {
	// Overlap selects the conflict policy for clip intervals on this track.
	Overlap OverlapPolicy `json:"overlap" yaml:"overlap"`

	// DefaultGapMs is the preferred spacing inserted between clips by
	// assisted placement, in milliseconds.
	DefaultGapMs int `json:"default_gap_ms" yaml:"default_gap_ms,omitempty"`

	// Snap enables edge snapping during drags.
	Snap bool `json:"snap" yaml:"snap,omitempty"`

	// Ripple opts this track into ripple shifting after edits.
	Ripple bool `json:"ripple" yaml:"ripple,omitempty"`
}

// Track is an ordered lane of clips.
//
// Order is the z-order used by the compositor: lower values are drawn
// first (further back). Order values are unique within a project; ties
// never occur after validated mutations, but compositing breaks any tie
// by insertion order for safety.
type Track struct {
	ID    string    `json:"id" yaml:"id"`
	Name  string    `json:"name" yaml:"name"`
	Kind  TrackKind `json:"kind" yaml:"kind"`
	Order int       `json:"order" yaml:"order"`

	// Mute silences the track's audio and hides it from compositing.
	Mute bool `json:"mute" yaml:"mute,omitempty"`

	// Volume is the track-level gain multiplier in [0, 2].
	// Nil means unset and is treated as 1.0.
	Volume *float64 `json:"volume,omitempty" yaml:"volume,omitempty"`

	// Rules holds per-track placement configuration. Nil means no
	// constraints (overlap permitted).
	Rules *PlacementRules `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// EffectiveVolume returns the track gain, defaulting to 1.0 when unset.
func (t *Track) EffectiveVolume() float64 {
	if t.Volume == nil {
		return 1.0
	}
	return *t.Volume
}

// OverlapRule returns the track's overlap policy, defaulting to
// OverlapAllow when no rules are configured.
func (t *Track) OverlapRule() OverlapPolicy {
	if t.Rules == nil || t.Rules.Overlap == "" {
		return OverlapAllow
	}
	return t.Rules.Overlap
}
