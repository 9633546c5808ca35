package timeline

// Transform holds the spatial placement shared by every visual clip kind.
type Transform struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	ScaleX float64 `json:"scale_x" yaml:"scale_x"`
	ScaleY float64 `json:"scale_y" yaml:"scale_y"`

	// Opacity is in [0, 1]. 1 is fully opaque.
	Opacity float64 `json:"opacity" yaml:"opacity"`
}

// AudioParams holds the audible properties of a clip.
type AudioParams struct {
	// Volume is the clip gain multiplier in [0, 2].
	Volume float64 `json:"volume" yaml:"volume"`

	// Pitch is a normalized pitch offset in [-1, 1]. 0 is unshifted.
	Pitch float64 `json:"pitch" yaml:"pitch"`

	// Speed is the playback rate multiplier in (0, 4].
	Speed float64 `json:"speed" yaml:"speed"`
}

// TextStyle holds presentation properties for text clips.
type TextStyle struct {
	// Size is the font size in project pixels.
	Size float64 `json:"size" yaml:"size"`

	// Color is a 6-hex-digit RGB value without the "#" prefix.
	Color string `json:"color" yaml:"color"`
}

// MediaRef points at the source material backing a media clip.
type MediaRef struct {
	// URI locates the source: a file path, http(s) URL, or blob reference.
	URI string `json:"uri" yaml:"uri"`

	// MIME is the detected content type of the source, when known.
	MIME string `json:"mime,omitempty" yaml:"mime,omitempty"`
}

// Params is the per-clip parameter set. It is a closed union over the
// clip kinds: Transform and Audio are shared sub-structs, Text and Media
// are populated only for the kinds that use them. Interpretation is
// driven by the owning clip's Kind, so an audio clip simply never reads
// its Transform.
type Params struct {
	Transform Transform   `json:"transform" yaml:"transform"`
	Audio     AudioParams `json:"audio" yaml:"audio"`

	// Text is meaningful for text and dialogue clips.
	Text *TextStyle `json:"text,omitempty" yaml:"text,omitempty"`

	// Media is meaningful for video, picture, and audio clips.
	Media *MediaRef `json:"media,omitempty" yaml:"media,omitempty"`
}

// DefaultParams returns the neutral parameter set: unit scale, full
// opacity, unit gain, unshifted pitch, unit speed.
func DefaultParams() Params {
	return Params{
		Transform: Transform{ScaleX: 1, ScaleY: 1, Opacity: 1},
		Audio:     AudioParams{Volume: 1, Speed: 1},
	}
}

// DefaultTextStyle returns the fallback style for text rendering.
func DefaultTextStyle() TextStyle {
	return TextStyle{Size: 48, Color: "ffffff"}
}

// Clone returns a deep copy of the params.
func (p Params) Clone() Params {
	out := p
	if p.Text != nil {
		t := *p.Text
		out.Text = &t
	}
	if p.Media != nil {
		m := *p.Media
		out.Media = &m
	}
	return out
}
