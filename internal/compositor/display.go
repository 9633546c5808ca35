package compositor

import (
	"bytes"
	"encoding/json"
)

// Op is a sealed interface over the draw operation types. Only ClearOp,
// RectOp, ImageOp, and TextOp implement it.
type Op interface {
	op()
	kind() string
}

// ClearOp fills the whole canvas with a color. Always the first op of
// a non-empty display list.
type ClearOp struct {
	// Color is 6 hex digits.
	Color string `json:"color"`
}

func (ClearOp) op()          {}
func (ClearOp) kind() string { return "clear" }

// RectOp fills an axis-aligned rectangle. Used for placeholder media
// and dialogue label plates.
type RectOp struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	W       float64 `json:"w"`
	H       float64 `json:"h"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

func (RectOp) op()          {}
func (RectOp) kind() string { return "rect" }

// ImageOp draws a frame of source media.
type ImageOp struct {
	// URI locates the source media.
	URI string `json:"uri"`

	// SourceTime is the position within the source to sample, in
	// seconds. Zero for still images.
	SourceTime float64 `json:"source_time"`

	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	ScaleX  float64 `json:"scale_x"`
	ScaleY  float64 `json:"scale_y"`
	Opacity float64 `json:"opacity"`
}

func (ImageOp) op()          {}
func (ImageOp) kind() string { return "image" }

// TextAnchor positions text relative to its coordinates.
type TextAnchor string

const (
	AnchorLeft   TextAnchor = "left"
	AnchorCenter TextAnchor = "center"
)

// TextOp draws a string.
type TextOp struct {
	Text    string     `json:"text"`
	X       float64    `json:"x"`
	Y       float64    `json:"y"`
	Size    float64    `json:"size"`
	Color   string     `json:"color"`
	Opacity float64    `json:"opacity"`
	Anchor  TextAnchor `json:"anchor"`
}

func (TextOp) op()          {}
func (TextOp) kind() string { return "text" }

// DisplayList is the ordered result of composing one frame. Ops are
// drawn first to last, so later ops paint over earlier ones.
type DisplayList struct {
	// Time is the timeline position this list renders, in seconds.
	Time float64

	// Width and Height are the canvas dimensions in pixels.
	Width  int
	Height int

	Ops []Op
}

// Append adds ops to the end of the list.
func (l *DisplayList) Append(ops ...Op) {
	l.Ops = append(l.Ops, ops...)
}

// Len returns the number of ops.
func (l *DisplayList) Len() int {
	return len(l.Ops)
}

type taggedOp struct {
	Type string `json:"type"`
	Op   Op     `json:"op"`
}

type displayListJSON struct {
	Time   float64    `json:"time"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Ops    []taggedOp `json:"ops"`
}

// MarshalIndentJSON serializes the list deterministically for golden
// comparison and debugging. Struct field order fixes the key order, so
// identical lists always serialize to identical bytes.
func (l *DisplayList) MarshalIndentJSON() ([]byte, error) {
	out := displayListJSON{
		Time:   l.Time,
		Width:  l.Width,
		Height: l.Height,
		Ops:    make([]taggedOp, len(l.Ops)),
	}
	for i, op := range l.Ops {
		out.Ops[i] = taggedOp{Type: op.kind(), Op: op}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Equal reports whether two lists serialize identically.
func (l *DisplayList) Equal(other *DisplayList) bool {
	a, err1 := l.MarshalIndentJSON()
	b, err2 := other.MarshalIndentJSON()
	if err1 != nil || err2 != nil {
		return false
	}
	return bytes.Equal(a, b)
}
