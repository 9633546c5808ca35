package timeline

import "time"

// TakeSource records how a take's audio came to exist.
type TakeSource string

const (
	TakeRecording TakeSource = "recording"
	TakeUpload    TakeSource = "upload"
	TakeTTS       TakeSource = "tts"
	TakeImport    TakeSource = "import"
)

// ValidTakeSource reports whether s is a recognized take source.
func ValidTakeSource(s TakeSource) bool {
	switch s {
	case TakeRecording, TakeUpload, TakeTTS, TakeImport:
		return true
	}
	return false
}

// Take is one audio rendition of a dialogue clip's content.
//
// Exactly one payload form is set: Data for in-memory blobs (fresh
// recordings), URI for stored media. A take with both or neither is
// invalid.
type Take struct {
	ID     string     `json:"id" yaml:"id"`
	Source TakeSource `json:"source" yaml:"source"`

	// Data is the encoded audio blob for in-memory takes.
	Data []byte `json:"-" yaml:"-"`

	// URI locates stored audio for persisted takes.
	URI string `json:"uri,omitempty" yaml:"uri,omitempty"`

	// Duration is the audible length in seconds, always positive.
	Duration float64 `json:"duration" yaml:"duration"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Peaks is an optional fixed-length waveform envelope with values
	// in [0, 1], used for rendering without re-decoding.
	Peaks []float64 `json:"peaks,omitempty" yaml:"peaks,omitempty"`
}

// Validate checks the take's payload and duration invariants.
func (t *Take) Validate() error {
	if !ValidTakeSource(t.Source) {
		return NewValidationError(ErrCodeInvalidEnum, "unknown take source", map[string]string{
			"source": string(t.Source),
		})
	}
	hasData := len(t.Data) > 0
	hasURI := t.URI != ""
	if hasData && hasURI {
		return NewValidationError(ErrCodeInvalidTake, "take carries both blob data and a URI", nil)
	}
	if !hasData && !hasURI {
		return NewValidationError(ErrCodeInvalidTake, "take carries neither blob data nor a URI", nil)
	}
	if t.Duration <= 0 {
		return NewValidationError(ErrCodeValueOutOfRange, "take duration must be positive", map[string]string{
			"duration": formatFloat(t.Duration),
		})
	}
	return nil
}

// Clone returns a deep copy of the take.
func (t Take) Clone() Take {
	out := t
	if t.Data != nil {
		out.Data = append([]byte(nil), t.Data...)
	}
	if t.Peaks != nil {
		out.Peaks = append([]float64(nil), t.Peaks...)
	}
	return out
}
