package timeline

// UnknownSpeakerName is the presentation fallback used when a clip's
// speaker reference does not resolve.
const UnknownSpeakerName = "unknown speaker"

// VoiceProfile configures synthesized speech for a speaker.
type VoiceProfile struct {
	// Pitch is a normalized offset in [-1, 1]. 0 is the voice default.
	Pitch float64 `json:"pitch" yaml:"pitch"`

	// Rate is the speech rate multiplier in (0, 4].
	Rate float64 `json:"rate" yaml:"rate"`

	// Volume is the synthesis gain in [0, 2].
	Volume float64 `json:"volume" yaml:"volume"`
}

// DefaultVoiceProfile returns the neutral synthesis settings.
func DefaultVoiceProfile() VoiceProfile {
	return VoiceProfile{Pitch: 0, Rate: 1, Volume: 1}
}

// Speaker identifies a voice in dialogue tracks.
//
// Clips reference speakers weakly by ID. Deleting a speaker leaves those
// references dangling; consumers resolve them to UnknownSpeakerName.
type Speaker struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	// Color is a 6-hex-digit RGB value without the "#" prefix, used to
	// tint the speaker's clips and labels.
	Color string `json:"color" yaml:"color"`

	// Voice is the optional synthesis profile.
	Voice *VoiceProfile `json:"voice,omitempty" yaml:"voice,omitempty"`
}

// ResolveSpeakerName finds the display name for a clip's speaker
// reference. Empty or dangling references resolve to ok=false.
func ResolveSpeakerName(speakerID string, speakers []Speaker) (name string, ok bool) {
	if speakerID == "" {
		return "", false
	}
	for i := range speakers {
		if speakers[i].ID == speakerID {
			return speakers[i].Name, true
		}
	}
	return "", false
}
