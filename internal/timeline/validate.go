package timeline

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Accepted numeric ranges for user-settable parameters.
//
//	volume  [0, 2]
//	opacity [0, 1]
//	speed   (0, 4]
//	pitch   [-1, 1]
//	rate    (0, 4]
const (
	MaxVolume = 2.0
	MaxSpeed  = 4.0
	MaxRate   = 4.0
)

func rangeError(field string, value float64, bounds string) *Error {
	return NewValidationError(ErrCodeValueOutOfRange,
		fmt.Sprintf("%s must be in %s", field, bounds),
		map[string]string{
			"field": field,
			"value": formatFloat(value),
		})
}

// ValidateVolume checks a gain multiplier against [0, 2].
func ValidateVolume(v float64) error {
	if v < 0 || v > MaxVolume {
		return rangeError("volume", v, "[0, 2]")
	}
	return nil
}

// ValidateOpacity checks an opacity against [0, 1].
func ValidateOpacity(v float64) error {
	if v < 0 || v > 1 {
		return rangeError("opacity", v, "[0, 1]")
	}
	return nil
}

// ValidateSpeed checks a playback rate against (0, 4].
func ValidateSpeed(v float64) error {
	if v <= 0 || v > MaxSpeed {
		return rangeError("speed", v, "(0, 4]")
	}
	return nil
}

// ValidatePitch checks a normalized pitch offset against [-1, 1].
func ValidatePitch(v float64) error {
	if v < -1 || v > 1 {
		return rangeError("pitch", v, "[-1, 1]")
	}
	return nil
}

// ValidateRate checks a speech rate against (0, 4].
func ValidateRate(v float64) error {
	if v <= 0 || v > MaxRate {
		return rangeError("rate", v, "(0, 4]")
	}
	return nil
}

// ValidateName checks entity name length (at most MaxClipNameLen runes).
func ValidateName(name string) error {
	if n := utf8.RuneCountInString(name); n > MaxClipNameLen {
		return NewValidationError(ErrCodeNameTooLong,
			fmt.Sprintf("name exceeds %d characters", MaxClipNameLen),
			map[string]string{
				"length": fmt.Sprintf("%d", n),
			})
	}
	return nil
}

// NormalizeColor validates a 6-hex-digit RGB color and returns it in
// canonical lowercase form without the "#" prefix. A leading "#" on
// input is accepted and stripped.
func NormalizeColor(color string) (string, error) {
	c := strings.TrimPrefix(color, "#")
	if len(c) != 6 {
		return "", NewValidationError(ErrCodeInvalidColor, "color must be 6 hex digits", map[string]string{
			"color": color,
		})
	}
	for _, r := range c {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return "", NewValidationError(ErrCodeInvalidColor, "color must be 6 hex digits", map[string]string{
				"color": color,
			})
		}
	}
	return strings.ToLower(c), nil
}

// ValidateParams checks every bounded field of a parameter set.
func ValidateParams(p Params) error {
	if err := ValidateOpacity(p.Transform.Opacity); err != nil {
		return err
	}
	if err := ValidateVolume(p.Audio.Volume); err != nil {
		return err
	}
	if err := ValidatePitch(p.Audio.Pitch); err != nil {
		return err
	}
	if err := ValidateSpeed(p.Audio.Speed); err != nil {
		return err
	}
	if p.Text != nil && p.Text.Color != "" {
		if _, err := NormalizeColor(p.Text.Color); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVoice checks every bounded field of a voice profile.
func ValidateVoice(v VoiceProfile) error {
	if err := ValidatePitch(v.Pitch); err != nil {
		return err
	}
	if err := ValidateRate(v.Rate); err != nil {
		return err
	}
	return ValidateVolume(v.Volume)
}
