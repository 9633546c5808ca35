package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// Scenarios execute a sequence of timeline operations against a fresh
// project and assert on the resulting state, trace, and composited
// output.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Template optionally names a built-in template preset used to seed
	// the project. Empty means a blank project with default settings.
	Template string `yaml:"template,omitempty"`

	// Steps contains the operations to execute, in order.
	// Each step can declare the engine error code it expects.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final project state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step represents a single timeline operation.
type Step struct {
	// Op is the operation name (e.g. "add_clip", "move_clip").
	Op string `yaml:"op"`

	// Args contains the operation arguments as a map. Entity references
	// (track, clip, speaker) use display names, resolved at execution
	// time.
	Args map[string]interface{} `yaml:"args"`

	// Expect specifies the expected outcome.
	// If nil, the operation is expected to succeed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a step.
type ExpectClause struct {
	// Error is the expected engine error code (e.g. "CLIP_OVERLAP").
	Error string `yaml:"error"`
}

// Assertion validates final project state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "track_count": Check the number of tracks in the project
	// - "clip_count": Check the number of clips on a track
	// - "clip_at": Check a clip's start and/or duration
	// - "compose_at": Check the display list length at a timeline position
	// - "active_take": Check which take a dialogue clip has active
	// - "duration": Check the project duration
	Type string `yaml:"type"`

	// Track is a track name (used by clip_count).
	Track string `yaml:"track,omitempty"`

	// Clip is a clip name (used by clip_at, active_take).
	Clip string `yaml:"clip,omitempty"`

	// Count is the expected entity count (used by track_count, clip_count).
	Count int `yaml:"count,omitempty"`

	// Start is the expected clip start in seconds (used by clip_at).
	Start *float64 `yaml:"start,omitempty"`

	// Duration is the expected clip duration in seconds (used by clip_at).
	Duration *float64 `yaml:"duration,omitempty"`

	// Time is the timeline position to composite (used by compose_at).
	Time float64 `yaml:"time,omitempty"`

	// Ops is the expected display list length, including the leading
	// clear op (used by compose_at).
	Ops int `yaml:"ops,omitempty"`

	// Take is the expected active take position, 1-based in array order
	// (used by active_take).
	Take int `yaml:"take,omitempty"`

	// URI is the expected active take URI, an alternative to Take
	// (used by active_take).
	URI string `yaml:"uri,omitempty"`

	// Seconds is the expected project duration (used by duration).
	Seconds *float64 `yaml:"seconds,omitempty"`
}

// Assertion type constants.
const (
	AssertTrackCount = "track_count"
	AssertClipCount  = "clip_count"
	AssertClipAt     = "clip_at"
	AssertComposeAt  = "compose_at"
	AssertActiveTake = "active_take"
	AssertDuration   = "duration"
)

// Operation names accepted in scenario steps.
const (
	OpAddTrack      = "add_track"
	OpRemoveTrack   = "remove_track"
	OpSetMute       = "set_mute"
	OpSetVolume     = "set_volume"
	OpReorderTrack  = "reorder_track"
	OpAddClip       = "add_clip"
	OpMoveClip      = "move_clip"
	OpResizeClip    = "resize_clip"
	OpSplitClip     = "split_clip"
	OpRemoveClip    = "remove_clip"
	OpRipple        = "ripple"
	OpAddSpeaker    = "add_speaker"
	OpSetSpeaker    = "set_speaker"
	OpSetContent    = "set_content"
	OpAddTake       = "add_take"
	OpSetActiveTake = "set_active_take"
	OpDeleteTake    = "delete_take"
)

var knownOps = map[string]bool{
	OpAddTrack:      true,
	OpRemoveTrack:   true,
	OpSetMute:       true,
	OpSetVolume:     true,
	OpReorderTrack:  true,
	OpAddClip:       true,
	OpMoveClip:      true,
	OpResizeClip:    true,
	OpSplitClip:     true,
	OpRemoveClip:    true,
	OpRipple:        true,
	OpAddSpeaker:    true,
	OpSetSpeaker:    true,
	OpSetContent:    true,
	OpAddTake:       true,
	OpSetActiveTake: true,
	OpDeleteTake:    true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Op == "" {
			return fmt.Errorf("steps[%d]: op is required", i)
		}
		if !knownOps[step.Op] {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		if step.Args == nil {
			return fmt.Errorf("steps[%d]: args is required (use empty map if no args)", i)
		}
		if step.Expect != nil && step.Expect.Error == "" {
			return fmt.Errorf("steps[%d].expect: error is required", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTrackCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for track_count", index)
		}
	case AssertClipCount:
		if a.Track == "" {
			return fmt.Errorf("assertions[%d]: track is required for clip_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for clip_count", index)
		}
	case AssertClipAt:
		if a.Clip == "" {
			return fmt.Errorf("assertions[%d]: clip is required for clip_at", index)
		}
		if a.Start == nil && a.Duration == nil {
			return fmt.Errorf("assertions[%d]: clip_at requires start or duration", index)
		}
	case AssertComposeAt:
		if a.Time < 0 {
			return fmt.Errorf("assertions[%d]: time must be non-negative for compose_at", index)
		}
		if a.Ops < 1 {
			return fmt.Errorf("assertions[%d]: ops must be at least 1 for compose_at", index)
		}
	case AssertActiveTake:
		if a.Clip == "" {
			return fmt.Errorf("assertions[%d]: clip is required for active_take", index)
		}
		if a.Take < 1 && a.URI == "" {
			return fmt.Errorf("assertions[%d]: active_take requires a take position or uri", index)
		}
	case AssertDuration:
		if a.Seconds == nil {
			return fmt.Errorf("assertions[%d]: seconds is required for duration", index)
		}
		if *a.Seconds < 0 {
			return fmt.Errorf("assertions[%d]: seconds must be non-negative for duration", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
