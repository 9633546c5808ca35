package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func TestRun_PlacementFlow(t *testing.T) {
	scenario := &Scenario{
		Name:        "placement_flow",
		Description: "Add, resize, split, and remove clips on one track",
		Steps: []Step{
			{Op: OpAddTrack, Args: map[string]interface{}{"name": "Main", "kind": "video", "overlap": "disallow"}},
			{Op: OpAddClip, Args: map[string]interface{}{"track": "Main", "kind": "video", "name": "Intro", "start": 0, "duration": 4}},
			{Op: OpResizeClip, Args: map[string]interface{}{"clip": "Intro", "duration": 6}},
			{Op: OpSplitClip, Args: map[string]interface{}{"clip": "Intro", "at": 2}},
			{Op: OpRemoveClip, Args: map[string]interface{}{"clip": "Intro"}},
		},
		Assertions: []Assertion{
			{Type: AssertClipCount, Track: "Main", Count: 1},
			{Type: AssertClipAt, Clip: "Intro", Start: floatPtr(2), Duration: floatPtr(4)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.NotNil(t, result)

	// The split leaves two clips named Intro; remove_clip resolves the
	// original (left part), so the right part [2, 6) survives.
	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)

	// Two trace events per step, sequenced 1..10
	require.Len(t, result.Trace, 10)
	assert.Equal(t, "op", result.Trace[0].Type)
	assert.Equal(t, OpAddTrack, result.Trace[0].Op)
	assert.Equal(t, int64(1), result.Trace[0].Seq)
	assert.Equal(t, "outcome", result.Trace[9].Type)
	assert.Equal(t, int64(10), result.Trace[9].Seq)
	for i := 1; i < len(result.Trace); i += 2 {
		assert.Equal(t, OutcomeOK, result.Trace[i].Outcome)
	}
}

func TestRun_RejectionOutcomeMatchesExpect(t *testing.T) {
	scenario := &Scenario{
		Name:        "overlap_rejected",
		Description: "Overlapping placement is rejected on a disallow track",
		Steps: []Step{
			{Op: OpAddTrack, Args: map[string]interface{}{"name": "Main", "kind": "video", "overlap": "disallow"}},
			{Op: OpAddClip, Args: map[string]interface{}{"track": "Main", "kind": "video", "name": "First", "start": 0, "duration": 5}},
			{
				Op:     OpAddClip,
				Args:   map[string]interface{}{"track": "Main", "kind": "video", "name": "Second", "start": 3, "duration": 4},
				Expect: &ExpectClause{Error: "CLIP_OVERLAP"},
			},
		},
		Assertions: []Assertion{
			{Type: AssertClipCount, Track: "Main", Count: 1},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	// Expected rejection counts as a pass
	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Trace, 6)
	assert.Equal(t, "CLIP_OVERLAP", result.Trace[5].Outcome)
}

func TestRun_UnexpectedOutcomeFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "expected_rejection_missing",
		Description: "A step that succeeds despite an expect clause fails the scenario",
		Steps: []Step{
			{Op: OpAddTrack, Args: map[string]interface{}{"name": "Main", "kind": "video"}},
			{
				Op:     OpAddClip,
				Args:   map[string]interface{}{"track": "Main", "kind": "video", "name": "Intro", "start": 0, "duration": 5},
				Expect: &ExpectClause{Error: "CLIP_OVERLAP"},
			},
		},
		Assertions: []Assertion{
			{Type: AssertTrackCount, Count: 1},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected outcome CLIP_OVERLAP, got ok")
}

func TestRun_MissingArgAborts(t *testing.T) {
	scenario := &Scenario{
		Name:        "broken_step",
		Description: "A step missing a required arg aborts the run",
		Steps: []Step{
			{Op: OpAddClip, Args: map[string]interface{}{"kind": "video", "name": "Intro", "start": 0, "duration": 5}},
		},
		Assertions: []Assertion{
			{Type: AssertTrackCount, Count: 0},
		},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute steps")
	assert.Contains(t, err.Error(), `arg "track" is required`)
}

func TestRun_MissingEntityBecomesNotFound(t *testing.T) {
	scenario := &Scenario{
		Name:        "ghost_clip",
		Description: "Referencing a clip that does not exist reports NOT_FOUND",
		Steps: []Step{
			{
				Op:     OpMoveClip,
				Args:   map[string]interface{}{"clip": "Ghost", "start": 2},
				Expect: &ExpectClause{Error: "NOT_FOUND"},
			},
		},
		Assertions: []Assertion{
			{Type: AssertTrackCount, Count: 0},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "NOT_FOUND", result.Trace[1].Outcome)
}

func TestRun_TemplateSeedsTracksAndSpeakers(t *testing.T) {
	scenario := &Scenario{
		Name:        "dialogue_template",
		Description: "The dialogue preset seeds tracks and speakers",
		Template:    "dialogue",
		Steps: []Step{
			{Op: OpSetMute, Args: map[string]interface{}{"track": "Music", "mute": true}},
			{Op: OpAddClip, Args: map[string]interface{}{"track": "Dialogue", "kind": "dialogue", "name": "Line", "start": 0, "duration": 2}},
			{Op: OpSetSpeaker, Args: map[string]interface{}{"clip": "Line", "speaker": "Speaker 1"}},
		},
		Assertions: []Assertion{
			{Type: AssertTrackCount, Count: 5},
			{Type: AssertClipCount, Track: "Dialogue", Count: 1},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
}

func TestRun_UnknownTemplateFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_template",
		Description: "An unknown template preset fails the run",
		Template:    "matinee",
		Steps: []Step{
			{Op: OpAddTrack, Args: map[string]interface{}{"name": "Main", "kind": "video"}},
		},
		Assertions: []Assertion{
			{Type: AssertTrackCount, Count: 1},
		},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build scenario project")
}

func TestRun_MutedTrackComposesNothing(t *testing.T) {
	scenario := &Scenario{
		Name:        "muted_track",
		Description: "Clips on a muted track do not reach the display list",
		Steps: []Step{
			{Op: OpAddTrack, Args: map[string]interface{}{"name": "Main", "kind": "video"}},
			{Op: OpAddClip, Args: map[string]interface{}{"track": "Main", "kind": "video", "name": "Intro", "start": 0, "duration": 5, "uri": "media/intro.mp4", "mime": "video/mp4"}},
			{Op: OpSetMute, Args: map[string]interface{}{"track": "Main", "mute": true}},
		},
		Assertions: []Assertion{
			// Only the background clear op remains
			{Type: AssertComposeAt, Time: 2, Ops: 1},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
}

func TestRun_SpeakerAndContentFlow(t *testing.T) {
	scenario := &Scenario{
		Name:        "speaker_content",
		Description: "Dialogue clips render a speaker label and caption",
		Steps: []Step{
			{Op: OpAddTrack, Args: map[string]interface{}{"name": "Words", "kind": "dialogue"}},
			{Op: OpAddSpeaker, Args: map[string]interface{}{"name": "Narrator", "color": "4ECDC4"}},
			{Op: OpAddClip, Args: map[string]interface{}{"track": "Words", "kind": "dialogue", "name": "Line", "start": 0, "duration": 3}},
			{Op: OpSetContent, Args: map[string]interface{}{"clip": "Line", "content": "Once upon a time"}},
			{Op: OpSetSpeaker, Args: map[string]interface{}{"clip": "Line", "speaker": "Narrator"}},
		},
		Assertions: []Assertion{
			// Clear op + speaker label + caption
			{Type: AssertComposeAt, Time: 1, Ops: 3},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
}

func TestRun_VolumeValidation(t *testing.T) {
	scenario := &Scenario{
		Name:        "volume_range",
		Description: "Track gain outside [0, 2] is rejected",
		Steps: []Step{
			{Op: OpAddTrack, Args: map[string]interface{}{"name": "Music", "kind": "audio"}},
			{Op: OpSetVolume, Args: map[string]interface{}{"track": "Music", "volume": 1.5}},
			{
				Op:     OpSetVolume,
				Args:   map[string]interface{}{"track": "Music", "volume": 3},
				Expect: &ExpectClause{Error: "VALUE_OUT_OF_RANGE"},
			},
		},
		Assertions: []Assertion{
			{Type: AssertTrackCount, Count: 1},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
}

func TestRun_TakeSourceValidation(t *testing.T) {
	scenario := &Scenario{
		Name:        "take_source",
		Description: "Unknown take sources are rejected",
		Steps: []Step{
			{Op: OpAddTrack, Args: map[string]interface{}{"name": "Words", "kind": "dialogue"}},
			{Op: OpAddClip, Args: map[string]interface{}{"track": "Words", "kind": "dialogue", "name": "Line", "start": 0, "duration": 2}},
			{
				Op:     OpAddTake,
				Args:   map[string]interface{}{"clip": "Line", "uri": "takes/line.webm", "duration": 2, "source": "hologram"},
				Expect: &ExpectClause{Error: "INVALID_ENUM"},
			},
		},
		Assertions: []Assertion{
			{Type: AssertClipCount, Track: "Words", Count: 1},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
}

func TestRun_RemoveTrackCascades(t *testing.T) {
	scenario := &Scenario{
		Name:        "remove_track",
		Description: "Removing a track deletes its clips",
		Steps: []Step{
			{Op: OpAddTrack, Args: map[string]interface{}{"name": "Main", "kind": "video"}},
			{Op: OpAddClip, Args: map[string]interface{}{"track": "Main", "kind": "video", "name": "Intro", "start": 0, "duration": 5}},
			{Op: OpRemoveTrack, Args: map[string]interface{}{"track": "Main"}},
		},
		Assertions: []Assertion{
			{Type: AssertTrackCount, Count: 0},
			{Type: AssertDuration, Seconds: floatPtr(0)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
}
