// Package harness provides scenario-driven conformance testing for the
// editing engine.
//
// The harness builds a fresh project (optionally seeded from a built-in
// template preset), executes a sequence of timeline operations against
// it, and validates step outcomes, final state, and composited output.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	template: podcast
//	steps:
//	  - op: add_track
//	    args: { name: Main, kind: video, overlap: disallow }
//	  - op: move_clip
//	    args: { clip: Intro, start: 3 }
//	    expect:
//	      error: CLIP_OVERLAP
//	assertions:
//	  - type: clip_count
//	    track: Main
//	    count: 2
//
// Steps reference tracks, clips, and speakers by display name. A
// reference that matches no live entity is passed through to the engine
// unchanged, so scenarios can exercise missing-entity behavior.
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - track_count: Verifies the number of tracks in the project
//   - clip_count: Verifies the number of clips on a track
//   - clip_at: Verifies a clip's start and/or duration
//   - compose_at: Verifies the display list length at a timeline position
//   - active_take: Verifies which take a dialogue clip has active
//   - duration: Verifies the project duration
//
// # Deterministic Testing
//
// All scenarios execute against a fresh project with sequential entity
// IDs and a deterministic logical clock (testutil.DeterministicClock)
// stamping trace events. This ensures identical traces across runs for
// golden file comparison.
//
// # Usage
//
// Load a scenario:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/clip_placement.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Execute it:
//
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
