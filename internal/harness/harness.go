package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/elloloop/auteur.one/internal/compositor"
	"github.com/elloloop/auteur.one/internal/project"
	"github.com/elloloop/auteur.one/internal/template"
	"github.com/elloloop/auteur.one/internal/testutil"
	"github.com/elloloop/auteur.one/internal/timeline"
)

// OutcomeOK marks a step that completed without an engine error.
const OutcomeOK = "ok"

// Harness executes scenario steps against a live project.
type Harness struct {
	project *project.Project
	clock   *testutil.DeterministicClock
	logger  *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs against a fresh project for isolation, built from
// the named template preset or blank with default settings. Sequential
// entity IDs and a deterministic trace clock ensure reproducible
// results.
//
// Execution flow:
// 1. Build the project (template preset or blank)
// 2. Execute steps, recording op and outcome trace events
// 3. Validate each step outcome against its expect clause
// 4. Evaluate assertions against the final state
func Run(scenario *Scenario) (*Result, error) {
	proj, err := buildProject(scenario.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to build scenario project: %w", err)
	}

	h := &Harness{
		project: proj,
		clock:   testutil.NewDeterministicClock(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	result := NewResult()
	if err := h.executeSteps(scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	actx := &AssertionContext{
		Project:  proj,
		Registry: compositor.NewRegistry(),
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// buildProject creates the scenario project, seeded from a built-in
// template preset when one is named.
func buildProject(preset string) (*project.Project, error) {
	ids := testutil.NewSequentialIDs("e")
	if preset == "" {
		return project.New("scenario", project.DefaultSettings(), ids), nil
	}

	catalog, err := template.Builtin()
	if err != nil {
		return nil, err
	}
	tpl, err := catalog.Get(preset)
	if err != nil {
		return nil, err
	}
	return template.Apply(tpl, "scenario", ids)
}

// executeSteps runs all steps and validates expect clauses.
//
// Each step records an op trace event, executes the operation against
// the live project, and records the outcome: "ok" on success, or the
// engine error code on rejection. Engine errors become step outcomes
// rather than harness failures, so rejection scenarios run to
// completion. An error without a stable code indicates a broken
// scenario definition and aborts the run.
func (h *Harness) executeSteps(steps []Step, result *Result) error {
	for i, step := range steps {
		result.AddOpTrace(step.Op, step.Args, h.clock.Next())

		outcome := OutcomeOK
		if err := h.execute(step); err != nil {
			code := timeline.CodeOf(err)
			if code == "" {
				return fmt.Errorf("steps[%d] (%s): %w", i, step.Op, err)
			}
			outcome = string(code)
		}

		result.AddOutcomeTrace(outcome, h.clock.Next())

		expected := OutcomeOK
		if step.Expect != nil {
			expected = step.Expect.Error
		}
		if outcome != expected {
			result.AddError(fmt.Sprintf("steps[%d] (%s): expected outcome %s, got %s", i, step.Op, expected, outcome))
		}

		h.logger.Info("step completed",
			"step", i,
			"op", step.Op,
			"outcome", outcome,
		)
	}
	return nil
}

// execute dispatches a single step to its operation.
func (h *Harness) execute(step Step) error {
	switch step.Op {
	case OpAddTrack:
		return h.addTrack(step.Args)
	case OpRemoveTrack:
		return h.removeTrack(step.Args)
	case OpSetMute:
		return h.setMute(step.Args)
	case OpSetVolume:
		return h.setVolume(step.Args)
	case OpReorderTrack:
		return h.reorderTrack(step.Args)
	case OpAddClip:
		return h.addClip(step.Args)
	case OpMoveClip:
		return h.moveClip(step.Args)
	case OpResizeClip:
		return h.resizeClip(step.Args)
	case OpSplitClip:
		return h.splitClip(step.Args)
	case OpRemoveClip:
		return h.removeClip(step.Args)
	case OpRipple:
		return h.ripple(step.Args)
	case OpAddSpeaker:
		return h.addSpeaker(step.Args)
	case OpSetSpeaker:
		return h.setSpeaker(step.Args)
	case OpSetContent:
		return h.setContent(step.Args)
	case OpAddTake:
		return h.addTake(step.Args)
	case OpSetActiveTake:
		return h.setActiveTake(step.Args)
	case OpDeleteTake:
		return h.deleteTake(step.Args)
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
}

// trackID resolves a track reference to an entity ID. Names that match
// no live track pass through unchanged so scenarios can exercise
// missing-entity behavior.
func (h *Harness) trackID(ref string) string {
	for _, t := range h.project.Tracks() {
		if t.Name == ref {
			return t.ID
		}
	}
	return ref
}

// clipID resolves a clip reference to an entity ID.
func (h *Harness) clipID(ref string) string {
	for _, c := range h.project.Clips() {
		if c.Name == ref {
			return c.ID
		}
	}
	return ref
}

// speakerID resolves a speaker reference to an entity ID.
func (h *Harness) speakerID(ref string) string {
	for _, s := range h.project.Speakers() {
		if s.Name == ref {
			return s.ID
		}
	}
	return ref
}
