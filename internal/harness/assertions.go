package harness

import (
	"fmt"
	"math"
	"strings"

	"github.com/elloloop/auteur.one/internal/compositor"
	"github.com/elloloop/auteur.one/internal/project"
	"github.com/elloloop/auteur.one/internal/timeline"
)

// timeEpsilon bounds the float drift tolerated when comparing clip
// times. Scenario values are plain decimals, so anything beyond this is
// a real mismatch.
const timeEpsilon = 1e-9

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	// Header with assertion type
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)

	// Expected vs Actual (most important info)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	// Full trace for context
	fmt.Fprintf(&buf, "\nFull trace:\n")
	for i, event := range e.Trace {
		if event.Type == "op" {
			fmt.Fprintf(&buf, "  [%d] %s %v\n", i+1, event.Op, event.Args)
		}
	}

	return buf.String()
}

// AssertionContext provides the final project state for evaluating
// assertions.
type AssertionContext struct {
	Project  *project.Project
	Registry *compositor.Registry
}

// EvaluateAssertions evaluates all assertions against the final state.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTrackCount:
			err = assertTrackCount(result.Trace, actx.Project, assertion)
		case AssertClipCount:
			err = assertClipCount(result.Trace, actx.Project, assertion)
		case AssertClipAt:
			err = assertClipAt(result.Trace, actx.Project, assertion)
		case AssertComposeAt:
			if actx.Registry == nil {
				err = fmt.Errorf("assertion[%d]: compose_at requires a renderer registry", i)
			} else {
				err = assertComposeAt(result.Trace, actx, assertion)
			}
		case AssertActiveTake:
			err = assertActiveTake(result.Trace, actx.Project, assertion)
		case AssertDuration:
			err = assertDuration(result.Trace, actx.Project, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

// assertTrackCount checks the number of tracks in the project.
func assertTrackCount(trace []TraceEvent, p *project.Project, assertion Assertion) error {
	actual := len(p.Tracks())
	if actual != assertion.Count {
		return &AssertionError{
			Type:     AssertTrackCount,
			Expected: fmt.Sprintf("%d tracks", assertion.Count),
			Actual:   fmt.Sprintf("%d tracks", actual),
			Trace:    trace,
		}
	}
	return nil
}

// assertClipCount checks the number of clips on the named track.
func assertClipCount(trace []TraceEvent, p *project.Project, assertion Assertion) error {
	track, ok := findTrack(p, assertion.Track)
	if !ok {
		return &AssertionError{
			Type:     AssertClipCount,
			Expected: fmt.Sprintf("track %q to exist", assertion.Track),
			Actual:   "track not found",
			Trace:    trace,
		}
	}

	actual := len(p.ClipsOnTrack(track.ID))
	if actual != assertion.Count {
		return &AssertionError{
			Type:     AssertClipCount,
			Expected: fmt.Sprintf("%d clips on track %q", assertion.Count, assertion.Track),
			Actual:   fmt.Sprintf("%d clips", actual),
			Trace:    trace,
		}
	}
	return nil
}

// assertClipAt checks the named clip's start and/or duration.
func assertClipAt(trace []TraceEvent, p *project.Project, assertion Assertion) error {
	clip, ok := findClip(p, assertion.Clip)
	if !ok {
		return &AssertionError{
			Type:     AssertClipAt,
			Expected: fmt.Sprintf("clip %q to exist", assertion.Clip),
			Actual:   "clip not found",
			Trace:    trace,
		}
	}

	if assertion.Start != nil && math.Abs(clip.Start-*assertion.Start) > timeEpsilon {
		return &AssertionError{
			Type:     AssertClipAt,
			Expected: fmt.Sprintf("clip %q at start %v", assertion.Clip, *assertion.Start),
			Actual:   fmt.Sprintf("start %v", clip.Start),
			Trace:    trace,
		}
	}
	if assertion.Duration != nil && math.Abs(clip.Duration-*assertion.Duration) > timeEpsilon {
		return &AssertionError{
			Type:     AssertClipAt,
			Expected: fmt.Sprintf("clip %q with duration %v", assertion.Clip, *assertion.Duration),
			Actual:   fmt.Sprintf("duration %v", clip.Duration),
			Trace:    trace,
		}
	}
	return nil
}

// assertComposeAt composites one frame of the final project and checks
// the display list length. The count includes the leading clear op.
func assertComposeAt(trace []TraceEvent, actx *AssertionContext, assertion Assertion) error {
	p := actx.Project
	scene := compositor.Scene{
		Width:      p.Settings.Width,
		Height:     p.Settings.Height,
		Background: p.Settings.Background,
		Tracks:     p.Tracks(),
		Clips:      p.Clips(),
		Speakers:   p.Speakers(),
	}

	list := actx.Registry.Compose(assertion.Time, scene)
	if list.Len() != assertion.Ops {
		return &AssertionError{
			Type:     AssertComposeAt,
			Expected: fmt.Sprintf("%d display ops at t=%v", assertion.Ops, assertion.Time),
			Actual:   fmt.Sprintf("%d display ops", list.Len()),
			Trace:    trace,
		}
	}
	return nil
}

// assertActiveTake checks which take the named dialogue clip has
// active. The expected take is referenced by 1-based position or by
// URI.
func assertActiveTake(trace []TraceEvent, p *project.Project, assertion Assertion) error {
	clip, ok := findClip(p, assertion.Clip)
	if !ok {
		return &AssertionError{
			Type:     AssertActiveTake,
			Expected: fmt.Sprintf("clip %q to exist", assertion.Clip),
			Actual:   "clip not found",
			Trace:    trace,
		}
	}

	var want *timeline.Take
	if assertion.URI != "" {
		for i := range clip.Takes {
			if clip.Takes[i].URI == assertion.URI {
				want = &clip.Takes[i]
				break
			}
		}
		if want == nil {
			return &AssertionError{
				Type:     AssertActiveTake,
				Expected: fmt.Sprintf("clip %q to hold a take with uri %q", assertion.Clip, assertion.URI),
				Actual:   "no such take",
				Trace:    trace,
			}
		}
	} else {
		if assertion.Take < 1 || assertion.Take > len(clip.Takes) {
			return &AssertionError{
				Type:     AssertActiveTake,
				Expected: fmt.Sprintf("clip %q to hold a take at position %d", assertion.Clip, assertion.Take),
				Actual:   fmt.Sprintf("%d takes", len(clip.Takes)),
				Trace:    trace,
			}
		}
		want = &clip.Takes[assertion.Take-1]
	}

	if clip.ActiveTakeID != want.ID {
		return &AssertionError{
			Type:     AssertActiveTake,
			Expected: fmt.Sprintf("active take %s", want.ID),
			Actual:   fmt.Sprintf("active take %q", clip.ActiveTakeID),
			Trace:    trace,
		}
	}
	return nil
}

// assertDuration checks the project duration.
func assertDuration(trace []TraceEvent, p *project.Project, assertion Assertion) error {
	actual := p.Duration()
	if math.Abs(actual-*assertion.Seconds) > timeEpsilon {
		return &AssertionError{
			Type:     AssertDuration,
			Expected: fmt.Sprintf("project duration %v", *assertion.Seconds),
			Actual:   fmt.Sprintf("duration %v", actual),
			Trace:    trace,
		}
	}
	return nil
}

// findTrack locates a track by display name.
func findTrack(p *project.Project, name string) (*timeline.Track, bool) {
	for _, t := range p.Tracks() {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// findClip locates a clip by display name.
func findClip(p *project.Project, name string) (*timeline.Clip, bool) {
	for _, c := range p.Clips() {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
