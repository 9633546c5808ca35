package transport

import (
	"context"
	"math"
	"strconv"

	"github.com/elloloop/auteur.one/internal/timeline"
)

// StepFunc renders one export frame. time is derived from the frame
// index alone and never from the wall clock.
type StepFunc func(frameIndex int, time float64) error

// FrameCount returns the number of frames an export of the given
// duration produces at the given frame rate.
func FrameCount(duration, fps float64) int {
	if duration <= 0 || fps <= 0 {
		return 0
	}
	return int(math.Ceil(duration * fps))
}

// FixedStep drives an export deterministically. It invokes fn
// sequentially for every frame index in [0, FrameCount), with
// time = frameIndex / fps exactly. The first error from fn aborts the
// run. Cancelling ctx aborts between frames with an export cancelled
// error.
func FixedStep(ctx context.Context, duration, fps float64, fn StepFunc) error {
	if fps <= 0 {
		return timeline.NewValidationError(timeline.ErrCodeValueOutOfRange,
			"frame rate must be positive", map[string]string{
				"fps": strconv.FormatFloat(fps, 'g', -1, 64),
			})
	}
	total := FrameCount(duration, fps)
	for i := 0; i < total; i++ {
		if ctx.Err() != nil {
			return timeline.NewExportError(timeline.ErrCodeExportCancelled,
				"export cancelled", true, map[string]string{
					"frame": strconv.Itoa(i),
					"total": strconv.Itoa(total),
				})
		}
		if err := fn(i, float64(i)/fps); err != nil {
			return err
		}
	}
	return nil
}
