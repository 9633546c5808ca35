// Package subtitle derives SRT documents from dialogue clips.
package subtitle

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/elloloop/auteur.one/internal/timeline"
)

// FromClips renders dialogue clips as an SRT document. Each dialogue
// clip with non-empty content becomes one cue spanning the clip's
// interval, ordered by start time with the input order breaking ties.
// When the clip's speaker reference resolves, the cue text is prefixed
// with the speaker name in brackets; dangling or absent references
// leave the text bare.
func FromClips(clips []*timeline.Clip, speakers []timeline.Speaker) string {
	cues := make([]*timeline.Clip, 0, len(clips))
	for _, clip := range clips {
		if clip.Kind != timeline.ClipDialogue {
			continue
		}
		if strings.TrimSpace(clip.Content) == "" {
			continue
		}
		cues = append(cues, clip)
	}
	sort.SliceStable(cues, func(i, j int) bool {
		return cues[i].Start < cues[j].Start
	})

	var sb strings.Builder
	for i, clip := range cues {
		text := strings.TrimSpace(clip.Content)
		if name, ok := timeline.ResolveSpeakerName(clip.SpeakerID, speakers); ok {
			text = fmt.Sprintf("[%s] %s", name, text)
		}
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n",
			i+1, formatSRTTime(clip.Start), formatSRTTime(clip.End()), text)
	}
	return sb.String()
}

// formatSRTTime converts seconds to the SRT time format HH:MM:SS,mmm.
// Rounding happens once on total milliseconds so values like 0.5999…
// carried in from float sums still land on the intended millisecond.
func formatSRTTime(seconds float64) string {
	totalMillis := int(math.Round(math.Abs(seconds) * 1000))
	hours := totalMillis / 3600000
	minutes := (totalMillis % 3600000) / 60000
	secs := (totalMillis % 60000) / 1000
	millis := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
