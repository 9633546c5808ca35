package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elloloop/auteur.one/internal/timeline"
)

// One second spans 100px at base width 50 and zoom 2.
const (
	testBaseWidth = 50.0
	testZoom      = 2.0
)

func TestDragMoveConvertsPixelsToSeconds(t *testing.T) {
	clip := clipAt("c1", "t1", 4, 2)
	tracks := []*timeline.Track{disallowTrack("t1")}
	clips := []*timeline.Clip{clip}

	s, err := NewSession(clip, DragMove, 200, testBaseWidth, testZoom)
	require.NoError(t, err)

	g := s.Update(300, clips, tracks)
	assert.Equal(t, 5.0, g.Start, "100px at 100px/s moves one second")
	assert.Equal(t, 2.0, g.Duration, "move preserves duration")
}

func TestDragMoveClampsAtZero(t *testing.T) {
	clip := clipAt("c1", "t1", 1, 2)
	tracks := []*timeline.Track{disallowTrack("t1")}
	clips := []*timeline.Clip{clip}

	s, err := NewSession(clip, DragMove, 0, testBaseWidth, testZoom)
	require.NoError(t, err)

	g := s.Update(-500, clips, tracks)
	assert.Equal(t, 0.0, g.Start)
}

func TestDragMoveSilentlyRejectsOverlap(t *testing.T) {
	dragged := clipAt("c1", "t1", 6, 2)
	blocker := clipAt("c2", "t1", 0, 5)
	tracks := []*timeline.Track{disallowTrack("t1")}
	clips := []*timeline.Clip{dragged, blocker}

	s, err := NewSession(dragged, DragMove, 0, testBaseWidth, testZoom)
	require.NoError(t, err)

	// Legal move first.
	g := s.Update(-100, clips, tracks)
	assert.Equal(t, 5.0, g.Start)

	// Into the blocker: rejected, last valid geometry stands.
	g = s.Update(-300, clips, tracks)
	assert.Equal(t, 5.0, g.Start, "conflicting candidate leaves geometry unchanged")
}

func TestDragResizeFloorsDuration(t *testing.T) {
	clip := clipAt("c1", "t1", 0, 3)
	tracks := []*timeline.Track{disallowTrack("t1")}
	clips := []*timeline.Clip{clip}

	s, err := NewSession(clip, DragResize, 0, testBaseWidth, testZoom)
	require.NoError(t, err)

	g := s.Update(-1000, clips, tracks)
	assert.Equal(t, timeline.MinClipDuration, g.Duration, "resize never shrinks below the floor")
	assert.Equal(t, 0.0, g.Start, "resize preserves start")
}

func TestDragResizeGrows(t *testing.T) {
	clip := clipAt("c1", "t1", 0, 2)
	tracks := []*timeline.Track{disallowTrack("t1")}
	clips := []*timeline.Clip{clip}

	s, err := NewSession(clip, DragResize, 0, testBaseWidth, testZoom)
	require.NoError(t, err)

	g := s.Update(150, clips, tracks)
	assert.Equal(t, 3.5, g.Duration)
}

func TestDragCloseReportsChange(t *testing.T) {
	clip := clipAt("c1", "t1", 4, 2)
	tracks := []*timeline.Track{disallowTrack("t1")}
	clips := []*timeline.Clip{clip}

	s, err := NewSession(clip, DragMove, 0, testBaseWidth, testZoom)
	require.NoError(t, err)

	s.Update(100, clips, tracks)
	g, changed := s.Close()
	assert.True(t, changed)
	assert.Equal(t, 5.0, g.Start)

	// Updates after close are ignored.
	after := s.Update(500, clips, tracks)
	assert.Equal(t, g, after)
}

func TestDragCloseWithoutMovement(t *testing.T) {
	clip := clipAt("c1", "t1", 4, 2)
	s, err := NewSession(clip, DragMove, 0, testBaseWidth, testZoom)
	require.NoError(t, err)

	_, changed := s.Close()
	assert.False(t, changed)
}

func TestNewSessionValidation(t *testing.T) {
	clip := clipAt("c1", "t1", 0, 2)

	_, err := NewSession(clip, "rotate", 0, testBaseWidth, testZoom)
	require.Error(t, err)
	assert.Equal(t, timeline.ErrCodeInvalidEnum, timeline.CodeOf(err))

	_, err = NewSession(clip, DragMove, 0, 0, testZoom)
	require.Error(t, err)
	assert.Equal(t, timeline.ErrCodeValueOutOfRange, timeline.CodeOf(err))

	_, err = NewSession(clip, DragMove, 0, testBaseWidth, 0)
	require.Error(t, err)
}
