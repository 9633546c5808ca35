package project

import (
	"sort"

	"github.com/elloloop/auteur.one/internal/timeline"
)

// Settings holds the project-level output configuration.
type Settings struct {
	// Width and Height are the output frame dimensions in pixels.
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`

	// FPS is the output frame rate.
	FPS float64 `json:"fps" yaml:"fps"`

	// Duration is the minimum timeline length in seconds. The
	// effective duration grows with clip content.
	Duration float64 `json:"duration" yaml:"duration"`

	// Background is the canvas clear color, 6 hex digits.
	Background string `json:"background" yaml:"background"`
}

// DefaultSettings returns a 1080p30 project with a black background.
func DefaultSettings() Settings {
	return Settings{
		Width:      1920,
		Height:     1080,
		FPS:        30,
		Duration:   0,
		Background: "000000",
	}
}

// Project is the editing aggregate. Not safe for concurrent mutation;
// the engine's single-writer discipline serializes access.
type Project struct {
	ID       string
	Name     string
	Settings Settings

	tracks   []*timeline.Track
	clips    []*timeline.Clip
	speakers []*timeline.Speaker

	ids timeline.IDGenerator
}

// New creates an empty project. A nil generator defaults to UUIDs.
func New(name string, settings Settings, ids timeline.IDGenerator) *Project {
	if ids == nil {
		ids = timeline.UUIDGenerator{}
	}
	return &Project{
		ID:       ids.NewID(),
		Name:     name,
		Settings: settings,
		ids:      ids,
	}
}

// Tracks returns the tracks sorted by z-order, lowest first.
func (p *Project) Tracks() []*timeline.Track {
	out := make([]*timeline.Track, len(p.tracks))
	copy(out, p.tracks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Clips returns all clips in insertion order.
func (p *Project) Clips() []*timeline.Clip {
	out := make([]*timeline.Clip, len(p.clips))
	copy(out, p.clips)
	return out
}

// Speakers returns all speakers in insertion order.
func (p *Project) Speakers() []timeline.Speaker {
	out := make([]timeline.Speaker, len(p.speakers))
	for i, s := range p.speakers {
		out[i] = *s
	}
	return out
}

// TrackByID finds a track, or returns a not-found error.
func (p *Project) TrackByID(id string) (*timeline.Track, error) {
	for _, t := range p.tracks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, timeline.NewNotFoundError("track", id)
}

// ClipByID finds a clip, or returns a not-found error.
func (p *Project) ClipByID(id string) (*timeline.Clip, error) {
	for _, c := range p.clips {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, timeline.NewNotFoundError("clip", id)
}

// SpeakerByID finds a speaker, or returns a not-found error.
func (p *Project) SpeakerByID(id string) (*timeline.Speaker, error) {
	for _, s := range p.speakers {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, timeline.NewNotFoundError("speaker", id)
}

// ClipsOnTrack returns the clips placed on the given track, sorted by
// start time.
func (p *Project) ClipsOnTrack(trackID string) []*timeline.Clip {
	var out []*timeline.Clip
	for _, c := range p.clips {
		if c.TrackID == trackID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Duration returns the effective timeline length: the furthest clip
// end, or the configured minimum duration if that is larger.
func (p *Project) Duration() float64 {
	d := p.Settings.Duration
	for _, c := range p.clips {
		if end := c.End(); end > d {
			d = end
		}
	}
	return d
}

// Stats summarizes the project contents.
type Stats struct {
	Tracks   int     `json:"tracks"`
	Clips    int     `json:"clips"`
	Speakers int     `json:"speakers"`
	Duration float64 `json:"duration"`
}

// Stats returns entity counts and the effective duration.
func (p *Project) Stats() Stats {
	return Stats{
		Tracks:   len(p.tracks),
		Clips:    len(p.clips),
		Speakers: len(p.speakers),
		Duration: p.Duration(),
	}
}
