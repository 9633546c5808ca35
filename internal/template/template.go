package template

import (
	"sort"

	"github.com/elloloop/auteur.one/internal/project"
	"github.com/elloloop/auteur.one/internal/timeline"
)

// TrackPreset describes one track a preset creates. Tracks are stacked
// in declaration order, first entry at the bottom of the z-order.
type TrackPreset struct {
	Name  string
	Kind  timeline.TrackKind
	Rules *timeline.PlacementRules
}

// SpeakerPreset describes one ready speaker.
type SpeakerPreset struct {
	Name  string
	Color string
}

// Preset is a named project starting point.
type Preset struct {
	Name        string
	Description string
	Settings    project.Settings
	Tracks      []TrackPreset
	Speakers    []SpeakerPreset
}

// Catalog is a set of presets keyed by name.
type Catalog struct {
	presets map[string]*Preset
}

func newCatalog() *Catalog {
	return &Catalog{presets: make(map[string]*Preset)}
}

func (c *Catalog) add(p *Preset) {
	c.presets[p.Name] = p
}

// Names returns the preset names sorted alphabetically.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.presets))
	for name := range c.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get finds a preset by name.
func (c *Catalog) Get(name string) (*Preset, error) {
	p, ok := c.presets[name]
	if !ok {
		return nil, timeline.NewNotFoundError("template", name)
	}
	return p, nil
}

// Len returns the number of presets in the catalog.
func (c *Catalog) Len() int {
	return len(c.presets)
}

// Apply constructs a new project from the preset: settings copied,
// tracks created in declaration order, speakers registered. The
// returned project shares nothing with the preset.
func Apply(preset *Preset, projectName string, ids timeline.IDGenerator) (*project.Project, error) {
	p := project.New(projectName, preset.Settings, ids)
	for _, tp := range preset.Tracks {
		track, err := p.AddTrack(tp.Name, tp.Kind)
		if err != nil {
			return nil, err
		}
		if tp.Rules != nil {
			rules := *tp.Rules
			track.Rules = &rules
		}
	}
	for _, sp := range preset.Speakers {
		if _, err := p.AddSpeaker(sp.Name, sp.Color); err != nil {
			return nil, err
		}
	}
	return p, nil
}
