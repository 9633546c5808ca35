package document

import (
	"bytes"
	"errors"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/elloloop/auteur.one/internal/project"
	"github.com/elloloop/auteur.one/internal/timeline"
)

// Version is the current document format version. Older versions are
// accepted; newer versions are rejected.
const Version = 1

// Document is the on-disk YAML shape of a project. Take audio blobs
// are not persisted; only URI-backed takes survive a round trip.
type Document struct {
	Version  int                 `yaml:"version"`
	ID       string              `yaml:"id,omitempty"`
	Name     string              `yaml:"name"`
	Settings project.Settings    `yaml:"settings"`
	Tracks   []*timeline.Track   `yaml:"tracks,omitempty"`
	Clips    []*timeline.Clip    `yaml:"clips,omitempty"`
	Speakers []*timeline.Speaker `yaml:"speakers,omitempty"`
}

// FromProject snapshots a project into its document form. Tracks are
// ordered by z-order so saved documents diff cleanly. Takes that exist
// only as in-memory blobs are dropped, since the document cannot carry
// their audio; an active take pointing at a dropped blob is cleared.
func FromProject(p *project.Project) *Document {
	doc := &Document{
		Version:  Version,
		ID:       p.ID,
		Name:     p.Name,
		Settings: p.Settings,
		Tracks:   p.Tracks(),
	}
	for _, c := range p.Clips() {
		doc.Clips = append(doc.Clips, persistableClip(c))
	}
	speakers := p.Speakers()
	for i := range speakers {
		s := speakers[i]
		doc.Speakers = append(doc.Speakers, &s)
	}
	return doc
}

// persistableClip returns c, or a copy with blob-only takes removed
// when any exist. The live project is never mutated.
func persistableClip(c *timeline.Clip) *timeline.Clip {
	blobOnly := false
	for i := range c.Takes {
		if c.Takes[i].URI == "" {
			blobOnly = true
			break
		}
	}
	if !blobOnly {
		return c
	}

	out := c.Clone()
	kept := out.Takes[:0]
	for _, take := range out.Takes {
		if take.URI == "" {
			if out.ActiveTakeID == take.ID {
				out.ActiveTakeID = ""
			}
			continue
		}
		kept = append(kept, take)
	}
	out.Takes = kept
	if len(out.Takes) == 0 {
		out.Takes = nil
	}
	return out
}

// ToProject rebuilds the aggregate from the document and validates it.
// A nil generator defaults to UUIDs for entities created later.
func (d *Document) ToProject(ids timeline.IDGenerator) (*project.Project, error) {
	if d.Version > Version {
		return nil, timeline.NewFileError(timeline.ErrCodeUnsupportedFile,
			"document version is newer than this build supports", map[string]string{
				"version": strconv.Itoa(d.Version),
			})
	}

	p := project.New(d.Name, d.Settings, ids)
	if d.ID != "" {
		p.ID = d.ID
	}
	for _, t := range d.Tracks {
		p.AttachTrack(t)
	}
	for _, c := range d.Clips {
		p.AttachClip(c)
	}
	for _, s := range d.Speakers {
		p.AttachSpeaker(s)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse strictly decodes YAML document bytes and rebuilds the project.
func Parse(data []byte) (*project.Project, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&doc); err != nil {
		return nil, timeline.NewFileError(timeline.ErrCodeUnsupportedFile,
			"invalid project document", nil).WithCause(err)
	}
	return doc.ToProject(nil)
}

// Load reads a project document from disk.
func Load(path string) (*project.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, timeline.NewFileError(timeline.ErrCodeFileRead,
			"reading project document", map[string]string{
				"path": path,
			}).WithCause(err)
	}
	p, perr := Parse(data)
	if perr != nil {
		var e *timeline.Error
		if errors.As(perr, &e) {
			e.WithContext("path", path)
		}
		return nil, perr
	}
	return p, nil
}

// Marshal renders the document form of a project.
func Marshal(p *project.Project) ([]byte, error) {
	data, err := yaml.Marshal(FromProject(p))
	if err != nil {
		return nil, timeline.NewFileError(timeline.ErrCodeFileWrite,
			"encoding project document", nil).WithCause(err)
	}
	return data, nil
}

// Save writes the project document to path.
func Save(p *project.Project, path string) error {
	data, err := Marshal(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return timeline.NewFileError(timeline.ErrCodeFileWrite,
			"writing project document", map[string]string{
				"path": path,
			}).WithCause(err)
	}
	return nil
}
