package project

import "github.com/elloloop/auteur.one/internal/timeline"

// Attach functions append pre-built entities without validation or ID
// generation. They exist for document loading and template application,
// which validate the finished aggregate in one pass via Validate.

// AttachTrack appends a fully formed track.
func (p *Project) AttachTrack(t *timeline.Track) {
	p.tracks = append(p.tracks, t)
}

// AttachClip appends a fully formed clip.
func (p *Project) AttachClip(c *timeline.Clip) {
	p.clips = append(p.clips, c)
}

// AttachSpeaker appends a fully formed speaker.
func (p *Project) AttachSpeaker(s *timeline.Speaker) {
	p.speakers = append(p.speakers, s)
}

// IDs exposes the project's generator for collaborators that mint
// entity IDs outside the aggregate, such as the recording workflow.
func (p *Project) IDs() timeline.IDGenerator {
	return p.ids
}
