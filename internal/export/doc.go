// Package export renders a project into downloadable artifacts.
//
// An export produces up to three files: the muxed video, an SRT
// subtitle document derived from dialogue clips, and a standalone
// audio stem. The artifacts are independent; a subtitle write failure
// does not retract a finished video and vice versa. Frame rendering is
// driven by the transport's fixed-step iterator, so the same project
// always produces the same frames regardless of machine load.
//
// The Exporter is constructed with its encoder, mixer and rasterizer
// rather than reaching for process-wide state, which is what lets the
// tests run a full export against an in-memory encoder.
package export
