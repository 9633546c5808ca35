// Package transport drives the playhead.
//
// Two mutually exclusive drive modes share the same downstream
// consumers. Live preview advances the playhead by wall-clock elapsed
// time inside the Loop goroutine, so playback speed stays accurate even
// when frames are skipped. Export iterates fixed frame steps where
// time is derived purely from the frame index, so the same project
// always renders the same frames.
//
// The ExportGuard is the exclusion point: while an export holds it, the
// preview loop idles instead of ticking, keeping the audio session and
// the encoder from fighting over shared state.
package transport
