// Package audio keeps what you hear in step with the playhead.
//
// The Synchronizer owns the live side: once per transport tick it
// compares the playhead against every audio-bearing clip and starts or
// stops playback handles so that exactly the clips under the playhead
// are sounding, at most one handle per clip. Playback itself goes
// through the Player interface so tests can swap in a fake and the
// production build can shell out to ffplay.
//
// The offline side is the Mixer, which renders the whole project into
// one stereo buffer for export, and the Decoder, which turns encoded
// sources into PCM with an LRU cache keyed by URL.
//
// Recording is a two-phase session over a single exclusive capture
// device. The session collects encoded chunks and finalizes them into
// one blob; deriving a duration and waveform from the blob is the
// caller's job.
package audio
