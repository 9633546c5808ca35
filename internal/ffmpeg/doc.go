// Package ffmpeg shells out to the ffmpeg tool family.
//
// Encoder feeds raw RGBA frames and PCM through ffmpeg pipes to
// produce the export container and audio stem. Decoder renders encoded
// audio to PCM for the offline mixer. FrameSource loads still images
// and extracts video frames for the rasterizer. Player starts one
// ffplay process per live playback handle. Device captures microphone
// input as encoded chunks. Probe reads media metadata for ingestion.
//
// Everything here is the impure edge of the system; the interfaces
// these types satisfy are defined by their consumers, which run fakes
// in tests.
package ffmpeg
