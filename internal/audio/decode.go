package audio

import (
	"context"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Buffer holds decoded PCM as interleaved float64 samples in [-1, 1].
type Buffer struct {
	SampleRate int
	Channels   int
	Samples    []float64
}

// Frames returns the number of sample frames (samples per channel).
func (b *Buffer) Frames() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

// FirstChannel extracts channel zero as a contiguous slice. Mono
// buffers are returned as-is.
func (b *Buffer) FirstChannel() []float64 {
	if b.Channels <= 1 {
		return b.Samples
	}
	out := make([]float64, 0, b.Frames())
	for i := 0; i < len(b.Samples); i += b.Channels {
		out = append(out, b.Samples[i])
	}
	return out
}

// Decoder turns an encoded source into PCM.
type Decoder interface {
	Decode(ctx context.Context, src Source) (*Buffer, error)
}

// CachingDecoder wraps a Decoder with an LRU cache keyed by source
// URL. Blob sources bypass the cache entirely; they are one-shot
// recordings with no stable key.
type CachingDecoder struct {
	inner Decoder
	cache *lru.Cache[string, *Buffer]
}

// DefaultCacheSize is how many decoded buffers the cache retains.
const DefaultCacheSize = 32

// NewCachingDecoder wraps inner with a cache of the given size.
func NewCachingDecoder(inner Decoder, size int) (*CachingDecoder, error) {
	cache, err := lru.New[string, *Buffer](size)
	if err != nil {
		return nil, err
	}
	return &CachingDecoder{inner: inner, cache: cache}, nil
}

// Decode returns the cached buffer for URL-keyed sources when present,
// decoding and caching on miss. Callers must not mutate the returned
// buffer.
func (d *CachingDecoder) Decode(ctx context.Context, src Source) (*Buffer, error) {
	key := src.Key()
	if key != "" {
		if buf, ok := d.cache.Get(key); ok {
			slog.Debug("decode cache hit", "uri", key)
			return buf, nil
		}
	}
	buf, err := d.inner.Decode(ctx, src)
	if err != nil {
		return nil, err
	}
	if key != "" {
		d.cache.Add(key, buf)
	}
	return buf, nil
}
